// Package gutenberg retrieves the plain-text body of a catalog book
// and strips the Project Gutenberg licensing boilerplate around it.
package gutenberg

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

// maxTextSize caps a full-text download at 20 MiB; the largest plain
// text on Gutenberg is well under that.
const maxTextSize = 20 << 20

// Fetcher downloads book text over HTTP.
type Fetcher struct {
	httpClient *http.Client
}

func NewFetcher() *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// FetchText retrieves the resource at url and returns its body with
// boilerplate removed and whitespace normalized.
func (f *Fetcher) FetchText(ctx context.Context, url string) (string, error) {
	raw, err := f.FetchRaw(ctx, url)
	if err != nil {
		return "", err
	}
	return CleanText(raw), nil
}

// FetchRaw retrieves the resource at url verbatim.
func (f *Fetcher) FetchRaw(ctx context.Context, url string) (string, error) {
	if url == "" {
		return "", fmt.Errorf("url is required")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "OpenShelf/1.0")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch text: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch text: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxTextSize))
	if err != nil {
		return "", fmt.Errorf("read text body: %w", err)
	}

	return string(body), nil
}

// Gutenberg ebooks open and close with "*** START OF THE PROJECT
// GUTENBERG EBOOK ... ***" / "*** END OF ..." marker lines.
var (
	startMarker = regexp.MustCompile(`(?i)\*\*\* ?START OF (THE|THIS) PROJECT GUTENBERG EBOOK[^*]*\*\*\*`)
	endMarker   = regexp.MustCompile(`(?i)\*\*\* ?END OF (THE|THIS) PROJECT GUTENBERG EBOOK[^*]*\*\*\*`)

	headingFallback = regexp.MustCompile(`(?is)^.*?(CHAPTER|INTRODUCTION)`)
	// Only a standalone "THE END" line ends the body; the phrase
	// occurs mid-sentence in running prose.
	theEndFallback = regexp.MustCompile(`(?im)^\s*THE END\.?\s*$`)

	blankRuns = regexp.MustCompile(`\r?\n{2,}`)
)

// CleanText strips the Gutenberg header and footer from text. When
// the marker lines are present, only the content between them is
// kept; otherwise a heading-based fallback trims the obvious
// front and back matter. Blank-line runs are collapsed either way.
func CleanText(text string) string {
	start := startMarker.FindStringIndex(text)
	end := endMarker.FindStringIndex(text)

	if start != nil && end != nil && end[0] > start[0] {
		text = text[start[1]:end[0]]
	} else {
		if loc := headingFallback.FindStringSubmatchIndex(text); loc != nil {
			// Keep the heading itself, drop everything before it.
			text = text[loc[2]:]
		}
		if loc := theEndFallback.FindStringIndex(text); loc != nil {
			text = text[:loc[0]]
		}
	}

	text = blankRuns.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
