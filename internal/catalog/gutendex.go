// Package catalog fetches public-domain book metadata from a Gutendex
// instance (https://gutendex.com). Books are read-only: they come
// from the catalog and are never mutated locally.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

var ErrBookNotFound = errors.New("book not found in catalog")

const userAgent = "OpenShelf/1.0 (https://github.com/openshelf/openshelf)"

// Book is a normalized catalog record.
type Book struct {
	ID       string            `json:"id"`
	Title    string            `json:"title"`
	Authors  []string          `json:"authors"`
	Formats  map[string]string `json:"formats"` // MIME type -> content URL
	Subjects []string          `json:"subjects,omitempty"`
	Summary  string            `json:"summary,omitempty"`
}

// Author returns the primary author, or "Unknown" when the catalog
// lists none.
func (b Book) Author() string {
	if len(b.Authors) == 0 {
		return "Unknown"
	}
	return b.Authors[0]
}

// CoverURL returns the JPEG cover URL when the catalog provides one.
func (b Book) CoverURL() string {
	return b.Formats["image/jpeg"]
}

// PlainTextURL returns the URL of the book's plain-text body,
// preferring the us-ascii variant the way the original reader did.
// Empty when the book has no plain-text format at all.
func (b Book) PlainTextURL() string {
	if u, ok := b.Formats["text/plain; charset=us-ascii"]; ok {
		return u
	}
	// Map iteration order is random; scan sorted keys so the same book
	// always resolves to the same URL.
	mimes := make([]string, 0, len(b.Formats))
	for mime := range b.Formats {
		if strings.HasPrefix(mime, "text/plain") {
			mimes = append(mimes, mime)
		}
	}
	if len(mimes) == 0 {
		return ""
	}
	sort.Strings(mimes)
	return b.Formats[mimes[0]]
}

// BookPage is one page of catalog listing results.
type BookPage struct {
	Count   int    `json:"count"`
	Books   []Book `json:"books"`
	HasNext bool   `json:"has_next"`
}

// Client talks to the Gutendex API.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	rateLimiter *rateLimiter
}

type rateLimiter struct {
	mu       sync.Mutex
	lastCall time.Time
	interval time.Duration
}

func newRateLimiter(interval time.Duration) *rateLimiter {
	return &rateLimiter{interval: interval}
}

func (r *rateLimiter) wait() {
	r.mu.Lock()
	defer r.mu.Unlock()

	since := time.Since(r.lastCall)
	if since < r.interval {
		time.Sleep(r.interval - since)
	}
	r.lastCall = time.Now()
}

// NewClient creates a Gutendex client with rate limiting.
func NewClient(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL:     strings.TrimRight(baseURL, "/"),
		rateLimiter: newRateLimiter(time.Second), // 1 request per second
	}
}

// GetBook fetches a single book by its catalog id.
func (c *Client) GetBook(ctx context.Context, id string) (*Book, error) {
	if id == "" {
		return nil, fmt.Errorf("book id is required")
	}

	c.rateLimiter.wait()

	reqURL := fmt.Sprintf("%s/books/%s", c.baseURL, url.PathEscape(id))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch book %s: %w", id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrBookNotFound, id)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var raw gutendexBook
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	book := convertBook(&raw)
	return &book, nil
}

// Search runs a free-text search over titles and authors. Only books
// with an English plain-text body are requested, matching the
// listing the reader can actually open.
func (c *Client) Search(ctx context.Context, query string, page int) (*BookPage, error) {
	if query == "" {
		return nil, fmt.Errorf("query is required")
	}

	params := url.Values{}
	params.Set("search", query)
	return c.list(ctx, params, page)
}

// Browse lists books for a subject topic.
func (c *Client) Browse(ctx context.Context, topic string, page int) (*BookPage, error) {
	params := url.Values{}
	if topic != "" {
		params.Set("topic", topic)
	}
	return c.list(ctx, params, page)
}

func (c *Client) list(ctx context.Context, params url.Values, page int) (*BookPage, error) {
	c.rateLimiter.wait()

	params.Set("languages", "en")
	params.Set("mime_type", "text/plain")
	if page > 1 {
		params.Set("page", strconv.Itoa(page))
	}

	reqURL := fmt.Sprintf("%s/books?%s", c.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search books: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var result gutendexList
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	books := make([]Book, 0, len(result.Results))
	for i := range result.Results {
		books = append(books, convertBook(&result.Results[i]))
	}

	return &BookPage{
		Count:   result.Count,
		Books:   books,
		HasNext: result.Next != "",
	}, nil
}

func convertBook(raw *gutendexBook) Book {
	authors := make([]string, 0, len(raw.Authors))
	for _, a := range raw.Authors {
		if a.Name != "" {
			authors = append(authors, a.Name)
		}
	}

	summary := ""
	if len(raw.Summaries) > 0 {
		summary = raw.Summaries[0]
	}

	return Book{
		ID:       strconv.Itoa(raw.ID),
		Title:    raw.Title,
		Authors:  authors,
		Formats:  raw.Formats,
		Subjects: raw.Subjects,
		Summary:  summary,
	}
}

// Gutendex API response types (internal)

type gutendexBook struct {
	ID        int               `json:"id"`
	Title     string            `json:"title"`
	Authors   []gutendexAuthor  `json:"authors"`
	Subjects  []string          `json:"subjects"`
	Summaries []string          `json:"summaries"`
	Formats   map[string]string `json:"formats"`
}

type gutendexAuthor struct {
	Name      string `json:"name"`
	BirthYear int    `json:"birth_year"`
	DeathYear int    `json:"death_year"`
}

type gutendexList struct {
	Count    int            `json:"count"`
	Next     string         `json:"next"`
	Previous string         `json:"previous"`
	Results  []gutendexBook `json:"results"`
}
