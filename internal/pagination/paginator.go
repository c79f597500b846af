// Package pagination splits raw book text into reading pages under a
// target character budget, preferring paragraph and sentence
// boundaries over hard cuts.
package pagination

import (
	"strings"
)

const (
	// DefaultSentenceTarget is the fraction of the budget a page is
	// filled to before a sentence-level break is taken.
	DefaultSentenceTarget = 0.75

	// DefaultOverflow is how far past the budget a buffer may grow
	// before a split is forced.
	DefaultOverflow = 1.1
)

// paragraphSep rejoins paragraphs committed to the same page.
const paragraphSep = "\n\n"

// Paginator chunks text into pages. The zero value is not usable;
// construct with New. The two ratios have no empirically grounded
// values; they are kept adjustable.
type Paginator struct {
	Budget         int
	SentenceTarget float64
	Overflow       float64
}

// New returns a Paginator for the given character budget with default
// sentence-target and overflow ratios.
func New(budget int) Paginator {
	return Paginator{
		Budget:         budget,
		SentenceTarget: DefaultSentenceTarget,
		Overflow:       DefaultOverflow,
	}
}

// Paginate splits text into an ordered list of non-empty pages.
// It is pure and deterministic: identical input yields identical
// output. An empty or whitespace-only text yields no pages.
func (p Paginator) Paginate(text string) []string {
	if p.Budget <= 0 {
		return nil
	}

	sentenceTarget := p.SentenceTarget
	if sentenceTarget <= 0 || sentenceTarget > 1 {
		sentenceTarget = DefaultSentenceTarget
	}
	overflow := p.Overflow
	if overflow < 1 {
		overflow = DefaultOverflow
	}

	paragraphs := splitParagraphs(normalize(text))

	var pages []string
	var buf strings.Builder

	commit := func() {
		page := strings.TrimSpace(buf.String())
		if page != "" {
			pages = append(pages, page)
		}
		buf.Reset()
	}

	for _, para := range paragraphs {
		// If appending would overflow the budget, close out the
		// current buffer at a sentence boundary first.
		if buf.Len() > 0 && buf.Len()+len(paragraphSep)+len(para) > p.Budget {
			head, rest := splitAtSentence(buf.String(), int(float64(p.Budget)*sentenceTarget))
			buf.Reset()
			if head != "" {
				pages = append(pages, head)
			}
			if rest != "" {
				buf.WriteString(rest)
			}
		}

		if buf.Len() > 0 {
			buf.WriteString(paragraphSep)
		}
		buf.WriteString(para)

		// Safety valve: a single huge paragraph can blow past the
		// budget no matter how the previous buffer was split. Commit
		// sentence-sized chunks greedily until back within bounds.
		for float64(buf.Len()) > float64(p.Budget)*overflow {
			head, rest := splitAtSentence(buf.String(), int(float64(p.Budget)*sentenceTarget))
			if head == "" || rest == "" {
				// No sentence boundary to cut at; emit as-is.
				commit()
				break
			}
			pages = append(pages, head)
			buf.Reset()
			buf.WriteString(rest)
		}
	}

	commit()

	return pages
}

// normalize unifies line endings and collapses runs of three or more
// newlines into a single blank-line paragraph break.
func normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	for strings.Contains(text, "\n\n\n") {
		text = strings.ReplaceAll(text, "\n\n\n", "\n\n")
	}
	return strings.TrimSpace(text)
}

// splitParagraphs breaks normalized text on blank lines, discarding
// empty paragraphs.
func splitParagraphs(text string) []string {
	if text == "" {
		return nil
	}
	raw := strings.Split(text, "\n\n")
	paragraphs := make([]string, 0, len(raw))
	for _, p := range raw {
		p = strings.TrimSpace(p)
		if p != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	return paragraphs
}

// splitAtSentence cuts text after the sentence that carries the
// accumulated length past target, returning (head, rest) with both
// sides trimmed. A text with a single sentence (or no sentence
// punctuation at all) cannot be split at this level and is returned
// whole as head.
func splitAtSentence(text string, target int) (head, rest string) {
	sentences := splitSentences(text)
	if len(sentences) <= 1 {
		return strings.TrimSpace(text), ""
	}

	total := 0
	cut := 0
	for i, s := range sentences {
		total += len(s)
		if total >= target {
			cut = i + 1
			break
		}
	}
	if cut == 0 || cut >= len(sentences) {
		// Either every sentence fits under target or the boundary
		// lands after the last sentence; keep at least one sentence
		// on each side.
		cut = len(sentences) - 1
	}

	head = strings.TrimSpace(strings.Join(sentences[:cut], " "))
	rest = strings.TrimSpace(strings.Join(sentences[cut:], " "))
	return head, rest
}

// splitSentences breaks text after '.', '!' or '?' followed by
// whitespace. The delimiter stays attached to its sentence.
func splitSentences(text string) []string {
	var sentences []string
	start := 0
	for i := 0; i < len(text)-1; i++ {
		c := text[i]
		if (c == '.' || c == '!' || c == '?') && isSpace(text[i+1]) {
			s := strings.TrimSpace(text[start : i+1])
			if s != "" {
				sentences = append(sentences, s)
			}
			start = i + 1
		}
	}
	if tail := strings.TrimSpace(text[start:]); tail != "" {
		sentences = append(sentences, tail)
	}
	return sentences
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\n' || c == '\t'
}
