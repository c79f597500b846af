package pagination

import (
	"strings"
	"testing"
)

func TestPaginate_EmptyText(t *testing.T) {
	p := New(2000)

	for _, input := range []string{"", "   ", "\n\n\n", "\r\n\r\n"} {
		pages := p.Paginate(input)
		if len(pages) != 0 {
			t.Errorf("expected no pages for %q, got %d", input, len(pages))
		}
	}
}

func TestPaginate_SingleShortParagraph(t *testing.T) {
	p := New(2000)

	pages := p.Paginate("A short paragraph that fits on one page.")
	if len(pages) != 1 {
		t.Fatalf("expected 1 page, got %d", len(pages))
	}
	if pages[0] != "A short paragraph that fits on one page." {
		t.Errorf("unexpected page content: %q", pages[0])
	}
}

func TestPaginate_BreaksAtSentenceBoundary(t *testing.T) {
	p := New(20)

	pages := p.Paginate("Para one sentence one. Sentence two.\n\nPara two.")
	if len(pages) < 2 {
		t.Fatalf("expected at least 2 pages, got %d: %v", len(pages), pages)
	}

	// Every page must end at a sentence or paragraph boundary, never mid-word.
	for i, page := range pages {
		last := page[len(page)-1]
		if last != '.' && last != '!' && last != '?' {
			t.Errorf("page %d does not end at a sentence boundary: %q", i, page)
		}
	}
}

func TestPaginate_NormalizesLineEndings(t *testing.T) {
	p := New(2000)

	crlf := p.Paginate("First paragraph.\r\n\r\nSecond paragraph.")
	lf := p.Paginate("First paragraph.\n\nSecond paragraph.")

	if len(crlf) != len(lf) {
		t.Fatalf("CRLF and LF inputs produced different page counts: %d vs %d", len(crlf), len(lf))
	}
	for i := range crlf {
		if crlf[i] != lf[i] {
			t.Errorf("page %d differs: %q vs %q", i, crlf[i], lf[i])
		}
	}
}

func TestPaginate_CollapsesRepeatedBlankLines(t *testing.T) {
	p := New(2000)

	pages := p.Paginate("One.\n\n\n\n\nTwo.")
	if len(pages) != 1 {
		t.Fatalf("expected 1 page, got %d", len(pages))
	}
	if pages[0] != "One.\n\nTwo." {
		t.Errorf("unexpected page content: %q", pages[0])
	}
}

func TestPaginate_Deterministic(t *testing.T) {
	text := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 200) +
		"\n\n" + strings.Repeat("Pack my box with five dozen liquor jugs. ", 150)
	p := New(500)

	first := p.Paginate(text)
	second := p.Paginate(text)

	if len(first) != len(second) {
		t.Fatalf("page counts differ between runs: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("page %d differs between runs", i)
		}
	}
}

func TestPaginate_PreservesParagraphOrder(t *testing.T) {
	text := "Alpha paragraph here. It has two sentences.\n\n" +
		"Beta paragraph follows. Also two sentences.\n\n" +
		"Gamma closes the text. The final sentence."
	p := New(60)

	pages := p.Paginate(text)
	joined := strings.Join(pages, " ")

	for _, word := range []string{"Alpha", "Beta", "Gamma"} {
		if !strings.Contains(joined, word) {
			t.Errorf("paragraph starting with %q lost during pagination", word)
		}
	}

	alpha := strings.Index(joined, "Alpha")
	beta := strings.Index(joined, "Beta")
	gamma := strings.Index(joined, "Gamma")
	if !(alpha < beta && beta < gamma) {
		t.Errorf("paragraph order not preserved: alpha=%d beta=%d gamma=%d", alpha, beta, gamma)
	}
}

func TestPaginate_PagesRespectOverflowBound(t *testing.T) {
	budget := 300
	p := New(budget)
	text := strings.Repeat("A reasonably sized sentence goes right here. ", 100)

	pages := p.Paginate(text)
	if len(pages) < 2 {
		t.Fatalf("expected multiple pages, got %d", len(pages))
	}

	bound := int(float64(budget) * p.Overflow)
	for i, page := range pages {
		if len(page) > bound {
			t.Errorf("page %d exceeds overflow bound: %d > %d", i, len(page), bound)
		}
	}
}

func TestPaginate_HugeUnsplittableParagraphTerminates(t *testing.T) {
	// A single "sentence" far beyond the budget, with no sentence
	// punctuation at all. Must still terminate and emit the text.
	text := strings.Repeat("word ", 2000)
	p := New(100)

	pages := p.Paginate(text)
	if len(pages) == 0 {
		t.Fatal("expected at least one page for unsplittable text")
	}

	total := 0
	for _, page := range pages {
		total += len(page)
	}
	if total < len(strings.TrimSpace(text))-len(pages) {
		t.Errorf("text lost during pagination: got %d of %d chars", total, len(text))
	}
}

func TestPaginate_NoPunctuationDegradesToParagraphs(t *testing.T) {
	text := "first paragraph without punctuation\n\nsecond paragraph without punctuation"
	p := New(40)

	pages := p.Paginate(text)
	if len(pages) != 2 {
		t.Fatalf("expected 2 pages, got %d: %v", len(pages), pages)
	}
	if pages[0] != "first paragraph without punctuation" {
		t.Errorf("unexpected first page: %q", pages[0])
	}
	if pages[1] != "second paragraph without punctuation" {
		t.Errorf("unexpected second page: %q", pages[1])
	}
}

func TestPaginate_ZeroBudget(t *testing.T) {
	p := Paginator{Budget: 0}
	if pages := p.Paginate("Some text."); pages != nil {
		t.Errorf("expected nil pages for zero budget, got %v", pages)
	}
}

func TestPaginate_NoEmptyPages(t *testing.T) {
	text := "One.\n\n\n\nTwo.\n\n \n\nThree."

	for i, page := range New(8).Paginate(text) {
		if strings.TrimSpace(page) == "" {
			t.Errorf("page %d is empty", i)
		}
	}
}

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "periods",
			input: "First one. Second one. Third one.",
			want:  []string{"First one.", "Second one.", "Third one."},
		},
		{
			name:  "mixed punctuation",
			input: "Really? Yes! Fine then.",
			want:  []string{"Really?", "Yes!", "Fine then."},
		},
		{
			name:  "no boundary",
			input: "no punctuation at all",
			want:  []string{"no punctuation at all"},
		},
		{
			name:  "abbreviation-like trailing period",
			input: "It ended abruptly.",
			want:  []string{"It ended abruptly."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitSentences(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d sentences, got %d: %v", len(tt.want), len(got), got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("sentence %d: expected %q, got %q", i, tt.want[i], got[i])
				}
			}
		})
	}
}
