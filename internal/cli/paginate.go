package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/openshelf/openshelf/internal/gutenberg"
	"github.com/openshelf/openshelf/internal/pagination"
)

type PaginateCommand struct {
	FilePath       string
	PageBudget     int
	SentenceTarget float64
	Overflow       float64
	Clean          bool
	Page           int
	Verbose        bool
}

func NewPaginateCommand() *PaginateCommand {
	return &PaginateCommand{}
}

func (cmd *PaginateCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("paginate", flag.ExitOnError)

	fs.StringVar(&cmd.FilePath, "file", "", "Path to a plain-text book file (required)")
	fs.IntVar(&cmd.PageBudget, "budget", 2000, "Target characters per page")
	fs.Float64Var(&cmd.SentenceTarget, "sentence-target", pagination.DefaultSentenceTarget, "Fraction of the budget to fill before breaking at a sentence")
	fs.Float64Var(&cmd.Overflow, "overflow", pagination.DefaultOverflow, "How far past the budget a page may grow before a forced split")
	fs.BoolVar(&cmd.Clean, "clean", true, "Strip Project Gutenberg boilerplate before paginating")
	fs.IntVar(&cmd.Page, "page", -1, "Print the content of a single page (0-based) instead of statistics")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Print per-page sizes")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s paginate [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Split a local book text file into pages and print statistics.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s paginate -file ./pg1342.txt\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s paginate -file ./pg1342.txt -budget 1500 -verbose\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s paginate -file ./pg1342.txt -page 0\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.FilePath == "" {
		fs.Usage()
		return fmt.Errorf("file is required")
	}
	if cmd.PageBudget <= 0 {
		return fmt.Errorf("budget must be positive")
	}

	return nil
}

func (cmd *PaginateCommand) Run() error {
	raw, err := os.ReadFile(cmd.FilePath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", cmd.FilePath, err)
	}

	text := string(raw)
	if cmd.Clean {
		text = gutenberg.CleanText(text)
	}

	paginator := pagination.New(cmd.PageBudget)
	paginator.SentenceTarget = cmd.SentenceTarget
	paginator.Overflow = cmd.Overflow

	pages := paginator.Paginate(text)
	if len(pages) == 0 {
		return fmt.Errorf("no readable text found in %s", cmd.FilePath)
	}

	if cmd.Page >= 0 {
		if cmd.Page >= len(pages) {
			return fmt.Errorf("page %d out of range (book has %d pages)", cmd.Page, len(pages))
		}
		fmt.Println(pages[cmd.Page])
		return nil
	}

	total := 0
	smallest, largest := len(pages[0]), len(pages[0])
	for _, page := range pages {
		total += len(page)
		if len(page) < smallest {
			smallest = len(page)
		}
		if len(page) > largest {
			largest = len(page)
		}
	}

	fmt.Printf("=== Pagination Results ===\n")
	fmt.Printf("File: %s\n", cmd.FilePath)
	fmt.Printf("Pages: %d\n", len(pages))
	fmt.Printf("Total characters: %d\n", total)
	fmt.Printf("Average page size: %d\n", total/len(pages))
	fmt.Printf("Smallest page: %d\n", smallest)
	fmt.Printf("Largest page: %d\n", largest)

	if cmd.Verbose {
		fmt.Printf("\n=== Pages ===\n")
		for i, page := range pages {
			fmt.Printf("%4d. %d characters\n", i, len(page))
		}
	}

	return nil
}
