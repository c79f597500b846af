package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/openshelf/openshelf/internal/catalog"
	"github.com/openshelf/openshelf/internal/config"
	"github.com/openshelf/openshelf/internal/gutenberg"
)

type FetchTextCommand struct {
	BookID     string
	CatalogURL string
	OutputPath string
	Raw        bool
	Timeout    time.Duration
}

func NewFetchTextCommand() *FetchTextCommand {
	return &FetchTextCommand{}
}

func (cmd *FetchTextCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("fetch-text", flag.ExitOnError)

	fs.StringVar(&cmd.BookID, "id", "", "Catalog book ID (required)")
	fs.StringVar(&cmd.CatalogURL, "catalog", config.DefaultCatalogBaseURL, "Catalog base URL")
	fs.StringVar(&cmd.OutputPath, "out", "", "Write text to this file instead of stdout")
	fs.BoolVar(&cmd.Raw, "raw", false, "Keep Project Gutenberg boilerplate")
	fs.DurationVar(&cmd.Timeout, "timeout", 2*time.Minute, "Overall fetch timeout")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s fetch-text [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Look up a book in the catalog and download its plain text.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s fetch-text -id 1342\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s fetch-text -id 1342 -out ./pg1342.txt\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.BookID == "" {
		fs.Usage()
		return fmt.Errorf("book ID is required")
	}

	return nil
}

func (cmd *FetchTextCommand) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), cmd.Timeout)
	defer cancel()

	client := catalog.NewClient(cmd.CatalogURL)
	book, err := client.GetBook(ctx, cmd.BookID)
	if err != nil {
		return fmt.Errorf("failed to look up book %s: %w", cmd.BookID, err)
	}

	textURL := book.PlainTextURL()
	if textURL == "" {
		return fmt.Errorf("book %q has no plain-text format", book.Title)
	}

	fmt.Fprintf(os.Stderr, "Fetching %q by %s from %s\n", book.Title, book.Author(), textURL)

	fetcher := gutenberg.NewFetcher()
	var text string
	if cmd.Raw {
		text, err = fetcher.FetchRaw(ctx, textURL)
	} else {
		text, err = fetcher.FetchText(ctx, textURL)
	}
	if err != nil {
		return fmt.Errorf("failed to fetch text: %w", err)
	}

	if cmd.OutputPath == "" {
		fmt.Println(text)
		return nil
	}

	if err := os.WriteFile(cmd.OutputPath, []byte(text), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", cmd.OutputPath, err)
	}
	fmt.Fprintf(os.Stderr, "Wrote %d characters to %s\n", len(text), cmd.OutputPath)

	return nil
}
