// Package reader drives reading sessions: it turns a saved book into
// pages, remembers where the user stopped, and serves page-by-page
// navigation.
package reader

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/openshelf/openshelf/internal/catalog"
	"github.com/openshelf/openshelf/internal/entities"
	"github.com/openshelf/openshelf/internal/kvstore"
	"github.com/openshelf/openshelf/internal/pagination"
	"github.com/openshelf/openshelf/internal/textcache"
)

var (
	ErrNoPlainText = errors.New("book has no plain text format")
	ErrEmptyBook   = errors.New("book text is empty")
)

const progressKind = "progress"

// Catalog is the catalog lookup the reader needs to resolve a book id
// into a downloadable text URL.
type Catalog interface {
	GetBook(ctx context.Context, bookID string) (*catalog.Book, error)
}

// TextFetcher downloads and cleans the full text behind a URL.
type TextFetcher interface {
	FetchText(ctx context.Context, url string) (string, error)
}

// PageView is one rendered page plus the position information the
// client needs to draw the progress bar.
type PageView struct {
	BookID      string  `json:"book_id"`
	PageIndex   int     `json:"page_index"`
	TotalPages  int     `json:"total_pages"`
	Percent     float64 `json:"percent"`
	Text        string  `json:"text"`
	ScrollToTop bool    `json:"scroll_to_top"`
}

// Service paginates book text and tracks per-user reading positions.
type Service struct {
	catalog   Catalog
	fetcher   TextFetcher
	cache     *textcache.Cache
	paginator *pagination.Paginator
	kv        *kvstore.Store
}

func NewService(
	catalog Catalog,
	fetcher TextFetcher,
	cache *textcache.Cache,
	paginator *pagination.Paginator,
	kv *kvstore.Store,
) *Service {
	return &Service{
		catalog:   catalog,
		fetcher:   fetcher,
		cache:     cache,
		paginator: paginator,
		kv:        kv,
	}
}

// Open starts or resumes a reading session. The book's text is loaded
// from the local cache when possible, fetched and cached otherwise,
// and the user lands on the last page they were reading.
func (s *Service) Open(ctx context.Context, userID uint, bookID string) (*PageView, error) {
	pages, err := s.loadPages(ctx, bookID)
	if err != nil {
		return nil, err
	}

	index := 0
	var progress entities.ReadingProgress
	err = s.kv.GetJSON(kvstore.Namespace(progressKind, userID), bookID, &progress)
	if err == nil {
		index = clamp(progress.PageIndex, 0, len(pages)-1)
	} else if !errors.Is(err, kvstore.ErrNotFound) {
		return nil, err
	}

	if err := s.saveProgress(userID, bookID, index); err != nil {
		return nil, err
	}
	return s.view(bookID, pages, index, false), nil
}

// Next advances one page. On the last page it stays put.
func (s *Service) Next(ctx context.Context, userID uint, bookID string) (*PageView, error) {
	return s.moveTo(ctx, userID, bookID, func(current, total int) int {
		return current + 1
	})
}

// Previous goes back one page. On the first page it stays put.
func (s *Service) Previous(ctx context.Context, userID uint, bookID string) (*PageView, error) {
	return s.moveTo(ctx, userID, bookID, func(current, total int) int {
		return current - 1
	})
}

// GoToPage jumps to an absolute page index. Out-of-range targets are
// clamped to the nearest valid page.
func (s *Service) GoToPage(ctx context.Context, userID uint, bookID string, index int) (*PageView, error) {
	return s.moveTo(ctx, userID, bookID, func(current, total int) int {
		return index
	})
}

// Progress returns the stored position for a book without loading its
// text. Books never opened report page zero.
func (s *Service) Progress(userID uint, bookID string) (entities.ReadingProgress, error) {
	var progress entities.ReadingProgress
	err := s.kv.GetJSON(kvstore.Namespace(progressKind, userID), bookID, &progress)
	if errors.Is(err, kvstore.ErrNotFound) {
		return entities.ReadingProgress{BookID: bookID}, nil
	}
	if err != nil {
		return entities.ReadingProgress{}, err
	}
	return progress, nil
}

// Prefetch warms the text cache for a book without touching any
// reading position. Used by the background prefetch task.
func (s *Service) Prefetch(ctx context.Context, bookID string) error {
	_, err := s.loadPages(ctx, bookID)
	return err
}

func (s *Service) moveTo(ctx context.Context, userID uint, bookID string, target func(current, total int) int) (*PageView, error) {
	pages, err := s.loadPages(ctx, bookID)
	if err != nil {
		return nil, err
	}

	current := 0
	var progress entities.ReadingProgress
	err = s.kv.GetJSON(kvstore.Namespace(progressKind, userID), bookID, &progress)
	if err == nil {
		current = clamp(progress.PageIndex, 0, len(pages)-1)
	} else if !errors.Is(err, kvstore.ErrNotFound) {
		return nil, err
	}

	index := clamp(target(current, len(pages)), 0, len(pages)-1)
	if err := s.saveProgress(userID, bookID, index); err != nil {
		return nil, err
	}
	return s.view(bookID, pages, index, index != current), nil
}

// loadPages returns the paginated text of a book, filling the text
// cache on first access.
func (s *Service) loadPages(ctx context.Context, bookID string) ([]string, error) {
	text, err := s.cache.Get(bookID)
	if errors.Is(err, textcache.ErrMiss) {
		text, err = s.fetchText(ctx, bookID)
		if err != nil {
			return nil, err
		}
		if cacheErr := s.cache.Put(bookID, text); cacheErr != nil {
			// A failed cache write only costs a refetch next time.
			log.Printf("Failed to cache text for book %s: %v", bookID, cacheErr)
		}
	} else if err != nil {
		return nil, err
	}

	pages := s.paginator.Paginate(text)
	if len(pages) == 0 {
		return nil, ErrEmptyBook
	}
	return pages, nil
}

func (s *Service) fetchText(ctx context.Context, bookID string) (string, error) {
	book, err := s.catalog.GetBook(ctx, bookID)
	if err != nil {
		return "", err
	}
	textURL := book.PlainTextURL()
	if textURL == "" {
		return "", fmt.Errorf("%w: %s", ErrNoPlainText, bookID)
	}
	return s.fetcher.FetchText(ctx, textURL)
}

func (s *Service) saveProgress(userID uint, bookID string, index int) error {
	progress := entities.ReadingProgress{
		BookID:    bookID,
		PageIndex: index,
		UpdatedAt: time.Now(),
	}
	return s.kv.PutJSON(kvstore.Namespace(progressKind, userID), bookID, progress)
}

func (s *Service) view(bookID string, pages []string, index int, scrollToTop bool) *PageView {
	progress := entities.ReadingProgress{BookID: bookID, PageIndex: index}
	return &PageView{
		BookID:      bookID,
		PageIndex:   index,
		TotalPages:  len(pages),
		Percent:     progress.Percent(len(pages)),
		Text:        pages[index],
		ScrollToTop: scrollToTop,
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
