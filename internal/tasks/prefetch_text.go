package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/openshelf/openshelf/internal/reader"
)

// PrefetchTextTask downloads and caches a book's full text so the
// first page opens instantly after the book is saved to a library.
type PrefetchTextTask struct {
	BookID string `json:"book_id"`
}

// Config returns the queue configuration for text prefetch tasks.
func (t PrefetchTextTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "prefetch_text",
		MaxAttempts: 3,
		Backoff:     30 * time.Second,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// PrefetchTextProcessor creates a processor function for PrefetchTextTask.
func PrefetchTextProcessor(readerService *reader.Service) backlite.QueueProcessor[PrefetchTextTask] {
	return func(ctx context.Context, task PrefetchTextTask) error {
		if readerService == nil {
			return fmt.Errorf("reader service not configured")
		}

		if err := readerService.Prefetch(ctx, task.BookID); err != nil {
			return fmt.Errorf("prefetch text for book %s: %w", task.BookID, err)
		}

		log.Printf("[TASK] Prefetched text for book %s", task.BookID)
		return nil
	}
}

// NewPrefetchTextQueue creates a backlite queue for text prefetch tasks.
func NewPrefetchTextQueue(readerService *reader.Service) backlite.Queue {
	return backlite.NewQueue(PrefetchTextProcessor(readerService))
}
