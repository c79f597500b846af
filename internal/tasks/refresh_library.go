package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/openshelf/openshelf/internal/library"
)

// RefreshLibraryTask re-fetches catalog metadata for every book in a
// user's library.
type RefreshLibraryTask struct {
	UserID uint `json:"user_id"`
}

// Config returns the queue configuration for library refresh tasks.
func (t RefreshLibraryTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "refresh_library",
		MaxAttempts: 2,
		Backoff:     1 * time.Minute,
		Timeout:     10 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// RefreshLibraryProcessor creates a processor function for RefreshLibraryTask.
func RefreshLibraryProcessor(libraryStore *library.Store) backlite.QueueProcessor[RefreshLibraryTask] {
	return func(ctx context.Context, task RefreshLibraryTask) error {
		if libraryStore == nil {
			return fmt.Errorf("library store not configured")
		}

		if err := libraryStore.Refresh(ctx, task.UserID); err != nil {
			return fmt.Errorf("refresh library for user %d: %w", task.UserID, err)
		}

		log.Printf("[TASK] Refreshed library metadata for user %d", task.UserID)
		return nil
	}
}

// NewRefreshLibraryQueue creates a backlite queue for library refresh tasks.
func NewRefreshLibraryQueue(libraryStore *library.Store) backlite.Queue {
	return backlite.NewQueue(RefreshLibraryProcessor(libraryStore))
}
