// Package scheduler runs periodic background jobs on cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/openshelf/openshelf/internal/kvstore"
	"github.com/openshelf/openshelf/internal/tasks"
)

// LibrarySyncScheduler periodically enqueues a metadata refresh for
// every user library, so stored titles and download URLs track the
// upstream catalog.
type LibrarySyncScheduler struct {
	kv         *kvstore.Store
	taskClient *tasks.Client
	schedule   string

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// NewLibrarySyncScheduler creates a new scheduler instance.
func NewLibrarySyncScheduler(kv *kvstore.Store, taskClient *tasks.Client, schedule string) *LibrarySyncScheduler {
	return &LibrarySyncScheduler{
		kv:         kv,
		taskClient: taskClient,
		schedule:   schedule,
		cron:       cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler.
func (s *LibrarySyncScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		s.runSync()
	})
	if err != nil {
		return fmt.Errorf("failed to schedule library sync job: %w", err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	log.Printf("Library sync scheduler: started with schedule '%s'. Next run: %v",
		s.schedule, s.cron.Entry(entryID).Next)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler, waiting for a running job to
// complete.
func (s *LibrarySyncScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.cancelFunc = nil

	log.Printf("Library sync scheduler: stopped")
}

// RunNow triggers an immediate sync.
func (s *LibrarySyncScheduler) RunNow() {
	go s.runSync()
}

// IsRunning returns whether the scheduler is active.
func (s *LibrarySyncScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRunTime returns when the next sync will occur, or nil when the
// scheduler is stopped.
func (s *LibrarySyncScheduler) NextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}
	next := s.cron.Entry(s.entryID).Next
	return &next
}

// runSync enqueues one refresh task per user with a library.
func (s *LibrarySyncScheduler) runSync() {
	owners, err := s.kv.NamespaceOwners("library")
	if err != nil {
		log.Printf("Library sync: failed to list libraries: %v", err)
		return
	}
	if len(owners) == 0 {
		log.Printf("Library sync: no libraries to refresh")
		return
	}

	queued := 0
	for _, userID := range owners {
		_, err := s.taskClient.Add(tasks.RefreshLibraryTask{UserID: userID}).Save()
		if err != nil {
			log.Printf("Library sync: failed to enqueue refresh for user %d: %v", userID, err)
			continue
		}
		queued++
	}
	log.Printf("Library sync: queued %d refresh tasks", queued)
}
