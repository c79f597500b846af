package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/openshelf/openshelf/internal/scheduler"
)

// SyncController exposes the library sync scheduler's status and a
// manual trigger.
type SyncController struct {
	scheduler *scheduler.LibrarySyncScheduler
}

func NewSyncController(sched *scheduler.LibrarySyncScheduler) *SyncController {
	return &SyncController{scheduler: sched}
}

type syncStatusResponse struct {
	IsRunning bool       `json:"is_running"`
	NextRun   *time.Time `json:"next_run,omitempty"`
}

// Status reports whether the scheduler is active and when the next
// sync will fire.
func (sc *SyncController) Status(c *gin.Context) {
	c.JSON(200, syncStatusResponse{
		IsRunning: sc.scheduler.IsRunning(),
		NextRun:   sc.scheduler.NextRunTime(),
	})
}

// Trigger starts a sync immediately without waiting for the schedule.
func (sc *SyncController) Trigger(c *gin.Context) {
	sc.scheduler.RunNow()
	respondAccepted(c, "library sync started", nil)
}
