package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openshelf/openshelf/internal/scheduler"
)

func setupSyncRouter(t *testing.T) *gin.Engine {
	t.Helper()
	sched := scheduler.NewLibrarySyncScheduler(newTestKV(t), nil, "0 3 * * *")

	router := newTestRouter(7)
	controller := NewSyncController(sched)
	router.GET("/api/library/sync", controller.Status)
	router.POST("/api/library/sync", controller.Trigger)
	return router
}

func TestSyncStatus_StoppedScheduler(t *testing.T) {
	router := setupSyncRouter(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/library/sync", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		IsRunning bool             `json:"is_running"`
		NextRun   *json.RawMessage `json:"next_run"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.False(t, response.IsRunning)
	assert.Nil(t, response.NextRun)
}

func TestSyncTrigger(t *testing.T) {
	// With no libraries saved the sync is a no-op, but the request is
	// still accepted for background processing.
	router := setupSyncRouter(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/library/sync", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Contains(t, w.Body.String(), "library sync started")
}
