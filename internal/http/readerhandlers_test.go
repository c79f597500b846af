package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openshelf/openshelf/internal/gutenberg"
	"github.com/openshelf/openshelf/internal/pagination"
	"github.com/openshelf/openshelf/internal/reader"
	"github.com/openshelf/openshelf/internal/textcache"
)

func setupReaderRouter(t *testing.T) *gin.Engine {
	t.Helper()

	// Serve the book text from a local test server.
	textServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("Page one text here.\n\nPage two text here.\n\nPage three here."))
	}))
	t.Cleanup(textServer.Close)

	cat := newFakeCatalog()
	cat.books["1342"].Formats["text/plain; charset=us-ascii"] = textServer.URL + "/1342.txt"

	cache, err := textcache.NewCache(t.TempDir())
	require.NoError(t, err)

	paginator := pagination.New(20)
	svc := reader.NewService(cat, gutenberg.NewFetcher(), cache, &paginator, newTestKV(t))

	router := newTestRouter(7)
	controller := NewReaderController(svc)
	router.POST("/api/books/:id/open", controller.Open)
	router.POST("/api/books/:id/next", controller.Next)
	router.POST("/api/books/:id/previous", controller.Previous)
	router.POST("/api/books/:id/page", controller.GoToPage)
	router.GET("/api/books/:id/progress", controller.Progress)
	return router
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestReaderOpen(t *testing.T) {
	router := setupReaderRouter(t)

	w := postJSON(router, "/api/books/1342/open", "")
	assert.Equal(t, http.StatusOK, w.Code)

	var view reader.PageView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, 0, view.PageIndex)
	assert.Equal(t, 3, view.TotalPages)
	assert.Equal(t, "Page one text here.", view.Text)
}

func TestReaderNavigation(t *testing.T) {
	router := setupReaderRouter(t)

	w := postJSON(router, "/api/books/1342/open", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = postJSON(router, "/api/books/1342/next", "")
	require.Equal(t, http.StatusOK, w.Code)

	var view reader.PageView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, 1, view.PageIndex)
	assert.True(t, view.ScrollToTop)

	w = postJSON(router, "/api/books/1342/previous", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, 0, view.PageIndex)
}

func TestReaderGoToPage(t *testing.T) {
	router := setupReaderRouter(t)

	w := postJSON(router, "/api/books/1342/page", `{"page_index":2}`)
	require.Equal(t, http.StatusOK, w.Code)

	var view reader.PageView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, 2, view.PageIndex)

	// Out-of-range targets are clamped, not rejected.
	w = postJSON(router, "/api/books/1342/page", `{"page_index":999}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, 2, view.PageIndex)
}

func TestReaderGoToPage_MissingIndex(t *testing.T) {
	router := setupReaderRouter(t)

	w := postJSON(router, "/api/books/1342/page", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReaderProgress(t *testing.T) {
	router := setupReaderRouter(t)

	w := postJSON(router, "/api/books/1342/page", `{"page_index":1}`)
	require.Equal(t, http.StatusOK, w.Code)

	rec := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/books/1342/progress", nil)
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var progress map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &progress))
	assert.Equal(t, float64(1), progress["page_index"])
}

func TestReaderOpen_UnknownBook(t *testing.T) {
	router := setupReaderRouter(t)

	w := postJSON(router, "/api/books/999999/open", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
