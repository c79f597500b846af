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

	"github.com/openshelf/openshelf/internal/settingsstore"
)

func setupSettingsRouter(t *testing.T) *gin.Engine {
	t.Helper()
	store := settingsstore.NewStore(newTestDB(t))

	router := newTestRouter(7)
	controller := NewSettingsController(store)
	router.GET("/api/settings", controller.Get)
	router.POST("/api/settings", controller.Save)
	router.POST("/api/settings/font-size", controller.AdjustFontSize)
	return router
}

func TestSettingsGet_NullWhenUnsaved(t *testing.T) {
	router := setupSettingsRouter(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/settings", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "null", string(response["settings"]))
}

func TestSettingsSaveAndGet(t *testing.T) {
	router := setupSettingsRouter(t)

	payload := `{"settings": {
		"font_size": 20,
		"speech_rate": 1.5,
		"speech_voice_name": "Daniel",
		"reading_theme": "sepia",
		"auto_advance_audio": false
	}}`

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/settings", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"success":true`)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/api/settings", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Settings struct {
			FontSize     int     `json:"font_size"`
			SpeechRate   float64 `json:"speech_rate"`
			ReadingTheme string  `json:"reading_theme"`
		} `json:"settings"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, 20, response.Settings.FontSize)
	assert.Equal(t, 1.5, response.Settings.SpeechRate)
	assert.Equal(t, "sepia", response.Settings.ReadingTheme)
}

func TestSettingsSave_RejectsInvalid(t *testing.T) {
	router := setupSettingsRouter(t)

	cases := []struct {
		name    string
		payload string
	}{
		{"font too large", `{"settings": {"font_size": 40, "speech_rate": 1.0, "reading_theme": "dark"}}`},
		{"unknown theme", `{"settings": {"font_size": 16, "speech_rate": 1.0, "reading_theme": "neon"}}`},
		{"missing wrapper", `{"font_size": 16, "speech_rate": 1.0, "reading_theme": "dark"}`},
		{"null settings", `{"settings": null}`},
		{"not json", `font_size=16`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest("POST", "/api/settings", strings.NewReader(tc.payload))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestSettingsAdjustFontSize(t *testing.T) {
	router := setupSettingsRouter(t)

	// From the default of 16, two steps up lands on 20.
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/settings/font-size", strings.NewReader(`{"steps": 2}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Settings struct {
			FontSize int `json:"font_size"`
		} `json:"settings"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, 20, response.Settings.FontSize)

	// Stepping far down clamps at the minimum and persists.
	w = httptest.NewRecorder()
	req, _ = http.NewRequest("POST", "/api/settings/font-size", strings.NewReader(`{"steps": -100}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, settingsstore.MinFontSize, response.Settings.FontSize)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/api/settings", nil)
	router.ServeHTTP(w, req)

	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, settingsstore.MinFontSize, response.Settings.FontSize)
}

func TestSettingsAdjustFontSize_MissingSteps(t *testing.T) {
	router := setupSettingsRouter(t)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/settings/font-size", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSettingsArePerUser(t *testing.T) {
	store := settingsstore.NewStore(newTestDB(t))

	routerA := newTestRouter(1)
	routerB := newTestRouter(2)
	for _, r := range []*gin.Engine{routerA, routerB} {
		controller := NewSettingsController(store)
		r.GET("/api/settings", controller.Get)
		r.POST("/api/settings", controller.Save)
	}

	payload := `{"settings": {"font_size": 22, "speech_rate": 1.0, "reading_theme": "light", "auto_advance_audio": true}}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/settings", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	routerA.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	// The second user still sees no saved settings.
	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/api/settings", nil)
	routerB.ServeHTTP(w, req)

	var response map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "null", string(response["settings"]))
}
