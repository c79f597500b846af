package settingsstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/openshelf/openshelf/internal/entities"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.UserSettings{}))
	return NewStore(db)
}

func TestLoadReturnsDefaultsForNewUser(t *testing.T) {
	store := setupStore(t)

	settings, err := store.Load(42)
	require.NoError(t, err)

	assert.Equal(t, 16, settings.FontSize)
	assert.Equal(t, 1.0, settings.SpeechRate)
	assert.Equal(t, "", settings.SpeechVoiceName)
	assert.Equal(t, entities.ReadingThemeDark, settings.ReadingTheme)
	assert.True(t, settings.AutoAdvanceAudio)

	exists, err := store.Exists(42)
	require.NoError(t, err)
	assert.False(t, exists, "Load must not create a record")
}

func TestSaveAndLoad(t *testing.T) {
	store := setupStore(t)

	saved := entities.UserSettings{
		FontSize:         20,
		SpeechRate:       1.5,
		SpeechVoiceName:  "Daniel",
		ReadingTheme:     entities.ReadingThemeSepia,
		AutoAdvanceAudio: false,
	}
	require.NoError(t, store.Save(42, saved))

	loaded, err := store.Load(42)
	require.NoError(t, err)
	assert.Equal(t, 20, loaded.FontSize)
	assert.Equal(t, 1.5, loaded.SpeechRate)
	assert.Equal(t, "Daniel", loaded.SpeechVoiceName)
	assert.Equal(t, entities.ReadingThemeSepia, loaded.ReadingTheme)
	assert.False(t, loaded.AutoAdvanceAudio)
}

func TestSaveReplacesExisting(t *testing.T) {
	store := setupStore(t)

	first := entities.DefaultSettings()
	first.FontSize = 14
	require.NoError(t, store.Save(42, first))

	second := entities.DefaultSettings()
	second.FontSize = 22
	second.ReadingTheme = entities.ReadingThemeLight
	require.NoError(t, store.Save(42, second))

	loaded, err := store.Load(42)
	require.NoError(t, err)
	assert.Equal(t, 22, loaded.FontSize)
	assert.Equal(t, entities.ReadingThemeLight, loaded.ReadingTheme)

	exists, err := store.Exists(42)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestSettingsArePerUser(t *testing.T) {
	store := setupStore(t)

	a := entities.DefaultSettings()
	a.FontSize = 12
	require.NoError(t, store.Save(1, a))

	b := entities.DefaultSettings()
	b.FontSize = 24
	require.NoError(t, store.Save(2, b))

	loadedA, err := store.Load(1)
	require.NoError(t, err)
	loadedB, err := store.Load(2)
	require.NoError(t, err)
	assert.Equal(t, 12, loadedA.FontSize)
	assert.Equal(t, 24, loadedB.FontSize)
}

func TestAdjustFontSize(t *testing.T) {
	cases := []struct {
		current, steps, want int
	}{
		{16, 1, 18},
		{16, -1, 14},
		{16, 2, 20},
		{24, 1, 24},
		{12, -1, 12},
		{16, 100, 24},
		{16, -100, 12},
	}
	for _, tc := range cases {
		if got := AdjustFontSize(tc.current, tc.steps); got != tc.want {
			t.Errorf("AdjustFontSize(%d, %d) = %d, want %d", tc.current, tc.steps, got, tc.want)
		}
	}
}

func TestStepFontSizePersists(t *testing.T) {
	store := setupStore(t)

	// Starts from the default of 16 for a user with no saved settings.
	updated, err := store.StepFontSize(42, 2)
	require.NoError(t, err)
	assert.Equal(t, 20, updated.FontSize)

	loaded, err := store.Load(42)
	require.NoError(t, err)
	assert.Equal(t, 20, loaded.FontSize)

	// Clamps at the top of the range.
	updated, err = store.StepFontSize(42, 100)
	require.NoError(t, err)
	assert.Equal(t, MaxFontSize, updated.FontSize)
}

func TestSaveRejectsInvalidSettings(t *testing.T) {
	store := setupStore(t)

	cases := []struct {
		name   string
		mutate func(*entities.UserSettings)
	}{
		{"font too small", func(s *entities.UserSettings) { s.FontSize = 10 }},
		{"font too large", func(s *entities.UserSettings) { s.FontSize = 26 }},
		{"font odd", func(s *entities.UserSettings) { s.FontSize = 15 }},
		{"speech rate too low", func(s *entities.UserSettings) { s.SpeechRate = 0.1 }},
		{"speech rate too high", func(s *entities.UserSettings) { s.SpeechRate = 3.0 }},
		{"unknown theme", func(s *entities.UserSettings) { s.ReadingTheme = "solarized" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			settings := entities.DefaultSettings()
			tc.mutate(&settings)
			assert.Error(t, store.Save(42, settings))
		})
	}
}
