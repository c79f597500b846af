// Package settingsstore provides database operations for per-user
// reading preferences.
//
// # Usage
//
//	store := settingsstore.NewStore(db)
//	settings, err := store.Load(userID)
package settingsstore

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/openshelf/openshelf/internal/entities"
)

const (
	MinFontSize = 12
	MaxFontSize = 24

	MinSpeechRate = 0.5
	MaxSpeechRate = 2.0
)

// Store handles all user-settings database operations.
type Store struct {
	db *gorm.DB
}

// NewStore creates a new settings store.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Load returns the stored settings for a user, or the defaults if the
// user has never saved any.
func (s *Store) Load(userID uint) (entities.UserSettings, error) {
	var settings entities.UserSettings
	err := s.db.Where("user_id = ?", userID).First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		defaults := entities.DefaultSettings()
		defaults.UserID = userID
		return defaults, nil
	}
	if err != nil {
		return entities.UserSettings{}, err
	}
	return settings, nil
}

// Exists reports whether the user has ever saved settings.
func (s *Store) Exists(userID uint) (bool, error) {
	var n int64
	err := s.db.Model(&entities.UserSettings{}).Where("user_id = ?", userID).Count(&n).Error
	return n > 0, err
}

// Save validates and stores the full settings object for a user,
// replacing whatever was there before.
func (s *Store) Save(userID uint, settings entities.UserSettings) error {
	if err := Validate(settings); err != nil {
		return err
	}

	var existing entities.UserSettings
	result := s.db.Where("user_id = ?", userID).First(&existing)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		settings.ID = 0
		settings.UserID = userID
		return s.db.Create(&settings).Error
	} else if result.Error != nil {
		return result.Error
	}

	existing.FontSize = settings.FontSize
	existing.SpeechRate = settings.SpeechRate
	existing.SpeechVoiceName = settings.SpeechVoiceName
	existing.ReadingTheme = settings.ReadingTheme
	existing.AutoAdvanceAudio = settings.AutoAdvanceAudio
	return s.db.Save(&existing).Error
}

// FontSizeStep is how much one font-size adjustment changes the size.
const FontSizeStep = 2

// AdjustFontSize moves a font size by the given number of steps and
// clamps the result into the supported range.
func AdjustFontSize(current, steps int) int {
	size := current + steps*FontSizeStep
	if size < MinFontSize {
		return MinFontSize
	}
	if size > MaxFontSize {
		return MaxFontSize
	}
	return size
}

// StepFontSize adjusts the user's stored font size by the given number
// of steps, clamped to the supported range, and returns the updated
// settings. Users who never saved settings start from the defaults.
func (s *Store) StepFontSize(userID uint, steps int) (entities.UserSettings, error) {
	settings, err := s.Load(userID)
	if err != nil {
		return entities.UserSettings{}, err
	}
	settings.FontSize = AdjustFontSize(settings.FontSize, steps)
	if err := s.Save(userID, settings); err != nil {
		return entities.UserSettings{}, err
	}
	return settings, nil
}

// Validate checks that a settings object is within supported bounds.
func Validate(settings entities.UserSettings) error {
	if settings.FontSize < MinFontSize || settings.FontSize > MaxFontSize {
		return fmt.Errorf("font size must be between %d and %d", MinFontSize, MaxFontSize)
	}
	if settings.FontSize%2 != 0 {
		return fmt.Errorf("font size must be an even number of points")
	}
	if settings.SpeechRate < MinSpeechRate || settings.SpeechRate > MaxSpeechRate {
		return fmt.Errorf("speech rate must be between %.1f and %.1f", MinSpeechRate, MaxSpeechRate)
	}
	if !entities.ValidTheme(settings.ReadingTheme) {
		return fmt.Errorf("unknown reading theme %q", settings.ReadingTheme)
	}
	return nil
}
