package entities

import (
	"time"
)

type ReadingTheme string

const (
	ReadingThemeDark  ReadingTheme = "dark"
	ReadingThemeLight ReadingTheme = "light"
	ReadingThemeSepia ReadingTheme = "sepia"
)

// ValidTheme reports whether t is one of the supported reading themes.
func ValidTheme(t ReadingTheme) bool {
	switch t {
	case ReadingThemeDark, ReadingThemeLight, ReadingThemeSepia:
		return true
	}
	return false
}

// UserSettings holds per-user reading and audio preferences.
// One record per user; the whole object is replaced on save.
type UserSettings struct {
	ID               uint         `gorm:"primaryKey" json:"-"`
	UserID           uint         `gorm:"uniqueIndex" json:"-"`
	FontSize         int          `json:"font_size"`
	SpeechRate       float64      `json:"speech_rate"`
	SpeechVoiceName  string       `gorm:"size:100" json:"speech_voice_name"`
	ReadingTheme     ReadingTheme `gorm:"size:10" json:"reading_theme"`
	AutoAdvanceAudio bool         `json:"auto_advance_audio"`
	CreatedAt        time.Time    `json:"-"`
	UpdatedAt        time.Time    `json:"-"`
}

func (UserSettings) TableName() string {
	return "user_settings"
}

// DefaultSettings mirrors the defaults new users start with.
func DefaultSettings() UserSettings {
	return UserSettings{
		FontSize:         16,
		SpeechRate:       1.0,
		SpeechVoiceName:  "",
		ReadingTheme:     ReadingThemeDark,
		AutoAdvanceAudio: true,
	}
}
