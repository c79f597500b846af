package http

import (
	"github.com/gin-gonic/gin"

	"github.com/openshelf/openshelf/internal/entities"
	"github.com/openshelf/openshelf/internal/settingsstore"
)

// SettingsController serves per-user reading preferences.
type SettingsController struct {
	settings *settingsstore.Store
}

func NewSettingsController(store *settingsstore.Store) *SettingsController {
	return &SettingsController{settings: store}
}

// Get returns the user's stored settings, or null when the user has
// never saved any. Clients fall back to their own defaults on null.
func (sc *SettingsController) Get(c *gin.Context) {
	userID := GetUserID(c)

	exists, err := sc.settings.Exists(userID)
	if err != nil {
		respondInternalError(c, err, "load settings")
		return
	}
	if !exists {
		c.JSON(200, gin.H{"settings": nil})
		return
	}

	settings, err := sc.settings.Load(userID)
	if err != nil {
		respondInternalError(c, err, "load settings")
		return
	}
	c.JSON(200, gin.H{"settings": settings})
}

type saveSettingsRequest struct {
	Settings *entities.UserSettings `json:"settings" binding:"required"`
}

// Save validates and stores the full settings object. The body wraps
// the object as {"settings": {...}}, matching what Get returns.
func (sc *SettingsController) Save(c *gin.Context) {
	userID := GetUserID(c)

	var request saveSettingsRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		respondBadRequest(c, "invalid settings payload")
		return
	}
	settings := *request.Settings

	if err := sc.settings.Save(userID, settings); err != nil {
		if validationErr := settingsstore.Validate(settings); validationErr != nil {
			respondBadRequest(c, validationErr.Error())
			return
		}
		respondInternalError(c, err, "save settings")
		return
	}

	c.JSON(200, gin.H{"success": true})
}

type fontSizeRequest struct {
	Steps *int `json:"steps" binding:"required"`
}

// AdjustFontSize steps the stored font size up or down, clamped to the
// supported range, and returns the updated settings.
func (sc *SettingsController) AdjustFontSize(c *gin.Context) {
	userID := GetUserID(c)

	var request fontSizeRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		respondBadRequest(c, "steps is required")
		return
	}

	settings, err := sc.settings.StepFontSize(userID, *request.Steps)
	if err != nil {
		respondInternalError(c, err, "adjust font size")
		return
	}

	c.JSON(200, gin.H{"settings": settings})
}
