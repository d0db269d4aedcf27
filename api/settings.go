package api

import (
	"errors"

	"myfinances/database"
	"myfinances/middleware"
	"myfinances/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SettingsHandler handles per-user preferences.
type SettingsHandler struct{}

// NewSettingsHandler creates the settings handler.
func NewSettingsHandler() *SettingsHandler {
	return &SettingsHandler{}
}

// UpdateSettingsRequest is the settings update payload.
type UpdateSettingsRequest struct {
	Currency string `json:"currency" binding:"required" example:"EUR"`
}

// loadOrCreateSettings returns the user's settings row, creating the
// default one on first access.
func loadOrCreateSettings(userID uint) (models.Settings, error) {
	var settings models.Settings
	err := database.DB.Where("user_id = ?", userID).First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		settings = models.DefaultSettings(userID)
		err = database.DB.Create(&settings).Error
	}
	return settings, err
}

// Get returns the user's settings, creating defaults on first access.
// @Summary Get settings
// @Description Return the user's preferences; a default row (USD) is
// @Description created on first access.
// @Tags settings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=models.Settings} "ok"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/settings [get]
func (h *SettingsHandler) Get(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	settings, err := loadOrCreateSettings(userID)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "load settings failed"))
		return
	}

	Success(c, settings)
}

// Update changes the display currency; the symbol follows the code.
// @Summary Update settings
// @Description Change the display currency. The currency symbol is derived
// @Description from the code, never set directly.
// @Tags settings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateSettingsRequest true "settings payload"
// @Success 200 {object} Response{data=models.Settings} "updated"
// @Failure 400 {object} Response "unsupported currency"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/settings [put]
func (h *SettingsHandler) Update(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid payload"))
		return
	}
	if !models.IsValidCurrency(req.Currency) {
		BadRequest(c, "unsupported currency")
		return
	}

	settings, err := loadOrCreateSettings(userID)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "load settings failed"))
		return
	}

	settings.Currency = req.Currency
	settings.CurrencySymbol = models.SymbolForCurrency(req.Currency)
	if err := database.DB.Save(&settings).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "update settings failed"))
		return
	}

	SuccessWithMessage(c, "updated", settings)
}
