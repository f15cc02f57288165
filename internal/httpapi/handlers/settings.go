package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mobiledorms/mobiledorms-api/internal/apperr"
	"github.com/mobiledorms/mobiledorms-api/internal/auth"
	"github.com/mobiledorms/mobiledorms-api/internal/httpapi"
	"github.com/mobiledorms/mobiledorms-api/internal/models"
	internalsettings "github.com/mobiledorms/mobiledorms-api/internal/settings"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SettingHandler manages admin CRUD for settings values.
type SettingHandler struct {
	db   *gorm.DB      // Database handle for settings.
	auth *auth.Service // Auth gate for caller identity.
}

// NewSettingHandler constructs a settings handler.
func NewSettingHandler(db *gorm.DB, authSvc *auth.Service) *SettingHandler {
	return &SettingHandler{db: db, auth: authSvc}
}

// createSettingRequest captures the payload for creating a setting.
type createSettingRequest struct {
	Key   string          `json:"key"`   // Setting key.
	Value json.RawMessage `json:"value"` // JSON value payload.
}

var nonNegativeIntSettingKeys = map[string]struct{}{
	internalsettings.RateLimitMaxRequestsKey:   {},
	internalsettings.RateLimitWindowSecondsKey: {},
	internalsettings.RateLimitRedisDBKey:       {},
}

// validateSettingValue enforces value constraints for known keys.
func validateSettingValue(key string, raw json.RawMessage) error {
	if _, ok := nonNegativeIntSettingKeys[key]; !ok {
		return nil
	}
	var value int
	if errUnmarshal := json.Unmarshal(raw, &value); errUnmarshal != nil || value < 0 {
		return apperr.Validation("Value must be a non-negative integer")
	}
	return nil
}

// Create validates and inserts a setting, then refreshes the snapshot.
// Admin only.
func (h *SettingHandler) Create(c *gin.Context) error {
	if _, errRequire := h.auth.Require(c.Request.Context(), c.Request, models.RoleAdmin); errRequire != nil {
		return errRequire
	}

	var body createSettingRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		return apperr.Validation("Invalid request body")
	}
	key := strings.TrimSpace(body.Key)
	if key == "" {
		return apperr.Validation("Key is required")
	}
	if len(body.Value) == 0 {
		return apperr.Validation("Value is required")
	}
	if errValidate := validateSettingValue(key, body.Value); errValidate != nil {
		return errValidate
	}

	setting := models.Setting{
		Key:   key,
		Value: datatypes.JSON(body.Value),
	}
	if errCreate := h.db.WithContext(c.Request.Context()).Create(&setting).Error; errCreate != nil {
		return errCreate
	}
	if errRefresh := internalsettings.RefreshSnapshot(c.Request.Context(), h.db); errRefresh != nil {
		return errRefresh
	}
	httpapi.Respond(c, http.StatusCreated, h.formatSetting(&setting), "")
	return nil
}

// List returns all settings sorted by key. Admin only.
func (h *SettingHandler) List(c *gin.Context) error {
	if _, errRequire := h.auth.Require(c.Request.Context(), c.Request, models.RoleAdmin); errRequire != nil {
		return errRequire
	}

	var rows []models.Setting
	if errFind := h.db.WithContext(c.Request.Context()).Order("key ASC").Find(&rows).Error; errFind != nil {
		return errFind
	}
	out := make([]gin.H, 0, len(rows))
	for _, row := range rows {
		out = append(out, h.formatSetting(&row))
	}
	httpapi.Respond(c, http.StatusOK, gin.H{"settings": out}, "")
	return nil
}

// Get returns a setting by key. Admin only.
func (h *SettingHandler) Get(c *gin.Context) error {
	if _, errRequire := h.auth.Require(c.Request.Context(), c.Request, models.RoleAdmin); errRequire != nil {
		return errRequire
	}

	key := strings.TrimSpace(c.Param("key"))
	var setting models.Setting
	if errFind := h.db.WithContext(c.Request.Context()).Where("key = ?", key).First(&setting).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return apperr.NotFound("Setting not found")
		}
		return errFind
	}
	httpapi.Respond(c, http.StatusOK, h.formatSetting(&setting), "")
	return nil
}

// updateSettingRequest captures the payload for updating a setting value.
type updateSettingRequest struct {
	Value json.RawMessage `json:"value"` // JSON value payload.
}

// Update replaces a setting value, then refreshes the snapshot. Admin
// only.
func (h *SettingHandler) Update(c *gin.Context) error {
	if _, errRequire := h.auth.Require(c.Request.Context(), c.Request, models.RoleAdmin); errRequire != nil {
		return errRequire
	}

	key := strings.TrimSpace(c.Param("key"))
	var body updateSettingRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		return apperr.Validation("Invalid request body")
	}
	if len(body.Value) == 0 {
		return apperr.Validation("Value is required")
	}
	if errValidate := validateSettingValue(key, body.Value); errValidate != nil {
		return errValidate
	}

	res := h.db.WithContext(c.Request.Context()).Model(&models.Setting{}).Where("key = ?", key).
		Update("value", datatypes.JSON(body.Value))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	if errRefresh := internalsettings.RefreshSnapshot(c.Request.Context(), h.db); errRefresh != nil {
		return errRefresh
	}
	httpapi.Respond(c, http.StatusOK, gin.H{"key": key, "value": body.Value}, "Setting updated successfully")
	return nil
}

// Delete removes a setting by key, then refreshes the snapshot. Admin
// only.
func (h *SettingHandler) Delete(c *gin.Context) error {
	if _, errRequire := h.auth.Require(c.Request.Context(), c.Request, models.RoleAdmin); errRequire != nil {
		return errRequire
	}

	key := strings.TrimSpace(c.Param("key"))
	res := h.db.WithContext(c.Request.Context()).Delete(&models.Setting{}, "key = ?", key)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	if errRefresh := internalsettings.RefreshSnapshot(c.Request.Context(), h.db); errRefresh != nil {
		return errRefresh
	}
	httpapi.Respond(c, http.StatusOK, nil, "Setting deleted successfully")
	return nil
}

// formatSetting converts a setting model into a response payload.
func (h *SettingHandler) formatSetting(setting *models.Setting) gin.H {
	return gin.H{
		"key":       setting.Key,
		"value":     json.RawMessage(setting.Value),
		"createdAt": setting.CreatedAt,
		"updatedAt": setting.UpdatedAt,
	}
}
