package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mobiledorms/mobiledorms-api/internal/apperr"
	"github.com/mobiledorms/mobiledorms-api/internal/auth"
	"github.com/mobiledorms/mobiledorms-api/internal/db"
	"github.com/mobiledorms/mobiledorms-api/internal/httpapi"
	"github.com/mobiledorms/mobiledorms-api/internal/models"
	"github.com/mobiledorms/mobiledorms-api/internal/validate"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// CapsuleHandler manages capsule fleet endpoints.
type CapsuleHandler struct {
	db   *gorm.DB      // Database handle for capsule records.
	auth *auth.Service // Auth gate for caller identity.
}

// NewCapsuleHandler constructs a capsule handler.
func NewCapsuleHandler(db *gorm.DB, authSvc *auth.Service) *CapsuleHandler {
	return &CapsuleHandler{db: db, auth: authSvc}
}

// createCapsuleRequest captures the payload for creating a capsule.
type createCapsuleRequest struct {
	Name          string  `json:"name" validate:"required"`                                      // Unit name.
	Location      string  `json:"location" validate:"required"`                                  // Deployment location.
	Capacity      int     `json:"capacity" validate:"required,min=1,max=100"`                    // Sleeping capacity.
	Status        string  `json:"status" validate:"required,oneof=available booked maintenance"` // Availability status.
	PricePerNight float64 `json:"pricePerNight" validate:"min=0"`                                // Nightly price.
	Features      string  `json:"features"`                                                      // Optional feature payload.
}

// Create validates input and inserts a new capsule. Admin only.
func (h *CapsuleHandler) Create(c *gin.Context) error {
	if _, errRequire := h.auth.Require(c.Request.Context(), c.Request, models.RoleAdmin); errRequire != nil {
		return errRequire
	}

	var body createCapsuleRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		return apperr.Validation("Invalid request body")
	}
	if errValidate := validate.Struct(body); errValidate != nil {
		return errValidate
	}

	capsule := models.Capsule{
		Name:          strings.TrimSpace(body.Name),
		Location:      strings.TrimSpace(body.Location),
		Capacity:      body.Capacity,
		Status:        body.Status,
		PricePerNight: body.PricePerNight,
		Features:      body.Features,
	}
	if errCreate := h.db.WithContext(c.Request.Context()).Create(&capsule).Error; errCreate != nil {
		return errCreate
	}

	log.WithFields(log.Fields{"capsuleId": capsule.ID, "name": capsule.Name}).Info("capsule created")
	httpapi.Respond(c, http.StatusCreated, h.formatCapsule(&capsule, false), "Capsule created successfully")
	return nil
}

// List returns capsules with optional status and location filters.
func (h *CapsuleHandler) List(c *gin.Context) error {
	status := strings.TrimSpace(c.Query("status"))
	location := strings.TrimSpace(c.Query("location"))
	page, limit := httpapi.PageParams(c)

	q := h.db.WithContext(c.Request.Context()).Model(&models.Capsule{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if location != "" {
		pattern := db.NormalizeLikePattern(h.db, "%"+location+"%")
		q = q.Where(db.CaseInsensitiveLikeExpr(h.db, "location"), pattern)
	}

	var total int64
	if errCount := q.Count(&total).Error; errCount != nil {
		return errCount
	}

	var rows []models.Capsule
	if errFind := q.Preload("Bookings", "status = ?", models.BookingStatusConfirmed).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&rows).Error; errFind != nil {
		return errFind
	}

	out := make([]gin.H, 0, len(rows))
	for _, row := range rows {
		out = append(out, h.formatCapsule(&row, true))
	}
	httpapi.Respond(c, http.StatusOK, gin.H{
		"capsules":   out,
		"pagination": httpapi.NewPagination(page, limit, total),
	}, "")
	return nil
}

// Get fetches a capsule with its bookings ordered by event date.
func (h *CapsuleHandler) Get(c *gin.Context) error {
	id := strings.TrimSpace(c.Param("id"))

	var capsule models.Capsule
	if errFind := h.db.WithContext(c.Request.Context()).
		Preload("Bookings", func(q *gorm.DB) *gorm.DB { return q.Order("event_date ASC") }).
		First(&capsule, "id = ?", id).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return apperr.NotFound("Capsule not found")
		}
		return errFind
	}

	httpapi.Respond(c, http.StatusOK, h.formatCapsule(&capsule, true), "")
	return nil
}

// updateCapsuleRequest captures optional fields for capsule updates.
type updateCapsuleRequest struct {
	Name          *string  `json:"name" validate:"omitempty,min=1"`                                // Optional name.
	Location      *string  `json:"location" validate:"omitempty,min=1"`                            // Optional location.
	Capacity      *int     `json:"capacity" validate:"omitempty,min=1,max=100"`                    // Optional capacity.
	Status        *string  `json:"status" validate:"omitempty,oneof=available booked maintenance"` // Optional status.
	PricePerNight *float64 `json:"pricePerNight" validate:"omitempty,min=0"`                       // Optional nightly price.
	Features      *string  `json:"features"`                                                       // Optional feature payload.
}

// Update validates and applies capsule field updates. Admin only.
func (h *CapsuleHandler) Update(c *gin.Context) error {
	if _, errRequire := h.auth.Require(c.Request.Context(), c.Request, models.RoleAdmin); errRequire != nil {
		return errRequire
	}

	id := strings.TrimSpace(c.Param("id"))
	var body updateCapsuleRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		return apperr.Validation("Invalid request body")
	}
	if errValidate := validate.Struct(body); errValidate != nil {
		return errValidate
	}

	updates := map[string]any{"updated_at": time.Now().UTC()}
	if body.Name != nil {
		updates["name"] = strings.TrimSpace(*body.Name)
	}
	if body.Location != nil {
		updates["location"] = strings.TrimSpace(*body.Location)
	}
	if body.Capacity != nil {
		updates["capacity"] = *body.Capacity
	}
	if body.Status != nil {
		updates["status"] = *body.Status
	}
	if body.PricePerNight != nil {
		updates["price_per_night"] = *body.PricePerNight
	}
	if body.Features != nil {
		updates["features"] = *body.Features
	}

	res := h.db.WithContext(c.Request.Context()).Model(&models.Capsule{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	var capsule models.Capsule
	if errFind := h.db.WithContext(c.Request.Context()).First(&capsule, "id = ?", id).Error; errFind != nil {
		return errFind
	}

	log.WithFields(log.Fields{"capsuleId": id}).Info("capsule updated")
	httpapi.Respond(c, http.StatusOK, h.formatCapsule(&capsule, false), "Capsule updated successfully")
	return nil
}

// Delete removes a capsule unless it has active bookings. Admin only.
func (h *CapsuleHandler) Delete(c *gin.Context) error {
	if _, errRequire := h.auth.Require(c.Request.Context(), c.Request, models.RoleAdmin); errRequire != nil {
		return errRequire
	}

	id := strings.TrimSpace(c.Param("id"))

	var activeBookings int64
	if errCount := h.db.WithContext(c.Request.Context()).Model(&models.Booking{}).
		Where("capsule_id = ? AND status IN ?", id, []string{models.BookingStatusPending, models.BookingStatusConfirmed}).
		Count(&activeBookings).Error; errCount != nil {
		return errCount
	}
	if activeBookings > 0 {
		return apperr.Validation("Cannot delete capsule with active bookings")
	}

	res := h.db.WithContext(c.Request.Context()).Delete(&models.Capsule{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	log.WithFields(log.Fields{"capsuleId": id}).Info("capsule deleted")
	httpapi.Respond(c, http.StatusOK, nil, "Capsule deleted successfully")
	return nil
}

// formatCapsule converts a capsule model into a response payload.
func (h *CapsuleHandler) formatCapsule(capsule *models.Capsule, withBookings bool) gin.H {
	out := gin.H{
		"id":            capsule.ID,
		"name":          capsule.Name,
		"location":      capsule.Location,
		"capacity":      capsule.Capacity,
		"status":        capsule.Status,
		"pricePerNight": capsule.PricePerNight,
		"features":      capsule.Features,
		"createdAt":     capsule.CreatedAt,
		"updatedAt":     capsule.UpdatedAt,
	}
	if withBookings {
		bookings := make([]gin.H, 0, len(capsule.Bookings))
		for _, booking := range capsule.Bookings {
			bookings = append(bookings, gin.H{
				"id":        booking.ID,
				"eventDate": booking.EventDate,
				"duration":  booking.Duration,
				"status":    booking.Status,
			})
		}
		out["bookings"] = bookings
	}
	return out
}
