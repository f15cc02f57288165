package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mobiledorms/mobiledorms-api/internal/apperr"
	"github.com/mobiledorms/mobiledorms-api/internal/auth"
	"github.com/mobiledorms/mobiledorms-api/internal/httpapi"
	"github.com/mobiledorms/mobiledorms-api/internal/models"
	"github.com/mobiledorms/mobiledorms-api/internal/validate"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// BookingHandler manages booking endpoints.
type BookingHandler struct {
	db   *gorm.DB      // Database handle for booking records.
	auth *auth.Service // Auth gate for caller identity.
}

// NewBookingHandler constructs a booking handler.
func NewBookingHandler(db *gorm.DB, authSvc *auth.Service) *BookingHandler {
	return &BookingHandler{db: db, auth: authSvc}
}

// createBookingRequest captures the payload for creating a booking.
type createBookingRequest struct {
	Name             string `json:"name" validate:"required,min=2"`                     // Contact name.
	Email            string `json:"email" validate:"required,email"`                    // Contact email.
	Phone            string `json:"phone" validate:"required,min=10"`                   // Contact phone.
	EventName        string `json:"eventName" validate:"required,min=3"`                // Event name.
	EventDate        string `json:"eventDate" validate:"required"`                      // Event date string.
	Location         string `json:"location" validate:"required,min=3"`                 // Event location.
	NumberOfCapsules int    `json:"numberOfCapsules" validate:"required,min=1,max=100"` // Requested capsule count.
	Duration         int    `json:"duration" validate:"required,min=1,max=365"`         // Rental duration in days.
	Message          string `json:"message"`                                            // Optional message.
}

// Create validates input and inserts a new booking.
func (h *BookingHandler) Create(c *gin.Context) error {
	var body createBookingRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		return apperr.Validation("Invalid request body")
	}
	if errValidate := validate.Struct(body); errValidate != nil {
		return errValidate
	}
	eventDate, errDate := parseEventDate(body.EventDate)
	if errDate != nil {
		return errDate
	}

	booking := models.Booking{
		Name:             strings.TrimSpace(body.Name),
		Email:            strings.TrimSpace(body.Email),
		Phone:            strings.TrimSpace(body.Phone),
		EventName:        strings.TrimSpace(body.EventName),
		EventDate:        eventDate,
		Location:         strings.TrimSpace(body.Location),
		NumberOfCapsules: body.NumberOfCapsules,
		Duration:         body.Duration,
		Message:          body.Message,
		Status:           models.BookingStatusPending,
	}
	if errCreate := h.db.WithContext(c.Request.Context()).Create(&booking).Error; errCreate != nil {
		return errCreate
	}

	log.WithFields(log.Fields{"bookingId": booking.ID, "email": booking.Email}).Info("booking created")
	httpapi.Respond(c, http.StatusCreated, h.formatBooking(&booking), "Booking created successfully")
	return nil
}

// List returns bookings matching the caller's visibility and filters.
func (h *BookingHandler) List(c *gin.Context) error {
	identity, errVerify := h.auth.Verify(c.Request.Context(), c.Request)
	isAdmin := errVerify == nil && identity.Role == models.RoleAdmin

	status := strings.TrimSpace(c.Query("status"))
	email := strings.TrimSpace(c.Query("email"))
	page, limit := httpapi.PageParams(c)

	if !isAdmin {
		// Non-admins only ever see bookings under their own email.
		switch {
		case errVerify == nil:
			email = identity.Email
		case email == "":
			return apperr.Unauthorized(auth.ReasonNoToken)
		}
	}

	q := h.db.WithContext(c.Request.Context()).Model(&models.Booking{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if email != "" {
		q = q.Where("email = ?", email)
	}

	var total int64
	if errCount := q.Count(&total).Error; errCount != nil {
		return errCount
	}

	var rows []models.Booking
	if errFind := q.Preload("Capsule").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&rows).Error; errFind != nil {
		return errFind
	}

	out := make([]gin.H, 0, len(rows))
	for _, row := range rows {
		out = append(out, h.formatBooking(&row))
	}
	httpapi.Respond(c, http.StatusOK, gin.H{
		"bookings":   out,
		"pagination": httpapi.NewPagination(page, limit, total),
	}, "")
	return nil
}

// Get fetches a booking visible to the caller.
func (h *BookingHandler) Get(c *gin.Context) error {
	id := strings.TrimSpace(c.Param("id"))

	var booking models.Booking
	if errFind := h.db.WithContext(c.Request.Context()).Preload("Capsule").First(&booking, "id = ?", id).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return apperr.NotFound("Booking not found")
		}
		return errFind
	}

	identity, errVerify := h.auth.Verify(c.Request.Context(), c.Request)
	if errVerify != nil {
		return errVerify
	}
	if identity.Role != models.RoleAdmin && booking.Email != identity.Email {
		return apperr.Forbidden("Forbidden")
	}

	httpapi.Respond(c, http.StatusOK, h.formatBooking(&booking), "")
	return nil
}

// updateBookingRequest captures the fields admins may change on a booking.
type updateBookingRequest struct {
	Status    *string `json:"status" validate:"omitempty,oneof=pending confirmed cancelled"` // New lifecycle status.
	CapsuleID *string `json:"capsuleId"`                                                     // Assigned capsule ID.
}

// Update applies admin-only status or capsule assignment changes.
func (h *BookingHandler) Update(c *gin.Context) error {
	if _, errRequire := h.auth.Require(c.Request.Context(), c.Request, models.RoleAdmin); errRequire != nil {
		return errRequire
	}

	id := strings.TrimSpace(c.Param("id"))
	var body updateBookingRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		return apperr.Validation("Invalid request body")
	}
	if errValidate := validate.Struct(body); errValidate != nil {
		return errValidate
	}

	updates := map[string]any{"updated_at": time.Now().UTC()}
	if body.Status != nil {
		updates["status"] = *body.Status
	}
	if body.CapsuleID != nil {
		updates["capsule_id"] = *body.CapsuleID
	}

	res := h.db.WithContext(c.Request.Context()).Model(&models.Booking{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	var booking models.Booking
	if errFind := h.db.WithContext(c.Request.Context()).Preload("Capsule").First(&booking, "id = ?", id).Error; errFind != nil {
		return errFind
	}

	log.WithFields(log.Fields{"bookingId": id}).Info("booking updated")
	httpapi.Respond(c, http.StatusOK, h.formatBooking(&booking), "Booking updated successfully")
	return nil
}

// Delete removes a booking. Admin only.
func (h *BookingHandler) Delete(c *gin.Context) error {
	if _, errRequire := h.auth.Require(c.Request.Context(), c.Request, models.RoleAdmin); errRequire != nil {
		return errRequire
	}

	id := strings.TrimSpace(c.Param("id"))
	res := h.db.WithContext(c.Request.Context()).Delete(&models.Booking{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	log.WithFields(log.Fields{"bookingId": id}).Info("booking deleted")
	httpapi.Respond(c, http.StatusOK, nil, "Booking deleted successfully")
	return nil
}

// formatBooking converts a booking model into a response payload.
func (h *BookingHandler) formatBooking(b *models.Booking) gin.H {
	out := gin.H{
		"id":               b.ID,
		"name":             b.Name,
		"email":            b.Email,
		"phone":            b.Phone,
		"eventName":        b.EventName,
		"eventDate":        b.EventDate,
		"location":         b.Location,
		"numberOfCapsules": b.NumberOfCapsules,
		"duration":         b.Duration,
		"message":          b.Message,
		"status":           b.Status,
		"capsuleId":        b.CapsuleID,
		"createdAt":        b.CreatedAt,
		"updatedAt":        b.UpdatedAt,
	}
	if b.Capsule != nil {
		out["capsule"] = gin.H{
			"id":       b.Capsule.ID,
			"name":     b.Capsule.Name,
			"location": b.Capsule.Location,
		}
	}
	return out
}

// eventDateLayouts are the accepted eventDate formats, most specific first.
var eventDateLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"}

// parseEventDate parses an event date string and enforces that it is in
// the future.
func parseEventDate(raw string) (time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	for _, layout := range eventDateLayouts {
		parsed, errParse := time.Parse(layout, trimmed)
		if errParse != nil {
			continue
		}
		if !parsed.After(time.Now()) {
			return time.Time{}, &validate.Errors{Messages: []string{"Event date must be in the future"}}
		}
		return parsed, nil
	}
	return time.Time{}, &validate.Errors{Messages: []string{"Invalid event date"}}
}
