package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mobiledorms/mobiledorms-api/internal/auth"
	"github.com/mobiledorms/mobiledorms-api/internal/httpapi"
	"github.com/mobiledorms/mobiledorms-api/internal/models"
	"gorm.io/gorm"
)

// StatsHandler serves the admin dashboard aggregates.
type StatsHandler struct {
	db   *gorm.DB      // Database handle for aggregate queries.
	auth *auth.Service // Auth gate for caller identity.
}

// NewStatsHandler constructs a stats handler.
func NewStatsHandler(db *gorm.DB, authSvc *auth.Service) *StatsHandler {
	return &StatsHandler{db: db, auth: authSvc}
}

// Get returns counts by status plus the confirmed-booking revenue. Admin
// only.
func (h *StatsHandler) Get(c *gin.Context) error {
	if _, errRequire := h.auth.Require(c.Request.Context(), c.Request, models.RoleAdmin); errRequire != nil {
		return errRequire
	}

	ctx := c.Request.Context()
	bookingCount := func(status string) (int64, error) {
		q := h.db.WithContext(ctx).Model(&models.Booking{})
		if status != "" {
			q = q.Where("status = ?", status)
		}
		var count int64
		return count, q.Count(&count).Error
	}
	capsuleCount := func(status string) (int64, error) {
		q := h.db.WithContext(ctx).Model(&models.Capsule{})
		if status != "" {
			q = q.Where("status = ?", status)
		}
		var count int64
		return count, q.Count(&count).Error
	}

	totalBookings, errCount := bookingCount("")
	if errCount != nil {
		return errCount
	}
	pendingBookings, errCount := bookingCount(models.BookingStatusPending)
	if errCount != nil {
		return errCount
	}
	confirmedBookings, errCount := bookingCount(models.BookingStatusConfirmed)
	if errCount != nil {
		return errCount
	}

	var totalInquiries, pendingInquiries int64
	if errInquiries := h.db.WithContext(ctx).Model(&models.PartnerInquiry{}).Count(&totalInquiries).Error; errInquiries != nil {
		return errInquiries
	}
	if errInquiries := h.db.WithContext(ctx).Model(&models.PartnerInquiry{}).
		Where("status = ?", models.InquiryStatusPending).Count(&pendingInquiries).Error; errInquiries != nil {
		return errInquiries
	}

	totalCapsules, errCount := capsuleCount("")
	if errCount != nil {
		return errCount
	}
	availableCapsules, errCount := capsuleCount(models.CapsuleStatusAvailable)
	if errCount != nil {
		return errCount
	}
	bookedCapsules, errCount := capsuleCount(models.CapsuleStatusBooked)
	if errCount != nil {
		return errCount
	}

	revenue, errRevenue := h.confirmedRevenue(c)
	if errRevenue != nil {
		return errRevenue
	}

	httpapi.Respond(c, http.StatusOK, gin.H{
		"bookings": gin.H{
			"total":     totalBookings,
			"pending":   pendingBookings,
			"confirmed": confirmedBookings,
			"cancelled": totalBookings - pendingBookings - confirmedBookings,
		},
		"inquiries": gin.H{
			"total":   totalInquiries,
			"pending": pendingInquiries,
		},
		"capsules": gin.H{
			"total":       totalCapsules,
			"available":   availableCapsules,
			"booked":      bookedCapsules,
			"maintenance": totalCapsules - availableCapsules - bookedCapsules,
		},
		"revenue": gin.H{
			"total":    revenue,
			"currency": "USD",
		},
	}, "")
	return nil
}

// confirmedRevenue sums price-per-night x duration x capsule count over
// confirmed bookings. Bookings without a linked capsule contribute zero.
func (h *StatsHandler) confirmedRevenue(c *gin.Context) (float64, error) {
	var confirmed []models.Booking
	if errFind := h.db.WithContext(c.Request.Context()).
		Preload("Capsule").
		Where("status = ?", models.BookingStatusConfirmed).
		Find(&confirmed).Error; errFind != nil {
		return 0, errFind
	}

	var revenue float64
	for _, booking := range confirmed {
		if booking.Capsule == nil {
			continue
		}
		revenue += booking.Capsule.PricePerNight * float64(booking.Duration) * float64(booking.NumberOfCapsules)
	}
	return revenue, nil
}
