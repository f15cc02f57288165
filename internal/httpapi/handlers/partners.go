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

// PartnerHandler manages partner inquiry endpoints.
type PartnerHandler struct {
	db   *gorm.DB      // Database handle for inquiry records.
	auth *auth.Service // Auth gate for caller identity.
}

// NewPartnerHandler constructs a partner inquiry handler.
func NewPartnerHandler(db *gorm.DB, authSvc *auth.Service) *PartnerHandler {
	return &PartnerHandler{db: db, auth: authSvc}
}

// createInquiryRequest captures the payload for submitting an inquiry.
type createInquiryRequest struct {
	OrganizationName string `json:"organizationName" validate:"required,min=2"`                           // Organization name.
	ContactName      string `json:"contactName" validate:"required,min=2"`                                // Contact person.
	Email            string `json:"email" validate:"required,email"`                                      // Contact email.
	Phone            string `json:"phone" validate:"required,min=10"`                                     // Contact phone.
	PartnerType      string `json:"partnerType" validate:"required,oneof=event corporate government ngo"` // Partnership kind.
	Message          string `json:"message"`                                                              // Optional message.
}

// Create validates input and inserts a new partner inquiry.
func (h *PartnerHandler) Create(c *gin.Context) error {
	var body createInquiryRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		return apperr.Validation("Invalid request body")
	}
	if errValidate := validate.Struct(body); errValidate != nil {
		return errValidate
	}

	inquiry := models.PartnerInquiry{
		OrganizationName: strings.TrimSpace(body.OrganizationName),
		ContactName:      strings.TrimSpace(body.ContactName),
		Email:            strings.TrimSpace(body.Email),
		Phone:            strings.TrimSpace(body.Phone),
		PartnerType:      body.PartnerType,
		Message:          body.Message,
		Status:           models.InquiryStatusPending,
	}
	if errCreate := h.db.WithContext(c.Request.Context()).Create(&inquiry).Error; errCreate != nil {
		return errCreate
	}

	log.WithFields(log.Fields{"inquiryId": inquiry.ID, "organization": inquiry.OrganizationName}).Info("partner inquiry created")
	httpapi.Respond(c, http.StatusCreated, h.formatInquiry(&inquiry), "Partner inquiry submitted successfully")
	return nil
}

// List returns inquiries with optional filters. Admin only.
func (h *PartnerHandler) List(c *gin.Context) error {
	if _, errRequire := h.auth.Require(c.Request.Context(), c.Request, models.RoleAdmin); errRequire != nil {
		return errRequire
	}

	status := strings.TrimSpace(c.Query("status"))
	partnerType := strings.TrimSpace(c.Query("partnerType"))
	page, limit := httpapi.PageParams(c)

	q := h.db.WithContext(c.Request.Context()).Model(&models.PartnerInquiry{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if partnerType != "" {
		q = q.Where("partner_type = ?", partnerType)
	}

	var total int64
	if errCount := q.Count(&total).Error; errCount != nil {
		return errCount
	}

	var rows []models.PartnerInquiry
	if errFind := q.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&rows).Error; errFind != nil {
		return errFind
	}

	out := make([]gin.H, 0, len(rows))
	for _, row := range rows {
		out = append(out, h.formatInquiry(&row))
	}
	httpapi.Respond(c, http.StatusOK, gin.H{
		"inquiries":  out,
		"pagination": httpapi.NewPagination(page, limit, total),
	}, "")
	return nil
}

// Get fetches an inquiry by ID. Admin only.
func (h *PartnerHandler) Get(c *gin.Context) error {
	if _, errRequire := h.auth.Require(c.Request.Context(), c.Request, models.RoleAdmin); errRequire != nil {
		return errRequire
	}

	id := strings.TrimSpace(c.Param("id"))
	var inquiry models.PartnerInquiry
	if errFind := h.db.WithContext(c.Request.Context()).First(&inquiry, "id = ?", id).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return apperr.NotFound("Partner inquiry not found")
		}
		return errFind
	}

	httpapi.Respond(c, http.StatusOK, h.formatInquiry(&inquiry), "")
	return nil
}

// updateInquiryRequest captures the fields admins may change on an inquiry.
type updateInquiryRequest struct {
	Status *string `json:"status" validate:"omitempty,oneof=pending contacted closed"` // New lifecycle status.
}

// Update applies admin-only status changes.
func (h *PartnerHandler) Update(c *gin.Context) error {
	if _, errRequire := h.auth.Require(c.Request.Context(), c.Request, models.RoleAdmin); errRequire != nil {
		return errRequire
	}

	id := strings.TrimSpace(c.Param("id"))
	var body updateInquiryRequest
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

	res := h.db.WithContext(c.Request.Context()).Model(&models.PartnerInquiry{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	var inquiry models.PartnerInquiry
	if errFind := h.db.WithContext(c.Request.Context()).First(&inquiry, "id = ?", id).Error; errFind != nil {
		return errFind
	}

	log.WithFields(log.Fields{"inquiryId": id}).Info("partner inquiry updated")
	httpapi.Respond(c, http.StatusOK, h.formatInquiry(&inquiry), "Partner inquiry updated successfully")
	return nil
}

// Delete removes an inquiry by ID. Admin only.
func (h *PartnerHandler) Delete(c *gin.Context) error {
	if _, errRequire := h.auth.Require(c.Request.Context(), c.Request, models.RoleAdmin); errRequire != nil {
		return errRequire
	}

	id := strings.TrimSpace(c.Param("id"))
	res := h.db.WithContext(c.Request.Context()).Delete(&models.PartnerInquiry{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	log.WithFields(log.Fields{"inquiryId": id}).Info("partner inquiry deleted")
	httpapi.Respond(c, http.StatusOK, nil, "Partner inquiry deleted successfully")
	return nil
}

// formatInquiry converts an inquiry model into a response payload.
func (h *PartnerHandler) formatInquiry(inquiry *models.PartnerInquiry) gin.H {
	return gin.H{
		"id":               inquiry.ID,
		"organizationName": inquiry.OrganizationName,
		"contactName":      inquiry.ContactName,
		"email":            inquiry.Email,
		"phone":            inquiry.Phone,
		"partnerType":      inquiry.PartnerType,
		"message":          inquiry.Message,
		"status":           inquiry.Status,
		"createdAt":        inquiry.CreatedAt,
		"updatedAt":        inquiry.UpdatedAt,
	}
}
