package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Partner inquiry types.
const (
	// PartnerTypeEvent marks an event organizer inquiry.
	PartnerTypeEvent = "event"
	// PartnerTypeCorporate marks a corporate inquiry.
	PartnerTypeCorporate = "corporate"
	// PartnerTypeGovernment marks a government inquiry.
	PartnerTypeGovernment = "government"
	// PartnerTypeNGO marks a non-governmental organization inquiry.
	PartnerTypeNGO = "ngo"
)

// PartnerTypes lists the accepted partner type values.
var PartnerTypes = []string{PartnerTypeEvent, PartnerTypeCorporate, PartnerTypeGovernment, PartnerTypeNGO}

// Partner inquiry status values.
const (
	// InquiryStatusPending marks an inquiry awaiting review.
	InquiryStatusPending = "pending"
	// InquiryStatusContacted marks an inquiry being followed up.
	InquiryStatusContacted = "contacted"
	// InquiryStatusClosed marks a resolved inquiry.
	InquiryStatusClosed = "closed"
)

// InquiryStatuses lists the accepted inquiry status values.
var InquiryStatuses = []string{InquiryStatusPending, InquiryStatusContacted, InquiryStatusClosed}

// PartnerInquiry records a partnership request from an organization.
type PartnerInquiry struct {
	ID string `gorm:"type:text;primaryKey"` // UUID primary key.

	OrganizationName string `gorm:"type:text;not null"`       // Organization name.
	ContactName      string `gorm:"type:text;not null"`       // Contact person name.
	Email            string `gorm:"type:text;not null;index"` // Contact email.
	Phone            string `gorm:"type:text;not null"`       // Contact phone number.

	PartnerType string `gorm:"type:text;not null;index"` // Kind of partnership requested.
	Message     string `gorm:"type:text"`                // Optional free-form message.

	Status string `gorm:"type:text;not null;default:pending;index"` // Inquiry lifecycle status.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}

// BeforeCreate assigns a UUID primary key when none is set.
func (p *PartnerInquiry) BeforeCreate(_ *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
