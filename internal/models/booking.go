package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Booking status values.
const (
	// BookingStatusPending marks a booking awaiting confirmation.
	BookingStatusPending = "pending"
	// BookingStatusConfirmed marks a confirmed booking.
	BookingStatusConfirmed = "confirmed"
	// BookingStatusCancelled marks a cancelled booking.
	BookingStatusCancelled = "cancelled"
)

// BookingStatuses lists the accepted booking status values.
var BookingStatuses = []string{BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled}

// Booking records a capsule rental request for an event.
type Booking struct {
	ID string `gorm:"type:text;primaryKey"` // UUID primary key.

	Name  string `gorm:"type:text;not null"`       // Contact name.
	Email string `gorm:"type:text;not null;index"` // Contact email.
	Phone string `gorm:"type:text;not null"`       // Contact phone number.

	EventName string    `gorm:"type:text;not null"` // Event name.
	EventDate time.Time `gorm:"not null"`           // Event start date.
	Location  string    `gorm:"type:text;not null"` // Event location.

	NumberOfCapsules int    `gorm:"not null"`  // Requested capsule count.
	Duration         int    `gorm:"not null"`  // Rental duration in days.
	Message          string `gorm:"type:text"` // Optional free-form message.

	Status string `gorm:"type:text;not null;default:pending;index"` // Booking lifecycle status.

	CapsuleID *string  `gorm:"type:text;index"`      // Assigned capsule ID, if any.
	Capsule   *Capsule `gorm:"foreignKey:CapsuleID"` // Assigned capsule record.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}

// BeforeCreate assigns a UUID primary key when none is set.
func (b *Booking) BeforeCreate(_ *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}
