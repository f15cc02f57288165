package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Capsule status values.
const (
	// CapsuleStatusAvailable marks a capsule open for booking.
	CapsuleStatusAvailable = "available"
	// CapsuleStatusBooked marks a capsule currently rented out.
	CapsuleStatusBooked = "booked"
	// CapsuleStatusMaintenance marks a capsule out of service.
	CapsuleStatusMaintenance = "maintenance"
)

// CapsuleStatuses lists the accepted capsule status values.
var CapsuleStatuses = []string{CapsuleStatusAvailable, CapsuleStatusBooked, CapsuleStatusMaintenance}

// Capsule represents a mobile dormitory unit in the fleet.
type Capsule struct {
	ID string `gorm:"type:text;primaryKey"` // UUID primary key.

	Name     string `gorm:"type:text;not null;uniqueIndex"` // Unit name.
	Location string `gorm:"type:text;not null"`             // Current deployment location.

	Capacity      int     `gorm:"not null"`                                   // Sleeping capacity.
	Status        string  `gorm:"type:text;not null;default:available;index"` // Availability status.
	PricePerNight float64 `gorm:"type:decimal(10,2);not null"`                // Nightly rental price.

	Features string `gorm:"type:text"` // Optional feature list payload.

	Bookings []Booking `gorm:"foreignKey:CapsuleID"` // Bookings assigned to this unit.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}

// BeforeCreate assigns a UUID primary key when none is set.
func (c *Capsule) BeforeCreate(_ *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
