package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User roles recognized by the auth gate.
const (
	// RoleAdmin grants access to admin-only endpoints.
	RoleAdmin = "admin"
	// RoleUser is the default role for regular accounts.
	RoleUser = "user"
)

// User represents an account stored in the database.
type User struct {
	ID string `gorm:"type:text;primaryKey"` // UUID primary key.

	Email    string `gorm:"type:text;not null;uniqueIndex"`        // Unique email address.
	Name     string `gorm:"type:text"`                             // Display name.
	Password string `gorm:"type:text;not null"`                    // Bcrypt password hash.
	Role     string `gorm:"type:text;not null;default:user;index"` // Account role.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}

// BeforeCreate assigns a UUID primary key when none is set.
func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
