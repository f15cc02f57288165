package models

import (
	"time"

	"gorm.io/datatypes"
)

// Setting stores a JSON configuration value keyed by name.
type Setting struct {
	Key   string         `gorm:"type:text;primaryKey"` // Setting key.
	Value datatypes.JSON `gorm:"not null"`             // JSON value payload.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
