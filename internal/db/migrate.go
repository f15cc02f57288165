package db

import (
	"fmt"

	"github.com/mobiledorms/mobiledorms-api/internal/auth"
	"github.com/mobiledorms/mobiledorms-api/internal/config"
	"github.com/mobiledorms/mobiledorms-api/internal/models"
	"gorm.io/gorm"
)

// Migrate runs database migrations and idempotent seeds.
func Migrate(conn *gorm.DB) error {
	if conn == nil {
		return fmt.Errorf("db: nil connection")
	}
	if errAutoMigrate := conn.AutoMigrate(
		&models.User{},
		&models.Capsule{},
		&models.Booking{},
		&models.PartnerInquiry{},
		&models.Setting{},
	); errAutoMigrate != nil {
		return fmt.Errorf("db: migrate: %w", errAutoMigrate)
	}
	if errSeed := ensureAdminUser(conn); errSeed != nil {
		return errSeed
	}
	if errSeed := ensureSampleCapsules(conn); errSeed != nil {
		return errSeed
	}
	return nil
}

// ensureAdminUser seeds the admin account when it does not exist yet.
func ensureAdminUser(conn *gorm.DB) error {
	seed := config.LoadSeedAdmin()

	var count int64
	if errCount := conn.Model(&models.User{}).Where("email = ?", seed.Email).Count(&count).Error; errCount != nil {
		return fmt.Errorf("db: count admin user: %w", errCount)
	}
	if count > 0 {
		return nil
	}

	hashed, errHash := auth.HashPassword(seed.Password)
	if errHash != nil {
		return fmt.Errorf("db: hash admin password: %w", errHash)
	}
	admin := models.User{
		Email:    seed.Email,
		Name:     seed.Name,
		Password: hashed,
		Role:     models.RoleAdmin,
	}
	if errCreate := conn.Create(&admin).Error; errCreate != nil {
		return fmt.Errorf("db: seed admin user: %w", errCreate)
	}
	return nil
}

// ensureSampleCapsules seeds the initial capsule fleet when missing.
func ensureSampleCapsules(conn *gorm.DB) error {
	samples := []models.Capsule{
		{
			Name:          "Capsule Unit A",
			Location:      "Austin, TX",
			Capacity:      8,
			Status:        models.CapsuleStatusAvailable,
			PricePerNight: 45,
			Features:      `["WiFi","AC","Lockers"]`,
		},
		{
			Name:          "Capsule Unit B",
			Location:      "Los Angeles, CA",
			Capacity:      8,
			Status:        models.CapsuleStatusAvailable,
			PricePerNight: 50,
			Features:      `["WiFi","AC","Lockers","Solar"]`,
		},
		{
			Name:          "Capsule Unit C",
			Location:      "Miami, FL",
			Capacity:      8,
			Status:        models.CapsuleStatusAvailable,
			PricePerNight: 55,
			Features:      `["WiFi","AC","Lockers"]`,
		},
	}

	for _, sample := range samples {
		var count int64
		if errCount := conn.Model(&models.Capsule{}).Where("name = ?", sample.Name).Count(&count).Error; errCount != nil {
			return fmt.Errorf("db: count capsule %q: %w", sample.Name, errCount)
		}
		if count > 0 {
			continue
		}
		capsule := sample
		if errCreate := conn.Create(&capsule).Error; errCreate != nil {
			return fmt.Errorf("db: seed capsule %q: %w", sample.Name, errCreate)
		}
	}
	return nil
}
