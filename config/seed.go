package config

import (
	"errors"
	"log"
	"os"

	"gorm.io/gorm"

	"salonbook-backend/models"
)

// SeedAdmin provisions the initial admin staff account from ADMIN_EMAIL /
// ADMIN_PASSWORD. This replaces the old implicit rule where the first
// staff member to log in was promoted to admin: seeding is now an explicit
// startup step and a no-op when an admin already exists.
func SeedAdmin(db *gorm.DB) error {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Println("ADMIN_EMAIL/ADMIN_PASSWORD not set, skipping admin seed")
		return nil
	}

	var existing models.Staff
	err := db.Where("role = ?", models.RoleAdmin).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	admin := models.Staff{
		Email:    email,
		Password: password, // hashed in BeforeCreate
		Name:     "Administrator",
		Role:     models.RoleAdmin,
		IsActive: true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	log.Printf("Seeded admin staff account %s", email)
	return nil
}
