package config

import (
	"fmt"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"salonbook-backend/models"
)

// ConnectDB opens the database handle the rest of the process is
// constructed around. No package-level singleton: the handle is passed
// explicitly into controllers and services, and its lifecycle belongs to
// main.
func ConnectDB() (*gorm.DB, error) {
	dsn := os.Getenv("DB_URL")

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		// Duplicate-key violations surface as gorm.ErrDuplicatedKey so the
		// booking slot conflict can be mapped to a 409.
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetConnMaxIdleTime(time.Minute)

	return db, nil
}

// Migrate creates or updates the schema for every entity, then installs
// the partial unique index that turns a double-booking race into a clean
// duplicate-key conflict. Only active bookings contend for a slot; NULL
// staff ids compare distinct, so walk-in bookings without a staff member
// still rely on the pre-insert check.
func Migrate(db *gorm.DB) error {
	if err := autoMigrate(db); err != nil {
		return err
	}
	return db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS uniq_active_slot
		ON bookings (booking_date, booking_time, staff_id)
		WHERE status IN ('pending', 'confirmed')`).Error
}

func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Staff{},
		&models.Customer{},
		&models.ServiceCategory{},
		&models.Service{},
		&models.ServiceVariant{},
		&models.Booking{},
		&models.BookingVariant{},
		&models.LoyaltyProgram{},
		&models.CustomerLoyalty{},
		&models.PointTransaction{},
		&models.Feedback{},
		&models.AnalyticsEvent{},
		&models.ReminderLog{},
	)
}
