package models

import (
	"salonbook-backend/utils"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Customer is a self-registered account, distinct from the anonymous
// contact fields captured on a Booking.
type Customer struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Email    string    `gorm:"uniqueIndex;not null" json:"email"`
	Password string    `gorm:"not null" json:"-"`
	Name     string    `gorm:"not null" json:"name"`
	Phone    string    `json:"phone"`

	DateOfBirth *time.Time `json:"dateOfBirth"`
	GoogleID    string     `gorm:"index" json:"-"`

	ResetToken       string     `json:"-"`
	ResetTokenExpiry *time.Time `json:"-"`

	LastLogin *time.Time `json:"lastLogin"`
	IsActive  bool       `gorm:"default:true" json:"isActive"`

	gorm.Model `json:"-"`
}

func (c *Customer) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	// OAuth-provisioned accounts carry no password.
	if c.Password != "" {
		hashed, err := utils.HashPassword(c.Password)
		if err != nil {
			return err
		}
		c.Password = hashed
	}
	return
}
