package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Feedback struct {
	ID            uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	BookingID     *uuid.UUID `gorm:"type:uuid;index" json:"bookingId"`
	CustomerName  string     `json:"customerName"`
	CustomerEmail string     `gorm:"index" json:"customerEmail"`

	Rating  int    `gorm:"not null" json:"rating"` // 1..5
	Comment string `gorm:"type:text" json:"comment"`

	IsPublished bool `gorm:"default:false" json:"isPublished"`

	gorm.Model `json:"-"`
}

func (f *Feedback) BeforeCreate(tx *gorm.DB) (err error) {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return
}
