package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCompleted = "completed"
	BookingStatusCancelled = "cancelled"
)

// Booking holds one appointment slot. The composite unique index is
// partial: only active rows (pending/confirmed) contend for a slot, so a
// cancelled booking frees it. Concurrent inserts for the same slot are
// resolved by the database and surfaced as a conflict.
type Booking struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`

	CustomerName  string `gorm:"not null" json:"customerName"`
	CustomerEmail string `gorm:"index;not null" json:"customerEmail"`
	CustomerPhone string `json:"customerPhone"`

	ServiceID uuid.UUID  `gorm:"type:uuid;index;not null" json:"serviceId"`
	StaffID   *uuid.UUID `gorm:"type:uuid;index" json:"staffId"`

	// The uniq_active_slot partial index over (booking_date, booking_time,
	// staff_id) is created in config.Migrate; its WHERE clause doesn't fit
	// a struct tag.
	BookingDate string `gorm:"type:date;not null;index" json:"bookingDate"` // YYYY-MM-DD
	BookingTime string `gorm:"type:varchar(5);not null" json:"bookingTime"` // HH:MM slot

	TotalPrice    float64 `gorm:"type:decimal(10,2)" json:"totalPrice"`
	TotalDuration int     `json:"totalDuration"` // minutes

	Status string `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	Notes  string `json:"notes"`

	Service Service `gorm:"foreignKey:ServiceID" json:"service,omitempty"`

	gorm.Model `json:"-"`
}

func (b *Booking) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return
}

// BookingVariant records which variants were selected at booking time,
// with the modifiers frozen so later catalog edits don't rewrite history.
type BookingVariant struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	BookingID uuid.UUID `gorm:"type:uuid;index;not null" json:"bookingId"`
	VariantID uuid.UUID `gorm:"type:uuid;not null" json:"variantId"`

	Name             string  `json:"name"`
	PriceModifier    float64 `gorm:"type:decimal(10,2)" json:"priceModifier"`
	DurationModifier int     `json:"durationModifier"`
}

func (bv *BookingVariant) BeforeCreate(tx *gorm.DB) (err error) {
	if bv.ID == uuid.Nil {
		bv.ID = uuid.New()
	}
	return
}
