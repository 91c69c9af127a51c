package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AnalyticsEvent is a lightweight event log the dashboard aggregates over
// (booking_created, booking_completed, points_redeemed, ...).
type AnalyticsEvent struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Type     string    `gorm:"type:varchar(40);index;not null" json:"type"`
	Metadata JSONB     `gorm:"type:jsonb;default:'{}'" json:"metadata"`

	gorm.Model `json:"-"`
}

func (e *AnalyticsEvent) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return
}
