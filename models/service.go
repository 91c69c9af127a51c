package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ServiceCategory struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name         string    `gorm:"not null" json:"name"`
	Description  string    `json:"description"`
	DisplayOrder int       `gorm:"default:0" json:"displayOrder"`
	IsActive     bool      `gorm:"default:true" json:"isActive"`

	Services []Service `gorm:"foreignKey:CategoryID" json:"services,omitempty"`

	gorm.Model `json:"-"`
}

func (sc *ServiceCategory) BeforeCreate(tx *gorm.DB) (err error) {
	if sc.ID == uuid.Nil {
		sc.ID = uuid.New()
	}
	return
}

type Service struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	CategoryID  *uuid.UUID `gorm:"type:uuid;index" json:"categoryId"`
	Name        string     `gorm:"not null" json:"name"`
	Description string     `json:"description"`

	BasePrice    float64 `gorm:"type:decimal(10,2);not null" json:"basePrice"`
	BaseDuration int     `gorm:"not null" json:"baseDuration"` // minutes
	IsActive     bool    `gorm:"default:true" json:"isActive"`

	Variants []ServiceVariant `gorm:"foreignKey:ServiceID" json:"variants,omitempty"`
}

func (s *Service) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}

// ServiceVariant adjusts a base service's price and duration. A booking
// may select any subset of a service's variants; variants sharing a type
// stack rather than exclude each other.
type ServiceVariant struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ServiceID uuid.UUID `gorm:"type:uuid;index;not null" json:"serviceId"`
	Name      string    `gorm:"not null" json:"name"`
	Type      string    `gorm:"type:varchar(20);not null" json:"type"` // style, duration, addon, intensity, length

	PriceModifier    float64 `gorm:"type:decimal(10,2);default:0" json:"priceModifier"`
	DurationModifier int     `gorm:"default:0" json:"durationModifier"` // signed minutes
	IsActive         bool    `gorm:"default:true" json:"isActive"`
}

func (v *ServiceVariant) BeforeCreate(tx *gorm.DB) (err error) {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return
}
