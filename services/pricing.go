package services

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"salonbook-backend/models"
)

// MinDuration is the floor applied to a quote's total duration, in
// minutes, no matter how large the negative modifiers are.
const MinDuration = 15

type Quote struct {
	ServiceID     uuid.UUID `json:"serviceId"`
	ServiceName   string    `json:"serviceName"`
	BasePrice     float64   `json:"basePrice"`
	BaseDuration  int       `json:"baseDuration"`
	PriceDelta    float64   `json:"priceDelta"`
	DurationDelta int       `json:"durationDelta"`
	TotalPrice    float64   `json:"totalPrice"`
	TotalDuration int       `json:"totalDuration"`

	Variants []models.ServiceVariant `json:"variants"`
}

type PricingService struct {
	db *gorm.DB
}

func NewPricingService(db *gorm.DB) *PricingService {
	return &PricingService{db: db}
}

// Quote prices a service with a set of selected variant ids. Ids that are
// unknown, inactive, or belong to another service are silently dropped by
// the scoped lookup rather than rejected. Variants sharing a type stack:
// two "duration" options both count.
func (s *PricingService) Quote(serviceID uuid.UUID, variantIDs []uuid.UUID) (*Quote, error) {
	var service models.Service
	err := s.db.Where("id = ? AND is_active = ?", serviceID, true).First(&service).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var variants []models.ServiceVariant
	if len(variantIDs) > 0 {
		err = s.db.Where("service_id = ? AND id IN ? AND is_active = ?", service.ID, variantIDs, true).
			Find(&variants).Error
		if err != nil {
			return nil, err
		}
	}

	quote := &Quote{
		ServiceID:    service.ID,
		ServiceName:  service.Name,
		BasePrice:    service.BasePrice,
		BaseDuration: service.BaseDuration,
		Variants:     variants,
	}
	for _, v := range variants {
		quote.PriceDelta += v.PriceModifier
		quote.DurationDelta += v.DurationModifier
	}

	quote.TotalPrice = service.BasePrice + quote.PriceDelta
	if quote.TotalPrice < 0 {
		quote.TotalPrice = 0
	}
	quote.TotalDuration = service.BaseDuration + quote.DurationDelta
	if quote.TotalDuration < MinDuration {
		quote.TotalDuration = MinDuration
	}

	return quote, nil
}
