package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LoyaltyProgram is the active configuration for point accrual and
// redemption. At most one row has IsActive = true; activating a program
// deactivates the others.
type LoyaltyProgram struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `json:"description"`

	PointsPerBooking int     `gorm:"default:10" json:"pointsPerBooking"`
	PointsPerDollar  float64 `gorm:"default:1" json:"pointsPerDollar"`
	RewardThreshold  int     `gorm:"default:100" json:"rewardThreshold"`
	RewardAmount     float64 `gorm:"type:decimal(10,2);default:10" json:"rewardAmount"`

	BirthdayDiscountRate float64 `gorm:"default:0.2" json:"birthdayDiscountRate"`
	BirthdayDiscountDays int     `gorm:"default:7" json:"birthdayDiscountDays"`

	IsActive bool `gorm:"default:false;index" json:"isActive"`

	gorm.Model `json:"-"`
}

func (p *LoyaltyProgram) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}

// CustomerLoyalty is the per-customer point ledger, keyed by lower-cased
// email so anonymous bookings and registered accounts share one balance.
// TotalPoints is spendable; LifetimePoints only ever grows.
type CustomerLoyalty struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CustomerEmail string    `gorm:"uniqueIndex;not null" json:"customerEmail"`
	CustomerName  string    `json:"customerName"`
	CustomerPhone string    `json:"customerPhone"`

	TotalPoints    int `gorm:"default:0" json:"totalPoints"`
	LifetimePoints int `gorm:"default:0" json:"lifetimePoints"`

	gorm.Model `json:"-"`
}

func (cl *CustomerLoyalty) BeforeCreate(tx *gorm.DB) (err error) {
	if cl.ID == uuid.Nil {
		cl.ID = uuid.New()
	}
	return
}

// PointTransaction is an append-only audit trail of accruals and
// redemptions against a CustomerLoyalty ledger.
type PointTransaction struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CustomerEmail string    `gorm:"index;not null" json:"customerEmail"`
	Points        int       `json:"points"` // negative for redemptions
	Reason        string    `gorm:"type:varchar(50)" json:"reason"`

	gorm.Model `json:"-"`
}

func (pt *PointTransaction) BeforeCreate(tx *gorm.DB) (err error) {
	if pt.ID == uuid.Nil {
		pt.ID = uuid.New()
	}
	return
}
