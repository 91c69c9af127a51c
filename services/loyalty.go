package services

import (
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"gorm.io/gorm"

	"salonbook-backend/models"
	"salonbook-backend/utils"
)

type LoyaltyService struct {
	db *gorm.DB
}

func NewLoyaltyService(db *gorm.DB) *LoyaltyService {
	return &LoyaltyService{db: db}
}

type RedeemResult struct {
	RewardAmount    float64 `json:"rewardAmount"`
	RemainingPoints int     `json:"remainingPoints"`
}

type BirthdayEligibility struct {
	Eligible          bool    `json:"eligible"`
	DaysUntilBirthday int     `json:"daysUntilBirthday"`
	DiscountRate      float64 `json:"discountRate"`
}

// ActiveProgram returns the single active loyalty program configuration.
func (s *LoyaltyService) ActiveProgram() (*models.LoyaltyProgram, error) {
	var program models.LoyaltyProgram
	err := s.db.Where("is_active = ?", true).First(&program).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoActiveProgram
		}
		return nil, err
	}
	return &program, nil
}

// EnsureCustomerRecord is an idempotent get-or-create keyed by
// lower-cased email, so anonymous bookings and registered accounts land
// on the same ledger row.
func (s *LoyaltyService) EnsureCustomerRecord(email, name, phone string) (*models.CustomerLoyalty, error) {
	email = utils.NormalizeEmail(email)

	var record models.CustomerLoyalty
	err := s.db.Where("customer_email = ?", email).First(&record).Error
	if err == nil {
		return &record, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	record = models.CustomerLoyalty{
		CustomerEmail: email,
		CustomerName:  name,
		CustomerPhone: phone,
	}
	if err := s.db.Create(&record).Error; err != nil {
		// Lost a create race: the row exists now, use it.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if ferr := s.db.Where("customer_email = ?", email).First(&record).Error; ferr == nil {
				return &record, nil
			}
		}
		return nil, err
	}
	return &record, nil
}

// AddPoints credits both TotalPoints and LifetimePoints by the same
// non-negative amount as a single atomic update, then appends an audit
// transaction.
func (s *LoyaltyService) AddPoints(email string, points int, reason string) (*models.CustomerLoyalty, error) {
	if points < 0 {
		return nil, fmt.Errorf("points must be non-negative, got %d", points)
	}
	email = utils.NormalizeEmail(email)

	result := s.db.Model(&models.CustomerLoyalty{}).
		Where("customer_email = ?", email).
		UpdateColumns(map[string]interface{}{
			"total_points":    gorm.Expr("total_points + ?", points),
			"lifetime_points": gorm.Expr("lifetime_points + ?", points),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	if err := s.db.Create(&models.PointTransaction{
		CustomerEmail: email,
		Points:        points,
		Reason:        reason,
	}).Error; err != nil {
		log.Printf("Failed to record point transaction for %s: %v", email, err)
	}

	var record models.CustomerLoyalty
	if err := s.db.Where("customer_email = ?", email).First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// Redeem converts exactly RewardThreshold points into the program's fixed
// reward. The decrement is a conditional atomic update so two concurrent
// redemptions cannot both spend the same points. LifetimePoints is left
// untouched.
func (s *LoyaltyService) Redeem(email string) (*RedeemResult, error) {
	program, err := s.ActiveProgram()
	if err != nil {
		return nil, err
	}
	email = utils.NormalizeEmail(email)

	result := s.db.Model(&models.CustomerLoyalty{}).
		Where("customer_email = ? AND total_points >= ?", email, program.RewardThreshold).
		UpdateColumn("total_points", gorm.Expr("total_points - ?", program.RewardThreshold))
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		var record models.CustomerLoyalty
		if ferr := s.db.Where("customer_email = ?", email).First(&record).Error; ferr != nil {
			if errors.Is(ferr, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, ferr
		}
		return nil, ErrInsufficientPoints
	}

	if err := s.db.Create(&models.PointTransaction{
		CustomerEmail: email,
		Points:        -program.RewardThreshold,
		Reason:        "redemption",
	}).Error; err != nil {
		log.Printf("Failed to record redemption transaction for %s: %v", email, err)
	}

	var record models.CustomerLoyalty
	if err := s.db.Where("customer_email = ?", email).First(&record).Error; err != nil {
		return nil, err
	}
	return &RedeemResult{
		RewardAmount:    program.RewardAmount,
		RemainingPoints: record.TotalPoints,
	}, nil
}

// CheckBirthdayEligibility measures how close today is to the customer's
// birthday with both dates projected onto the current year, and grants
// the discount when the absolute day distance is within the program's
// window. The distance does not wrap across year boundaries (Dec 30 vs
// Jan 2 measures ~362 days, not 3); kept that way on purpose so existing
// clients see identical eligibility decisions.
func CheckBirthdayEligibility(dateOfBirth time.Time, program *models.LoyaltyProgram, today time.Time) BirthdayEligibility {
	birthdayThisYear := time.Date(today.Year(), dateOfBirth.Month(), dateOfBirth.Day(),
		0, 0, 0, 0, today.Location())
	days := int(math.Abs(float64(utils.DaysBetween(today, birthdayThisYear))))

	return BirthdayEligibility{
		Eligible:          days <= program.BirthdayDiscountDays,
		DaysUntilBirthday: days,
		DiscountRate:      program.BirthdayDiscountRate,
	}
}

// AccrueForBooking runs when a booking is marked completed: it makes sure
// a ledger row exists and credits the program's per-booking points plus
// spend-based points. Fire-and-forget by contract; any failure here is
// logged and must never roll back the status change.
func (s *LoyaltyService) AccrueForBooking(booking *models.Booking) {
	program, err := s.ActiveProgram()
	if err != nil {
		if !errors.Is(err, ErrNoActiveProgram) {
			log.Printf("Loyalty accrual skipped for booking %s: %v", booking.ID, err)
		}
		return
	}

	if _, err := s.EnsureCustomerRecord(booking.CustomerEmail, booking.CustomerName, booking.CustomerPhone); err != nil {
		log.Printf("Failed to ensure loyalty record for %s: %v", booking.CustomerEmail, err)
		return
	}

	if _, err := s.AddPoints(booking.CustomerEmail, program.PointsPerBooking, "booking"); err != nil {
		log.Printf("Failed to accrue booking points for %s: %v", booking.CustomerEmail, err)
	}

	spendPoints := int(program.PointsPerDollar * booking.TotalPrice)
	if spendPoints > 0 {
		if _, err := s.AddPoints(booking.CustomerEmail, spendPoints, "spend"); err != nil {
			log.Printf("Failed to accrue spend points for %s: %v", booking.CustomerEmail, err)
		}
	}
}
