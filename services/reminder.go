// services/reminder.go
package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"salonbook-backend/models"
)

// ReminderService runs the daily birthday-discount reminder job.
type ReminderService struct {
	db       *gorm.DB
	loyalty  *LoyaltyService
	notifier *Notifier
}

func NewReminderService(db *gorm.DB, loyalty *LoyaltyService, notifier *Notifier) *ReminderService {
	return &ReminderService{db: db, loyalty: loyalty, notifier: notifier}
}

// StartScheduler registers the daily 9 AM run.
func (s *ReminderService) StartScheduler() {
	c := cron.New()

	c.AddFunc("0 9 * * *", func() {
		s.SendBirthdayReminders(time.Now())
	})

	c.Start()
	log.Println("Reminder scheduler started")
}

// SendBirthdayReminders notifies every customer whose birthday-discount
// window is open today, skipping anyone already reminded this year.
func (s *ReminderService) SendBirthdayReminders(today time.Time) {
	program, err := s.loyalty.ActiveProgram()
	if err != nil {
		if !errors.Is(err, ErrNoActiveProgram) {
			log.Printf("Birthday reminders skipped: %v", err)
		}
		return
	}

	var customers []models.Customer
	if err := s.db.Where("is_active = ? AND date_of_birth IS NOT NULL", true).Find(&customers).Error; err != nil {
		log.Printf("Failed to fetch customers for birthday reminders: %v", err)
		return
	}

	for _, customer := range customers {
		if customer.DateOfBirth == nil {
			continue
		}
		eligibility := CheckBirthdayEligibility(*customer.DateOfBirth, program, today)
		if !eligibility.Eligible {
			continue
		}
		if s.alreadyRemindedThisYear(customer.Email, today) {
			continue
		}

		message := fmt.Sprintf(
			"Hi %s, your birthday discount of %.0f%% is active! Book a visit within the next %d days to use it.",
			customer.Name, program.BirthdayDiscountRate*100, program.BirthdayDiscountDays)
		s.notifier.Send("birthday", customer.Email, customer.Phone, message)
	}
}

func (s *ReminderService) alreadyRemindedThisYear(email string, today time.Time) bool {
	yearStart := time.Date(today.Year(), 1, 1, 0, 0, 0, 0, today.Location())
	var count int64
	err := s.db.Model(&models.ReminderLog{}).
		Where("customer_email = ? AND type = ? AND status = ? AND sent_at >= ?",
			email, "birthday", "sent", yearStart).
		Count(&count).Error
	if err != nil {
		log.Printf("Failed to check reminder history for %s: %v", email, err)
		return false
	}
	return count > 0
}
