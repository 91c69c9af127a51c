package services

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"salonbook-backend/models"
	"salonbook-backend/utils"
)

// MaxRangeDays caps the inclusive span of an availability query.
const MaxRangeDays = 14

// SlotGrid is the canonical booking grid: 18 half-hour start times from
// 09:00 to 17:30. Slots are literal strings, not derived from service
// duration; a booking occupies exactly one slot regardless of how long
// the service runs. That cannot stop a long service from spilling into
// the next slot, but it is the wire contract clients depend on.
var SlotGrid = []string{
	"09:00", "09:30", "10:00", "10:30", "11:00", "11:30",
	"12:00", "12:30", "13:00", "13:30", "14:00", "14:30",
	"15:00", "15:30", "16:00", "16:30", "17:00", "17:30",
}

// IsValidSlot reports whether t is one of the grid's start times.
func IsValidSlot(t string) bool {
	for _, slot := range SlotGrid {
		if slot == t {
			return true
		}
	}
	return false
}

type AvailabilityService struct {
	db *gorm.DB
}

func NewAvailabilityService(db *gorm.DB) *AvailabilityService {
	return &AvailabilityService{db: db}
}

// ResolveRange computes the free slots per day for an inclusive date
// range, optionally restricted to one staff member. Sundays come back
// empty (salon closed). The result is keyed by YYYY-MM-DD with slots in
// grid order.
func (s *AvailabilityService) ResolveRange(start, end time.Time, staffID *uuid.UUID) (map[string][]string, error) {
	start = utils.BeginningOfDay(start)
	end = utils.BeginningOfDay(end)
	if end.Before(start) {
		return nil, ErrInvalidRange
	}
	if utils.DaysBetween(start, end)+1 > MaxRangeDays {
		return nil, ErrRangeTooLarge
	}

	result := make(map[string][]string)
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		slots, err := s.ResolveDate(day, staffID)
		if err != nil {
			return nil, err
		}
		result[day.Format(utils.DateLayout)] = slots
	}
	return result, nil
}

// ResolveDate is the single-day variant of ResolveRange.
func (s *AvailabilityService) ResolveDate(date time.Time, staffID *uuid.UUID) ([]string, error) {
	if date.Weekday() == time.Sunday {
		return []string{}, nil
	}

	taken, err := s.bookedSlots(date.Format(utils.DateLayout), staffID)
	if err != nil {
		return nil, err
	}

	available := make([]string, 0, len(SlotGrid))
	for _, slot := range SlotGrid {
		if !taken[slot] {
			available = append(available, slot)
		}
	}
	return available, nil
}

// bookedSlots returns the set of slot strings held by active (pending or
// confirmed) bookings on the given date. Matching is exact slot-string
// equality, never overlap.
func (s *AvailabilityService) bookedSlots(date string, staffID *uuid.UUID) (map[string]bool, error) {
	query := s.db.Model(&models.Booking{}).
		Where("booking_date = ? AND status IN ?", date,
			[]string{models.BookingStatusPending, models.BookingStatusConfirmed})
	if staffID != nil {
		query = query.Where("staff_id = ?", *staffID)
	}

	var times []string
	if err := query.Pluck("booking_time", &times).Error; err != nil {
		return nil, err
	}

	taken := make(map[string]bool, len(times))
	for _, t := range times {
		taken[t] = true
	}
	return taken, nil
}
