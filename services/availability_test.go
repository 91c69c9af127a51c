package services

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"salonbook-backend/models"
)

func seedBooking(t *testing.T, db *gorm.DB, date, slot, status string, staffID *uuid.UUID) models.Booking {
	t.Helper()
	booking := models.Booking{
		CustomerName:  "Test Customer",
		CustomerEmail: "test@example.com",
		ServiceID:     uuid.New(),
		StaffID:       staffID,
		BookingDate:   date,
		BookingTime:   slot,
		Status:        status,
	}
	if err := db.Create(&booking).Error; err != nil {
		t.Fatalf("seed booking: %v", err)
	}
	return booking
}

func TestResolveDate_FullGridWhenEmpty(t *testing.T) {
	db := openTestDB(t)
	svc := NewAvailabilityService(db)

	// 2024-06-10 is a Monday.
	slots, err := svc.ResolveDate(time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC), nil)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(slots) != 18 {
		t.Fatalf("expected 18 slots, got %d", len(slots))
	}
	if slots[0] != "09:00" || slots[17] != "17:30" {
		t.Fatalf("expected grid order 09:00..17:30, got %v", slots)
	}
}

func TestResolveDate_ExcludesBookedSlot(t *testing.T) {
	db := openTestDB(t)
	seedBooking(t, db, "2024-06-10", "10:00", models.BookingStatusConfirmed, nil)
	svc := NewAvailabilityService(db)

	slots, err := svc.ResolveDate(time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC), nil)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(slots) != 17 {
		t.Fatalf("expected 17 slots, got %d", len(slots))
	}
	for _, s := range slots {
		if s == "10:00" {
			t.Fatalf("expected 10:00 to be excluded, got %v", slots)
		}
	}
}

func TestResolveDate_CancelledBookingDoesNotBlock(t *testing.T) {
	db := openTestDB(t)
	seedBooking(t, db, "2024-06-10", "10:00", models.BookingStatusCancelled, nil)
	svc := NewAvailabilityService(db)

	slots, err := svc.ResolveDate(time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC), nil)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(slots) != 18 {
		t.Fatalf("expected cancelled booking to free the slot, got %d slots", len(slots))
	}
}

func TestResolveDate_SundayClosed(t *testing.T) {
	db := openTestDB(t)
	svc := NewAvailabilityService(db)

	// 2024-06-09 is a Sunday.
	slots, err := svc.ResolveDate(time.Date(2024, 6, 9, 0, 0, 0, 0, time.UTC), nil)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(slots) != 0 {
		t.Fatalf("expected no slots on Sunday, got %v", slots)
	}
}

func TestResolveDate_StaffFilter(t *testing.T) {
	db := openTestDB(t)
	staffA := uuid.New()
	staffB := uuid.New()
	seedBooking(t, db, "2024-06-10", "10:00", models.BookingStatusPending, &staffA)
	svc := NewAvailabilityService(db)

	slotsB, err := svc.ResolveDate(time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC), &staffB)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(slotsB) != 18 {
		t.Fatalf("expected staff B unaffected by staff A's booking, got %d slots", len(slotsB))
	}

	slotsA, err := svc.ResolveDate(time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC), &staffA)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(slotsA) != 17 {
		t.Fatalf("expected staff A's slot taken, got %d slots", len(slotsA))
	}
}

func TestResolveRange_KeysAndSundays(t *testing.T) {
	db := openTestDB(t)
	svc := NewAvailabilityService(db)

	// Monday through Sunday.
	start := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 6, 16, 0, 0, 0, 0, time.UTC)
	result, err := svc.ResolveRange(start, end, nil)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(result) != 7 {
		t.Fatalf("expected 7 days, got %d", len(result))
	}
	if len(result["2024-06-16"]) != 0 {
		t.Fatalf("expected Sunday 2024-06-16 to be empty, got %v", result["2024-06-16"])
	}
	if len(result["2024-06-12"]) != 18 {
		t.Fatalf("expected full grid on 2024-06-12, got %d", len(result["2024-06-12"]))
	}
}

func TestResolveRange_RejectsInvertedRange(t *testing.T) {
	db := openTestDB(t)
	svc := NewAvailabilityService(db)

	start := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	_, err := svc.ResolveRange(start, start.AddDate(0, 0, -1), nil)
	if !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
}

func TestResolveRange_CapsSpanAtFourteenDays(t *testing.T) {
	db := openTestDB(t)
	svc := NewAvailabilityService(db)

	start := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

	// 14 inclusive days is allowed.
	if _, err := svc.ResolveRange(start, start.AddDate(0, 0, 13), nil); err != nil {
		t.Fatalf("expected 14-day span to succeed, got %v", err)
	}

	// 15 inclusive days is not.
	_, err := svc.ResolveRange(start, start.AddDate(0, 0, 14), nil)
	if !errors.Is(err, ErrRangeTooLarge) {
		t.Fatalf("expected ErrRangeTooLarge, got %v", err)
	}
}

func TestIsValidSlot(t *testing.T) {
	for _, slot := range SlotGrid {
		if !IsValidSlot(slot) {
			t.Fatalf("expected %s to be valid", slot)
		}
	}
	for _, bad := range []string{"08:30", "18:00", "10:15", "9:00", ""} {
		if IsValidSlot(bad) {
			t.Fatalf("expected %s to be invalid", bad)
		}
	}
}
