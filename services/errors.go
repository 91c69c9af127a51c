package services

import "errors"

// Sentinel errors controllers map onto HTTP statuses.
var (
	ErrNotFound           = errors.New("record not found")
	ErrNoActiveProgram    = errors.New("no active loyalty program")
	ErrInsufficientPoints = errors.New("insufficient points for redemption")
	ErrInvalidRange       = errors.New("end date is before start date")
	ErrRangeTooLarge      = errors.New("date range exceeds 14 days")
	ErrSlotTaken          = errors.New("slot already booked")
	ErrInvalidSlot        = errors.New("time is not a valid slot")
)
