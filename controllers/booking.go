package controllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"salonbook-backend/models"
	"salonbook-backend/services"
	"salonbook-backend/utils"
)

type BookingController struct {
	DB           *gorm.DB
	Pricing      *services.PricingService
	Availability *services.AvailabilityService
	Loyalty      *services.LoyaltyService
	Notifier     *services.Notifier
}

func NewBookingController(db *gorm.DB, pricing *services.PricingService,
	availability *services.AvailabilityService, loyalty *services.LoyaltyService,
	notifier *services.Notifier) *BookingController {
	return &BookingController{
		DB:           db,
		Pricing:      pricing,
		Availability: availability,
		Loyalty:      loyalty,
		Notifier:     notifier,
	}
}

type CreateBookingInput struct {
	CustomerName  string      `json:"customerName" binding:"required"`
	CustomerEmail string      `json:"customerEmail" binding:"required,email"`
	CustomerPhone string      `json:"customerPhone"`
	ServiceID     uuid.UUID   `json:"serviceId" binding:"required"`
	StaffID       *uuid.UUID  `json:"staffId"`
	VariantIDs    []uuid.UUID `json:"variantIds"`
	BookingDate   string      `json:"bookingDate" binding:"required"` // YYYY-MM-DD
	BookingTime   string      `json:"bookingTime" binding:"required"` // HH:MM slot
	Notes         string      `json:"notes"`
}

type UpdateBookingStatusInput struct {
	Status string `json:"status" binding:"required,oneof=pending confirmed completed cancelled"`
}

var validStatusTransitions = map[string][]string{
	models.BookingStatusPending:   {models.BookingStatusConfirmed, models.BookingStatusCompleted, models.BookingStatusCancelled},
	models.BookingStatusConfirmed: {models.BookingStatusCompleted, models.BookingStatusCancelled},
	models.BookingStatusCompleted: {},
	models.BookingStatusCancelled: {},
}

func canTransition(from, to string) bool {
	for _, s := range validStatusTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Create books a slot. The free-slot pre-check gives a friendly conflict
// message, but the real guard is the partial unique index: if two
// requests race past the check, the second insert fails with a duplicate
// key and is returned as 409 instead of silently double-booking.
func (bc *BookingController) Create(c *gin.Context) {
	var input CreateBookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	date, err := utils.ParseDate(input.BookingDate)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid booking date, expected YYYY-MM-DD")
		return
	}
	if date.Weekday() == time.Sunday {
		utils.RespondWithError(c, http.StatusBadRequest, "Salon is closed on Sundays")
		return
	}
	if !services.IsValidSlot(input.BookingTime) {
		utils.RespondWithError(c, http.StatusBadRequest, "Booking time is not a valid slot")
		return
	}
	if input.CustomerPhone != "" && !utils.ValidatePhone(input.CustomerPhone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number")
		return
	}

	if input.StaffID != nil {
		var staff models.Staff
		if err := bc.DB.Where("id = ? AND is_active = ?", *input.StaffID, true).First(&staff).Error; err != nil {
			utils.RespondWithError(c, http.StatusNotFound, "Staff member not found")
			return
		}
	}

	quote, err := bc.Pricing.Quote(input.ServiceID, input.VariantIDs)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Service not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to price booking")
		}
		return
	}

	available, err := bc.Availability.ResolveDate(date, input.StaffID)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to check availability")
		return
	}
	free := false
	for _, slot := range available {
		if slot == input.BookingTime {
			free = true
			break
		}
	}
	if !free {
		utils.RespondWithError(c, http.StatusConflict, "Slot already booked")
		return
	}

	booking := models.Booking{
		CustomerName:  input.CustomerName,
		CustomerEmail: utils.NormalizeEmail(input.CustomerEmail),
		CustomerPhone: input.CustomerPhone,
		ServiceID:     quote.ServiceID,
		StaffID:       input.StaffID,
		BookingDate:   input.BookingDate,
		BookingTime:   input.BookingTime,
		TotalPrice:    quote.TotalPrice,
		TotalDuration: quote.TotalDuration,
		Status:        models.BookingStatusPending,
		Notes:         input.Notes,
	}
	if err := bc.DB.Create(&booking).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.RespondWithError(c, http.StatusConflict, "Slot already booked")
			return
		}
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create booking")
		return
	}

	// Freeze each selected variant's modifiers on the booking.
	for _, v := range quote.Variants {
		bv := models.BookingVariant{
			BookingID:        booking.ID,
			VariantID:        v.ID,
			Name:             v.Name,
			PriceModifier:    v.PriceModifier,
			DurationModifier: v.DurationModifier,
		}
		if err := bc.DB.Create(&bv).Error; err != nil {
			log.Printf("Failed to record booking variant %s: %v", v.ID, err)
		}
	}

	bc.recordEvent("booking_created", models.JSONB{
		"bookingId": booking.ID.String(),
		"serviceId": booking.ServiceID.String(),
		"total":     booking.TotalPrice,
	})

	if bc.Notifier != nil {
		message := fmt.Sprintf("Hi %s, your %s appointment is booked for %s at %s. Total: $%.2f.",
			booking.CustomerName, quote.ServiceName, booking.BookingDate, booking.BookingTime, booking.TotalPrice)
		bc.Notifier.Send("booking_confirmation", booking.CustomerEmail, booking.CustomerPhone, message)
	}

	c.JSON(http.StatusCreated, gin.H{
		"booking": booking,
		"quote":   quote,
	})
}

// List returns bookings with optional status/date/staff filters and
// page/limit pagination, newest first.
func (bc *BookingController) List(c *gin.Context) {
	query := bc.DB.Model(&models.Booking{}).Preload("Service")

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if date := c.Query("date"); date != "" {
		query = query.Where("booking_date = ?", date)
	}
	if staffID := c.Query("staffId"); staffID != "" {
		staffUUID, err := uuid.Parse(staffID)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid staff ID format")
			return
		}
		query = query.Where("staff_id = ?", staffUUID)
	}
	if email := c.Query("email"); email != "" {
		query = query.Where("customer_email = ?", utils.NormalizeEmail(email))
	}

	var total int64
	query.Count(&total)

	page, limit, offset := utils.Pagination(c)

	var bookings []models.Booking
	err := query.Order("booking_date desc, booking_time desc").
		Limit(limit).Offset(offset).
		Find(&bookings).Error
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve bookings")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"bookings": bookings,
		"page":     page,
		"limit":    limit,
		"total":    total,
	})
}

func (bc *BookingController) Get(c *gin.Context) {
	bookingUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid booking ID format")
		return
	}

	var booking models.Booking
	err = bc.DB.Preload("Service").First(&booking, "id = ?", bookingUUID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Booking not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	var variants []models.BookingVariant
	bc.DB.Where("booking_id = ?", booking.ID).Find(&variants)

	c.JSON(http.StatusOK, gin.H{
		"booking":  booking,
		"variants": variants,
	})
}

// UpdateStatus moves a booking through its lifecycle. Completion triggers
// loyalty accrual; an accrual failure is logged and never rolls the
// status back.
func (bc *BookingController) UpdateStatus(c *gin.Context) {
	bookingUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid booking ID format")
		return
	}

	var input UpdateBookingStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var booking models.Booking
	if err := bc.DB.First(&booking, "id = ?", bookingUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Booking not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if booking.Status != input.Status && !canTransition(booking.Status, input.Status) {
		utils.RespondWithError(c, http.StatusBadRequest,
			fmt.Sprintf("Cannot change status from %s to %s", booking.Status, input.Status))
		return
	}

	previous := booking.Status
	if err := bc.DB.Model(&booking).Update("status", input.Status).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update booking")
		return
	}
	booking.Status = input.Status

	if input.Status == models.BookingStatusCompleted && previous != models.BookingStatusCompleted {
		bc.Loyalty.AccrueForBooking(&booking)
		bc.recordEvent("booking_completed", models.JSONB{
			"bookingId": booking.ID.String(),
			"total":     booking.TotalPrice,
		})
	}

	c.JSON(http.StatusOK, booking)
}

// Cancel is a customer-facing shortcut for status=cancelled.
func (bc *BookingController) Cancel(c *gin.Context) {
	bookingUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid booking ID format")
		return
	}

	var booking models.Booking
	if err := bc.DB.First(&booking, "id = ?", bookingUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Booking not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if booking.Status == models.BookingStatusCompleted {
		utils.RespondWithError(c, http.StatusBadRequest, "Completed bookings cannot be cancelled")
		return
	}
	if booking.Status == models.BookingStatusCancelled {
		c.JSON(http.StatusOK, booking)
		return
	}

	if err := bc.DB.Model(&booking).Update("status", models.BookingStatusCancelled).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to cancel booking")
		return
	}
	booking.Status = models.BookingStatusCancelled

	c.JSON(http.StatusOK, booking)
}

// GetAvailability returns free slots per day for a date range.
func (bc *BookingController) GetAvailability(c *gin.Context) {
	startStr := c.Query("startDate")
	endStr := c.Query("endDate")
	if startStr == "" || endStr == "" {
		utils.RespondWithError(c, http.StatusBadRequest, "startDate and endDate are required")
		return
	}

	start, err := utils.ParseDate(startStr)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid startDate, expected YYYY-MM-DD")
		return
	}
	end, err := utils.ParseDate(endStr)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid endDate, expected YYYY-MM-DD")
		return
	}

	staffID, ok := bc.staffFilter(c)
	if !ok {
		return
	}

	availability, err := bc.Availability.ResolveRange(start, end, staffID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidRange), errors.Is(err, services.ErrRangeTooLarge):
			utils.RespondWithError(c, http.StatusBadRequest, err.Error())
		default:
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to resolve availability")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"availability": availability})
}

// GetAvailabilityForDate returns free slots for a single day.
func (bc *BookingController) GetAvailabilityForDate(c *gin.Context) {
	date, err := utils.ParseDate(c.Param("date"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
		return
	}

	staffID, ok := bc.staffFilter(c)
	if !ok {
		return
	}

	slots, err := bc.Availability.ResolveDate(date, staffID)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to resolve availability")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":  date.Format(utils.DateLayout),
		"slots": slots,
	})
}

func (bc *BookingController) staffFilter(c *gin.Context) (*uuid.UUID, bool) {
	staffParam := c.Query("staffId")
	if staffParam == "" {
		return nil, true
	}
	staffUUID, err := uuid.Parse(staffParam)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid staff ID format")
		return nil, false
	}
	return &staffUUID, true
}

func (bc *BookingController) recordEvent(eventType string, metadata models.JSONB) {
	event := models.AnalyticsEvent{Type: eventType, Metadata: metadata}
	if err := bc.DB.Create(&event).Error; err != nil {
		log.Printf("Failed to record analytics event %s: %v", eventType, err)
	}
}
