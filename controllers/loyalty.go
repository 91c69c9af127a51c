package controllers

import (
	"errors"
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

type LoyaltyController struct {
	DB      *gorm.DB
	Loyalty *services.LoyaltyService
}

func NewLoyaltyController(db *gorm.DB, loyalty *services.LoyaltyService) *LoyaltyController {
	return &LoyaltyController{DB: db, Loyalty: loyalty}
}

type CreateProgramInput struct {
	Name                 string  `json:"name" binding:"required"`
	Description          string  `json:"description"`
	PointsPerBooking     int     `json:"pointsPerBooking" binding:"min=0"`
	PointsPerDollar      float64 `json:"pointsPerDollar" binding:"min=0"`
	RewardThreshold      int     `json:"rewardThreshold" binding:"required,gt=0"`
	RewardAmount         float64 `json:"rewardAmount" binding:"required,gt=0"`
	BirthdayDiscountRate float64 `json:"birthdayDiscountRate" binding:"min=0,max=1"`
	BirthdayDiscountDays int     `json:"birthdayDiscountDays" binding:"min=0"`
	IsActive             bool    `json:"isActive"`
}

// CreateProgram registers a loyalty program. Activating it deactivates
// every other program so at most one row is active.
func (lc *LoyaltyController) CreateProgram(c *gin.Context) {
	var input CreateProgramInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	program := models.LoyaltyProgram{
		Name:                 input.Name,
		Description:          input.Description,
		PointsPerBooking:     input.PointsPerBooking,
		PointsPerDollar:      input.PointsPerDollar,
		RewardThreshold:      input.RewardThreshold,
		RewardAmount:         input.RewardAmount,
		BirthdayDiscountRate: input.BirthdayDiscountRate,
		BirthdayDiscountDays: input.BirthdayDiscountDays,
		IsActive:             input.IsActive,
	}

	err := lc.DB.Transaction(func(tx *gorm.DB) error {
		if program.IsActive {
			if err := tx.Model(&models.LoyaltyProgram{}).
				Where("is_active = ?", true).
				Update("is_active", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(&program).Error
	})
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create program")
		return
	}

	c.JSON(http.StatusCreated, program)
}

func (lc *LoyaltyController) ListPrograms(c *gin.Context) {
	var programs []models.LoyaltyProgram
	if err := lc.DB.Order("created_at desc").Find(&programs).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve programs")
		return
	}
	c.JSON(http.StatusOK, programs)
}

// ActivateProgram flips the single-active switch to the given program.
func (lc *LoyaltyController) ActivateProgram(c *gin.Context) {
	programUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid program ID format")
		return
	}

	err = lc.DB.Transaction(func(tx *gorm.DB) error {
		var program models.LoyaltyProgram
		if err := tx.First(&program, "id = ?", programUUID).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.LoyaltyProgram{}).
			Where("is_active = ?", true).
			Update("is_active", false).Error; err != nil {
			return err
		}
		return tx.Model(&program).Update("is_active", true).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Program not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to activate program")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Program activated"})
}

// MyPoints returns (and lazily creates) the customer's ledger.
func (lc *LoyaltyController) MyPoints(c *gin.Context) {
	customer, ok := lc.currentCustomer(c)
	if !ok {
		return
	}

	record, err := lc.Loyalty.EnsureCustomerRecord(customer.Email, customer.Name, customer.Phone)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load loyalty record")
		return
	}

	var transactions []models.PointTransaction
	lc.DB.Where("customer_email = ?", record.CustomerEmail).
		Order("created_at desc").Limit(20).
		Find(&transactions)

	c.JSON(http.StatusOK, gin.H{
		"loyalty":      record,
		"transactions": transactions,
	})
}

// Redeem converts threshold points into the program reward.
func (lc *LoyaltyController) Redeem(c *gin.Context) {
	customer, ok := lc.currentCustomer(c)
	if !ok {
		return
	}

	result, err := lc.Loyalty.Redeem(customer.Email)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoActiveProgram):
			utils.RespondWithError(c, http.StatusBadRequest, "No active loyalty program")
		case errors.Is(err, services.ErrInsufficientPoints):
			utils.RespondWithError(c, http.StatusBadRequest, "Insufficient points for redemption")
		case errors.Is(err, services.ErrNotFound):
			utils.RespondWithError(c, http.StatusNotFound, "Loyalty record not found")
		default:
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to redeem points")
		}
		return
	}

	event := models.AnalyticsEvent{Type: "points_redeemed", Metadata: models.JSONB{
		"email":  customer.Email,
		"reward": result.RewardAmount,
	}}
	if err := lc.DB.Create(&event).Error; err != nil {
		log.Printf("Failed to record redemption event: %v", err)
	}

	c.JSON(http.StatusOK, result)
}

// BirthdayDiscount reports whether the customer's birthday window is open.
func (lc *LoyaltyController) BirthdayDiscount(c *gin.Context) {
	customer, ok := lc.currentCustomer(c)
	if !ok {
		return
	}

	if customer.DateOfBirth == nil {
		utils.RespondWithError(c, http.StatusBadRequest, "No date of birth on file")
		return
	}

	program, err := lc.Loyalty.ActiveProgram()
	if err != nil {
		if errors.Is(err, services.ErrNoActiveProgram) {
			utils.RespondWithError(c, http.StatusBadRequest, "No active loyalty program")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load program")
		}
		return
	}

	eligibility := services.CheckBirthdayEligibility(*customer.DateOfBirth, program, time.Now())
	c.JSON(http.StatusOK, eligibility)
}

func (lc *LoyaltyController) currentCustomer(c *gin.Context) (*models.Customer, bool) {
	customerID, exists := c.Get("principalId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "Principal not found in context")
		return nil, false
	}

	var customer models.Customer
	if err := lc.DB.First(&customer, "id = ?", customerID).Error; err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, "Customer not found")
		return nil, false
	}
	return &customer, true
}
