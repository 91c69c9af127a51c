// controllers/service.go
package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"salonbook-backend/models"
	"salonbook-backend/services"
	"salonbook-backend/utils"
)

type ServiceController struct {
	DB      *gorm.DB
	Pricing *services.PricingService
}

func NewServiceController(db *gorm.DB, pricing *services.PricingService) *ServiceController {
	return &ServiceController{DB: db, Pricing: pricing}
}

// CreateServiceInput defines the expected JSON structure for creating a service
type CreateServiceInput struct {
	Name         string     `json:"name" binding:"required"`
	Description  string     `json:"description"`
	CategoryID   *uuid.UUID `json:"categoryId"`
	BasePrice    float64    `json:"basePrice" binding:"min=0"`
	BaseDuration int        `json:"baseDuration" binding:"required,gt=0"` // in minutes
}

// UpdateServiceInput defines the expected JSON structure for updating a service
type UpdateServiceInput struct {
	Name         *string    `json:"name"`
	Description  *string    `json:"description"`
	CategoryID   *uuid.UUID `json:"categoryId"`
	BasePrice    *float64   `json:"basePrice"`
	BaseDuration *int       `json:"baseDuration"`
	IsActive     *bool      `json:"isActive"`
}

type CreateVariantInput struct {
	Name             string  `json:"name" binding:"required"`
	Type             string  `json:"type" binding:"required,oneof=style duration addon intensity length"`
	PriceModifier    float64 `json:"priceModifier"`
	DurationModifier int     `json:"durationModifier"`
}

type UpdateVariantInput struct {
	Name             *string  `json:"name"`
	Type             *string  `json:"type"`
	PriceModifier    *float64 `json:"priceModifier"`
	DurationModifier *int     `json:"durationModifier"`
	IsActive         *bool    `json:"isActive"`
}

type QuoteInput struct {
	VariantIDs []uuid.UUID `json:"variantIds"`
}

// CreateService creates a new service in the catalog
func (sc *ServiceController) CreateService(c *gin.Context) {
	var input CreateServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	service := models.Service{
		Name:         input.Name,
		Description:  input.Description,
		CategoryID:   input.CategoryID,
		BasePrice:    input.BasePrice,
		BaseDuration: input.BaseDuration,
		IsActive:     true,
	}
	if err := sc.DB.Create(&service).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create service")
		return
	}

	c.JSON(http.StatusCreated, service)
}

// GetServices retrieves services, optionally filtered by category
func (sc *ServiceController) GetServices(c *gin.Context) {
	query := sc.DB.Where("is_active = ?", true).Preload("Variants", "is_active = ?", true)

	if categoryID := c.Query("categoryId"); categoryID != "" {
		categoryUUID, err := uuid.Parse(categoryID)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid category ID format")
			return
		}
		query = query.Where("category_id = ?", categoryUUID)
	}

	var serviceList []models.Service
	if err := query.Order("name asc").Find(&serviceList).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve services")
		return
	}

	c.JSON(http.StatusOK, serviceList)
}

// GetService retrieves a specific service with its variants
func (sc *ServiceController) GetService(c *gin.Context) {
	serviceUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid service ID format")
		return
	}

	var service models.Service
	err = sc.DB.Preload("Variants").First(&service, "id = ?", serviceUUID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Service not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, service)
}

// UpdateService updates an existing service
func (sc *ServiceController) UpdateService(c *gin.Context) {
	serviceUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid service ID format")
		return
	}

	var input UpdateServiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var service models.Service
	if err := sc.DB.First(&service, "id = ?", serviceUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Service not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Name != nil {
		service.Name = *input.Name
	}
	if input.Description != nil {
		service.Description = *input.Description
	}
	if input.CategoryID != nil {
		service.CategoryID = input.CategoryID
	}
	if input.BasePrice != nil {
		service.BasePrice = *input.BasePrice
	}
	if input.BaseDuration != nil {
		service.BaseDuration = *input.BaseDuration
	}
	if input.IsActive != nil {
		service.IsActive = *input.IsActive
	}

	if err := sc.DB.Save(&service).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update service")
		return
	}

	c.JSON(http.StatusOK, service)
}

// DeleteService removes a service and its variants
func (sc *ServiceController) DeleteService(c *gin.Context) {
	serviceUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid service ID format")
		return
	}

	result := sc.DB.Where("id = ?", serviceUUID).Delete(&models.Service{})
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete service")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Service not found")
		return
	}

	sc.DB.Where("service_id = ?", serviceUUID).Delete(&models.ServiceVariant{})

	c.JSON(http.StatusOK, gin.H{"message": "Service deleted successfully"})
}

// CreateVariant adds a variant to a service
func (sc *ServiceController) CreateVariant(c *gin.Context) {
	serviceUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid service ID format")
		return
	}

	var service models.Service
	if err := sc.DB.First(&service, "id = ?", serviceUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Service not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	var input CreateVariantInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	variant := models.ServiceVariant{
		ServiceID:        service.ID,
		Name:             input.Name,
		Type:             input.Type,
		PriceModifier:    input.PriceModifier,
		DurationModifier: input.DurationModifier,
		IsActive:         true,
	}
	if err := sc.DB.Create(&variant).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create variant")
		return
	}

	c.JSON(http.StatusCreated, variant)
}

// UpdateVariant updates a variant scoped to its owning service
func (sc *ServiceController) UpdateVariant(c *gin.Context) {
	serviceUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid service ID format")
		return
	}
	variantUUID, err := uuid.Parse(c.Param("variantId"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid variant ID format")
		return
	}

	var input UpdateVariantInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var variant models.ServiceVariant
	err = sc.DB.Where("service_id = ? AND id = ?", serviceUUID, variantUUID).First(&variant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Variant not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Name != nil {
		variant.Name = *input.Name
	}
	if input.Type != nil {
		variant.Type = *input.Type
	}
	if input.PriceModifier != nil {
		variant.PriceModifier = *input.PriceModifier
	}
	if input.DurationModifier != nil {
		variant.DurationModifier = *input.DurationModifier
	}
	if input.IsActive != nil {
		variant.IsActive = *input.IsActive
	}

	if err := sc.DB.Save(&variant).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update variant")
		return
	}

	c.JSON(http.StatusOK, variant)
}

// DeleteVariant removes a variant scoped to its owning service
func (sc *ServiceController) DeleteVariant(c *gin.Context) {
	serviceUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid service ID format")
		return
	}
	variantUUID, err := uuid.Parse(c.Param("variantId"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid variant ID format")
		return
	}

	result := sc.DB.Where("service_id = ? AND id = ?", serviceUUID, variantUUID).
		Delete(&models.ServiceVariant{})
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete variant")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Variant not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Variant deleted successfully"})
}

// Quote prices a service with selected variants so a client can render an
// itemized estimate before booking.
func (sc *ServiceController) Quote(c *gin.Context) {
	serviceUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid service ID format")
		return
	}

	var input QuoteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	quote, err := sc.Pricing.Quote(serviceUUID, input.VariantIDs)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Service not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to compute quote")
		}
		return
	}

	c.JSON(http.StatusOK, quote)
}
