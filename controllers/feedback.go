package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"salonbook-backend/models"
	"salonbook-backend/utils"
)

type FeedbackController struct {
	DB *gorm.DB
}

func NewFeedbackController(db *gorm.DB) *FeedbackController {
	return &FeedbackController{DB: db}
}

type CreateFeedbackInput struct {
	BookingID     *uuid.UUID `json:"bookingId"`
	CustomerName  string     `json:"customerName" binding:"required"`
	CustomerEmail string     `json:"customerEmail" binding:"required,email"`
	Rating        int        `json:"rating" binding:"required,min=1,max=5"`
	Comment       string     `json:"comment"`
}

func (fc *FeedbackController) Create(c *gin.Context) {
	var input CreateFeedbackInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.BookingID != nil {
		var booking models.Booking
		err := fc.DB.First(&booking, "id = ?", *input.BookingID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.RespondWithError(c, http.StatusNotFound, "Booking not found")
			} else {
				utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			}
			return
		}
	}

	feedback := models.Feedback{
		BookingID:     input.BookingID,
		CustomerName:  input.CustomerName,
		CustomerEmail: utils.NormalizeEmail(input.CustomerEmail),
		Rating:        input.Rating,
		Comment:       input.Comment,
	}
	if err := fc.DB.Create(&feedback).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to save feedback")
		return
	}

	c.JSON(http.StatusCreated, feedback)
}

func (fc *FeedbackController) List(c *gin.Context) {
	query := fc.DB.Model(&models.Feedback{})

	if rating := c.Query("rating"); rating != "" {
		query = query.Where("rating = ?", rating)
	}

	var total int64
	query.Count(&total)

	page, limit, offset := utils.Pagination(c)

	var feedback []models.Feedback
	if err := query.Order("created_at desc").Limit(limit).Offset(offset).Find(&feedback).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve feedback")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"feedback": feedback,
		"page":     page,
		"limit":    limit,
		"total":    total,
	})
}

// Publish toggles whether a feedback entry appears on the public site.
func (fc *FeedbackController) Publish(c *gin.Context) {
	feedbackUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid feedback ID format")
		return
	}

	var input struct {
		IsPublished bool `json:"isPublished"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	result := fc.DB.Model(&models.Feedback{}).
		Where("id = ?", feedbackUUID).
		Update("is_published", input.IsPublished)
	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update feedback")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Feedback not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Feedback updated"})
}
