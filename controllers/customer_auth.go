package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"salonbook-backend/models"
	"salonbook-backend/services"
	"salonbook-backend/utils"
)

// CustomerAuthController handles customer registration, login, OAuth
// exchange and password resets.
type CustomerAuthController struct {
	DB       *gorm.DB
	Notifier *services.Notifier
}

func NewCustomerAuthController(db *gorm.DB, notifier *services.Notifier) *CustomerAuthController {
	return &CustomerAuthController{DB: db, Notifier: notifier}
}

type RegisterCustomerInput struct {
	Email       string     `json:"email" binding:"required,email"`
	Name        string     `json:"name" binding:"required"`
	Phone       string     `json:"phone"`
	Password    string     `json:"password" binding:"required,min=8"`
	DateOfBirth *time.Time `json:"dateOfBirth"`
}

type ForgotPasswordInput struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordInput struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

func (cc *CustomerAuthController) Register(c *gin.Context) {
	var input RegisterCustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	email := utils.NormalizeEmail(input.Email)

	var existing models.Customer
	result := cc.DB.Where("email = ?", email).First(&existing)
	if result.Error == nil {
		utils.RespondWithError(c, http.StatusConflict, "Email already registered")
		return
	} else if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	customer := models.Customer{
		Email:       email,
		Name:        input.Name,
		Phone:       input.Phone,
		Password:    input.Password, // hashed in BeforeCreate hook
		DateOfBirth: input.DateOfBirth,
		IsActive:    true,
	}
	if err := cc.DB.Create(&customer).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create customer")
		return
	}

	token, err := utils.GenerateToken(customer.ID.String(), utils.PrincipalCustomer, nil)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Registration successful",
		"token":   token,
		"customer": gin.H{
			"id":    customer.ID,
			"email": customer.Email,
			"name":  customer.Name,
		},
	})
}

func (cc *CustomerAuthController) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	var customer models.Customer
	err := cc.DB.Where("email = ? AND is_active = ?", utils.NormalizeEmail(input.Email), true).
		First(&customer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if customer.Password == "" || !utils.CheckPasswordHash(input.Password, customer.Password) {
		utils.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := utils.GenerateToken(customer.ID.String(), utils.PrincipalCustomer, nil)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	now := time.Now()
	cc.DB.Model(&customer).Update("last_login", &now)

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"customer": gin.H{
			"id":    customer.ID,
			"email": customer.Email,
			"name":  customer.Name,
		},
	})
}

// GoogleLogin exchanges a provider-verified profile for a customer token,
// creating the account on first sight. Verifying the Google ID token is
// the API gateway's job; this endpoint trusts its payload.
func (cc *CustomerAuthController) GoogleLogin(c *gin.Context) {
	var profile utils.OAuthProfile
	if err := c.ShouldBindJSON(&profile); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid profile: "+err.Error())
		return
	}

	email, name, googleID, err := utils.ExchangeOAuthProfile(profile)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	var customer models.Customer
	err = cc.DB.Where("email = ?", email).First(&customer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		customer = models.Customer{
			Email:    email,
			Name:     name,
			GoogleID: googleID,
			IsActive: true,
		}
		if err := cc.DB.Create(&customer).Error; err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create customer")
			return
		}
	} else if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	} else if customer.GoogleID == "" {
		cc.DB.Model(&customer).Update("google_id", googleID)
	}

	token, err := utils.GenerateToken(customer.ID.String(), utils.PrincipalCustomer, nil)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	now := time.Now()
	cc.DB.Model(&customer).Update("last_login", &now)

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"customer": gin.H{
			"id":    customer.ID,
			"email": customer.Email,
			"name":  customer.Name,
		},
	})
}

// ForgotPassword issues a reset token and notifies the customer. The
// response is identical whether or not the account exists.
func (cc *CustomerAuthController) ForgotPassword(c *gin.Context) {
	var input ForgotPasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	var customer models.Customer
	err := cc.DB.Where("email = ? AND is_active = ?", utils.NormalizeEmail(input.Email), true).
		First(&customer).Error
	if err == nil {
		resetToken := uuid.New().String()
		expiry := time.Now().Add(time.Hour)
		cc.DB.Model(&customer).Updates(map[string]interface{}{
			"reset_token":        resetToken,
			"reset_token_expiry": &expiry,
		})

		if cc.Notifier != nil {
			message := fmt.Sprintf("Hi %s, use code %s within the next hour to reset your password.",
				customer.Name, resetToken)
			cc.Notifier.Send("password_reset", customer.Email, customer.Phone, message)
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "If the account exists, a reset code has been sent"})
}

func (cc *CustomerAuthController) ResetPassword(c *gin.Context) {
	var input ResetPasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var customer models.Customer
	err := cc.DB.Where("reset_token = ? AND reset_token_expiry > ?", input.Token, time.Now()).
		First(&customer).Error
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid or expired reset code")
		return
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update password")
		return
	}

	if err := cc.DB.Model(&customer).Updates(map[string]interface{}{
		"password":           hashed,
		"reset_token":        "",
		"reset_token_expiry": nil,
	}).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update password")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}

// Me returns the authenticated customer's profile.
func (cc *CustomerAuthController) Me(c *gin.Context) {
	customerID, exists := c.Get("principalId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "Principal not found in context")
		return
	}

	var customer models.Customer
	if err := cc.DB.First(&customer, "id = ?", customerID).Error; err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, "Customer not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"customer": customer})
}
