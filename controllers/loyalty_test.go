package controllers_test

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"salonbook-backend/models"
)

func seedActiveProgram(t *testing.T, db *gorm.DB) models.LoyaltyProgram {
	t.Helper()
	program := models.LoyaltyProgram{
		Name:                 "Standard",
		PointsPerBooking:     10,
		PointsPerDollar:      1,
		RewardThreshold:      100,
		RewardAmount:         10,
		BirthdayDiscountRate: 0.2,
		BirthdayDiscountDays: 7,
		IsActive:             true,
	}
	if err := db.Create(&program).Error; err != nil {
		t.Fatalf("seed program: %v", err)
	}
	return program
}

func registerCustomer(t *testing.T, r *gin.Engine, email string) string {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/auth/customer/register", "", map[string]string{
		"email":    email,
		"name":     "Jane Doe",
		"password": "correcthorse",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return resp.Token
}

func TestLoyaltyRedeemFlow(t *testing.T) {
	r, db := setupRouter(t)
	seedActiveProgram(t, db)

	token := registerCustomer(t, r, "jane@example.com")

	// Nothing earned yet: points endpoint lazily creates the ledger.
	w := doJSON(t, r, http.MethodGet, "/api/loyalty/me", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("my points: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	// Redeeming with zero points fails.
	w = doJSON(t, r, http.MethodPost, "/api/loyalty/redeem", token, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for insufficient points, got %d", w.Code)
	}

	db.Model(&models.CustomerLoyalty{}).
		Where("customer_email = ?", "jane@example.com").
		Updates(map[string]interface{}{"total_points": 120, "lifetime_points": 120})

	w = doJSON(t, r, http.MethodPost, "/api/loyalty/redeem", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("redeem: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var result struct {
		RewardAmount    float64 `json:"rewardAmount"`
		RemainingPoints int     `json:"remainingPoints"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.RewardAmount != 10 || result.RemainingPoints != 20 {
		t.Fatalf("expected {10, 20}, got %+v", result)
	}
}

func TestBirthdayDiscountEndpoint(t *testing.T) {
	r, db := setupRouter(t)
	seedActiveProgram(t, db)

	token := registerCustomer(t, r, "jane@example.com")

	// No date of birth on file.
	w := doJSON(t, r, http.MethodGet, "/api/loyalty/birthday-discount", token, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without date of birth, got %d", w.Code)
	}

	dob := time.Now().AddDate(-30, 0, 0) // birthday today
	db.Model(&models.Customer{}).
		Where("email = ?", "jane@example.com").
		Update("date_of_birth", &dob)

	w = doJSON(t, r, http.MethodGet, "/api/loyalty/birthday-discount", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var result struct {
		Eligible          bool    `json:"eligible"`
		DaysUntilBirthday int     `json:"daysUntilBirthday"`
		DiscountRate      float64 `json:"discountRate"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !result.Eligible {
		t.Fatalf("expected eligible, got %+v", result)
	}
	if result.DiscountRate != 0.2 {
		t.Fatalf("expected discount rate 0.2, got %v", result.DiscountRate)
	}
}

func TestProgramActivation_SingleActive(t *testing.T) {
	r, db := setupRouter(t)
	first := seedActiveProgram(t, db)

	admin := staffToken(t, "admin")
	w := doJSON(t, r, http.MethodPost, "/api/loyalty/programs", admin, map[string]interface{}{
		"name":            "Premium",
		"rewardThreshold": 50,
		"rewardAmount":    5,
		"isActive":        true,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create program: expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var count int64
	db.Model(&models.LoyaltyProgram{}).Where("is_active = ?", true).Count(&count)
	if count != 1 {
		t.Fatalf("expected exactly one active program, got %d", count)
	}

	var old models.LoyaltyProgram
	db.First(&old, "id = ?", first.ID)
	if old.IsActive {
		t.Fatal("expected first program deactivated")
	}
}
