package controllers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"salonbook-backend/models"
)

func TestQuoteEndpoint(t *testing.T) {
	r, db := setupRouter(t)
	service := seedCatalogService(t, db)

	v1 := models.ServiceVariant{
		ServiceID: service.ID, Name: "Gel Coating", Type: "addon",
		PriceModifier: 10, DurationModifier: 15, IsActive: true,
	}
	v2 := models.ServiceVariant{
		ServiceID: service.ID, Name: "Express", Type: "duration",
		PriceModifier: -10, DurationModifier: -30, IsActive: true,
	}
	if err := db.Create(&v1).Error; err != nil {
		t.Fatalf("seed variant: %v", err)
	}
	if err := db.Create(&v2).Error; err != nil {
		t.Fatalf("seed variant: %v", err)
	}

	path := fmt.Sprintf("/api/services/%s/quote", service.ID)
	w := doJSON(t, r, http.MethodPost, path, "", map[string]interface{}{
		"variantIds": []string{v1.ID.String(), v2.ID.String()},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var quote struct {
		TotalPrice    float64 `json:"totalPrice"`
		TotalDuration int     `json:"totalDuration"`
		BasePrice     float64 `json:"basePrice"`
		PriceDelta    float64 `json:"priceDelta"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &quote); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if quote.TotalPrice != 45 || quote.TotalDuration != 45 {
		t.Fatalf("expected 45/45, got %v/%v", quote.TotalPrice, quote.TotalDuration)
	}
	if quote.BasePrice != 45 || quote.PriceDelta != 0 {
		t.Fatalf("expected itemized breakdown, got base %v delta %v", quote.BasePrice, quote.PriceDelta)
	}
}

func TestCategoriesOrderedByDisplayOrder(t *testing.T) {
	r, db := setupRouter(t)

	for i, name := range []string{"Nails", "Hair", "Spa"} {
		category := models.ServiceCategory{Name: name, DisplayOrder: 3 - i, IsActive: true}
		if err := db.Create(&category).Error; err != nil {
			t.Fatalf("seed category: %v", err)
		}
	}

	w := doJSON(t, r, http.MethodGet, "/api/categories", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var categories []models.ServiceCategory
	if err := json.Unmarshal(w.Body.Bytes(), &categories); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(categories) != 3 {
		t.Fatalf("expected 3 categories, got %d", len(categories))
	}
	if categories[0].Name != "Spa" || categories[2].Name != "Nails" {
		t.Fatalf("expected display order Spa, Hair, Nails, got %v", categories)
	}
}
