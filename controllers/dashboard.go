package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"salonbook-backend/models"
	"salonbook-backend/utils"
)

type DashboardController struct {
	DB *gorm.DB
}

func NewDashboardController(db *gorm.DB) *DashboardController {
	return &DashboardController{DB: db}
}

type TopService struct {
	Name     string  `json:"name"`
	Bookings int     `json:"bookings"`
	Revenue  float64 `json:"revenue"`
}

type UpcomingBirthday struct {
	Name string `json:"name"`
	Date string `json:"date"` // MM-DD
}

// Overview aggregates booking, revenue, loyalty and feedback counters for
// the staff dashboard.
func (dc *DashboardController) Overview(c *gin.Context) {
	now := time.Now()
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var totalBookings int64
	dc.DB.Model(&models.Booking{}).Count(&totalBookings)

	var pendingBookings int64
	dc.DB.Model(&models.Booking{}).
		Where("status = ?", models.BookingStatusPending).
		Count(&pendingBookings)

	var todaysBookings int64
	dc.DB.Model(&models.Booking{}).
		Where("booking_date = ? AND status IN ?", now.Format(utils.DateLayout),
			[]string{models.BookingStatusPending, models.BookingStatusConfirmed}).
		Count(&todaysBookings)

	// Revenue counts completed bookings only.
	var monthlyRevenue float64
	dc.DB.Model(&models.Booking{}).
		Where("status = ? AND booking_date >= ?", models.BookingStatusCompleted,
			firstOfMonth.Format(utils.DateLayout)).
		Select("COALESCE(SUM(total_price), 0)").Scan(&monthlyRevenue)

	var totalCustomers int64
	dc.DB.Model(&models.CustomerLoyalty{}).Count(&totalCustomers)

	var topServices []TopService
	dc.DB.Raw(`
        SELECT s.name, COUNT(b.id) AS bookings, COALESCE(SUM(b.total_price), 0) AS revenue
        FROM bookings b
        JOIN services s ON s.id = b.service_id
        WHERE b.status = ?
        GROUP BY s.name
        ORDER BY bookings DESC
        LIMIT 5
    `, models.BookingStatusCompleted).Scan(&topServices)

	var averageRating float64
	dc.DB.Model(&models.Feedback{}).
		Select("COALESCE(AVG(rating), 0)").Scan(&averageRating)

	// Registered customers with a birthday still ahead this year.
	var upcomingBirthdays []UpcomingBirthday
	dc.DB.Raw(`
        SELECT name, TO_CHAR(date_of_birth, 'MM-DD') AS date FROM customers
        WHERE date_of_birth IS NOT NULL AND is_active = ?
        AND (
            (EXTRACT(MONTH FROM date_of_birth) > ?) OR
            (EXTRACT(MONTH FROM date_of_birth) = ? AND EXTRACT(DAY FROM date_of_birth) >= ?)
        )
        ORDER BY EXTRACT(MONTH FROM date_of_birth), EXTRACT(DAY FROM date_of_birth)
        LIMIT 7
    `, true, int(now.Month()), int(now.Month()), now.Day()).Scan(&upcomingBirthdays)

	c.JSON(http.StatusOK, gin.H{
		"totalBookings":     totalBookings,
		"pendingBookings":   pendingBookings,
		"todaysBookings":    todaysBookings,
		"monthlyRevenue":    monthlyRevenue,
		"totalCustomers":    totalCustomers,
		"topServices":       topServices,
		"averageRating":     averageRating,
		"upcomingBirthdays": upcomingBirthdays,
	})
}

// Events lists raw analytics events for export, newest first.
func (dc *DashboardController) Events(c *gin.Context) {
	query := dc.DB.Model(&models.AnalyticsEvent{})
	if eventType := c.Query("type"); eventType != "" {
		query = query.Where("type = ?", eventType)
	}

	var total int64
	query.Count(&total)

	page, limit, offset := utils.Pagination(c)

	var events []models.AnalyticsEvent
	if err := query.Order("created_at desc").Limit(limit).Offset(offset).Find(&events).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve events")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"events": events,
		"page":   page,
		"limit":  limit,
		"total":  total,
	})
}
