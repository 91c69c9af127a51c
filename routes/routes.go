package routes

import (
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"salonbook-backend/config"
	"salonbook-backend/controllers"
	"salonbook-backend/services"
	"salonbook-backend/utils"
)

// SetupRouter wires controllers against the injected database handle and
// notifier. Nothing here owns the handle's lifecycle; main does.
func SetupRouter(db *gorm.DB, notifier *services.Notifier) *gin.Engine {
	pricing := services.NewPricingService(db)
	availability := services.NewAvailabilityService(db)
	loyalty := services.NewLoyaltyService(db)

	authController := controllers.NewAuthController(db)
	customerAuth := controllers.NewCustomerAuthController(db, notifier)
	categoryController := controllers.NewCategoryController(db)
	serviceController := controllers.NewServiceController(db, pricing)
	bookingController := controllers.NewBookingController(db, pricing, availability, loyalty, notifier)
	loyaltyController := controllers.NewLoyaltyController(db, loyalty)
	feedbackController := controllers.NewFeedbackController(db)
	dashboardController := controllers.NewDashboardController(db)
	staffController := controllers.NewStaffController(db)

	r := gin.Default()

	allowedOrigins := []string{"http://localhost:3000"}
	if env := os.Getenv("ALLOWED_ORIGINS"); env != "" {
		allowedOrigins = strings.Split(env, ",")
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(config.PerformanceLogger())

	auth := r.Group("/auth")
	{
		auth.POST("/register", authController.RegisterUser)
		auth.POST("/login", authController.LoginUser)
		auth.POST("/staff/login", authController.StaffLogin)

		customer := auth.Group("/customer")
		{
			customer.POST("/register", customerAuth.Register)
			customer.POST("/login", customerAuth.Login)
			customer.POST("/google", customerAuth.GoogleLogin)
			customer.POST("/forgot-password", customerAuth.ForgotPassword)
			customer.POST("/reset-password", customerAuth.ResetPassword)
		}

		auth.GET("/staff/me", utils.AuthMiddleware(utils.PrincipalStaff), authController.StaffMe)
		auth.GET("/customer/me", utils.AuthMiddleware(utils.PrincipalCustomer), customerAuth.Me)
	}

	// Public catalog, availability, booking creation and feedback.
	public := r.Group("/api")
	{
		public.GET("/categories", categoryController.List)
		public.GET("/services", serviceController.GetServices)
		public.GET("/services/:id", serviceController.GetService)
		public.POST("/services/:id/quote", serviceController.Quote)

		public.GET("/availability", bookingController.GetAvailability)
		public.GET("/availability/:date", bookingController.GetAvailabilityForDate)

		public.POST("/bookings", bookingController.Create)
		public.POST("/feedback", feedbackController.Create)
	}

	// Staff-facing management surface.
	staffAPI := r.Group("/api")
	staffAPI.Use(utils.AuthMiddleware(utils.PrincipalStaff, utils.PrincipalUser))
	{
		staffAPI.GET("/bookings", bookingController.List)
		staffAPI.GET("/bookings/:id", bookingController.Get)
		staffAPI.PUT("/bookings/:id/status", bookingController.UpdateStatus)

		staffAPI.POST("/categories", categoryController.Create)
		staffAPI.PUT("/categories/:id", categoryController.Update)
		staffAPI.DELETE("/categories/:id", categoryController.Delete)

		staffAPI.POST("/services", serviceController.CreateService)
		staffAPI.PUT("/services/:id", serviceController.UpdateService)
		staffAPI.DELETE("/services/:id", serviceController.DeleteService)
		staffAPI.POST("/services/:id/variants", serviceController.CreateVariant)
		staffAPI.PUT("/services/:id/variants/:variantId", serviceController.UpdateVariant)
		staffAPI.DELETE("/services/:id/variants/:variantId", serviceController.DeleteVariant)

		staffAPI.GET("/feedback", feedbackController.List)
		staffAPI.PUT("/feedback/:id/publish", feedbackController.Publish)

		staffAPI.GET("/loyalty/programs", loyaltyController.ListPrograms)

		staffAPI.GET("/dashboard", dashboardController.Overview)
		staffAPI.GET("/analytics/events", dashboardController.Events)
	}

	// Admin-only management.
	adminAPI := r.Group("/api")
	adminAPI.Use(utils.AuthMiddleware(utils.PrincipalStaff), utils.AdminOnly())
	{
		adminAPI.GET("/staff", staffController.List)
		adminAPI.POST("/staff", staffController.Create)
		adminAPI.PUT("/staff/:id", staffController.Update)
		adminAPI.DELETE("/staff/:id", staffController.Delete)

		adminAPI.POST("/loyalty/programs", loyaltyController.CreateProgram)
		adminAPI.PUT("/loyalty/programs/:id/activate", loyaltyController.ActivateProgram)
	}

	// Customer self-service.
	customerAPI := r.Group("/api")
	customerAPI.Use(utils.AuthMiddleware(utils.PrincipalCustomer))
	{
		customerAPI.GET("/loyalty/me", loyaltyController.MyPoints)
		customerAPI.POST("/loyalty/redeem", loyaltyController.Redeem)
		customerAPI.GET("/loyalty/birthday-discount", loyaltyController.BirthdayDiscount)
		customerAPI.PUT("/bookings/:id/cancel", bookingController.Cancel)
	}

	return r
}
