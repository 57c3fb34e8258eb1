package routes

import (
	"net/http"
	"time"

	"glowbook/handlers"
	"glowbook/middleware"
	"glowbook/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterAvailabilityRoutes exposes the open slots for the booking form.
func RegisterAvailabilityRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/api/availability", hb.Availability.GetAvailableSlots)
}

// RegisterPaymentRoutes sets up the payment surface. The webhook is
// authenticated by its provider signature, not by session middleware.
func RegisterPaymentRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	paymentGroup := r.Group("/api/payments")
	{
		paymentGroup.POST("/initialize", hb.Payment.InitializePayment)
		paymentGroup.POST("/verify", hb.Payment.VerifyPayment)
		paymentGroup.POST("/webhook", hb.Payment.Webhook)
	}
}

// RegisterAdminRoutes sets up endpoints for admin operations.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	adminGroup := r.Group("/api/admin")
	{
		adminGroup.Use(middleware.AdminAuthMiddleware())
		adminGroup.GET("/blocked-dates", hb.Admin.ListBlockedDates)
		adminGroup.POST("/blocked-dates", hb.Admin.BlockDate)
		adminGroup.DELETE("/blocked-dates/:date", hb.Admin.UnblockDate)
		adminGroup.GET("/blocked-slots", hb.Admin.ListBlockedSlots)
		adminGroup.POST("/blocked-slots", hb.Admin.BlockSlot)
		adminGroup.DELETE("/blocked-slots", hb.Admin.UnblockSlot)
		adminGroup.GET("/bookings", hb.Admin.ListBookings)
		adminGroup.GET("/conflicts", hb.Admin.ListConflicts)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "health": utils.GetHealthStatus()})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "Stripe-Signature"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterAvailabilityRoutes(r, hb)
	RegisterPaymentRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
}
