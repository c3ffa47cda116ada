package routes

import (
	"net/http"
	"time"

	"parkly/database"
	"parkly/handlers"
	"parkly/middleware"
	"parkly/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterBookingRoutes registers the client-facing booking endpoints.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/bookings")
	{
		api.Use(middleware.IdentityMiddleware())
		api.POST("", hb.Booking.CreateBooking)
		api.POST("/quote", hb.Booking.Quote)
		api.POST("/confirm", hb.Booking.ConfirmQuote)
		api.GET("", hb.Booking.ListMyBookings)
		api.GET("/:id", hb.Booking.GetBooking)
		api.DELETE("/:id", hb.Booking.CancelBooking)
		api.POST("/:id/payment-intent", hb.Payment.CreatePaymentIntent)
	}
}

// RegisterCatalogRoutes registers facility, space and tariff endpoints.
func RegisterCatalogRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/facilities")
	{
		// Public discovery endpoints.
		api.GET("", hb.Catalog.ListFacilities)
		api.GET("/nearby", hb.Catalog.NearbyFacilities)
		api.GET("/:id", hb.Catalog.GetFacility)
		api.GET("/:id/spaces", hb.Catalog.ListSpaces)
		api.GET("/:id/tariffs", hb.Catalog.ListTariffs)
		api.GET("/:id/tariffs/resolve", hb.Catalog.ResolveTariff)

		// Administrative endpoints require an authenticated caller.
		admin := api.Group("")
		admin.Use(middleware.IdentityMiddleware())
		admin.POST("", hb.Catalog.CreateFacility)
		admin.POST("/import", hb.Catalog.ImportFacilities)
		admin.POST("/:id/spaces", hb.Catalog.CreateSpace)
		admin.POST("/:id/tariffs", hb.Catalog.CreateTariff)
		admin.GET("/:id/bookings", hb.Booking.ListFacilityBookings)
	}
}

// RegisterHealthRoute registers the health probe.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		status := utils.CheckHealth(database.MongoClient, utils.GetCacheClient())
		code := http.StatusOK
		if !status.Healthy() {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, status)
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterBookingRoutes(r, hb)
	RegisterCatalogRoutes(r, hb)
}
