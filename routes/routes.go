package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"deskhive/handlers"
	"deskhive/middleware"
)

// RegisterDeskRoutes sets up the availability and hold/confirm endpoints.
func RegisterDeskRoutes(r *gin.Engine) {
	api := r.Group("/api")
	{
		api.Use(middleware.JWTAuthUserMiddleware())
		api.GET("/desks", handlers.GetDesks)
		api.POST("/desks/hold", handlers.CreateHold)
		api.DELETE("/desks/hold", handlers.ReleaseHold)
		api.GET("/hold/status/:desk_id/:slot_id", handlers.HoldStatus)
		api.POST("/desks/confirm", handlers.ConfirmBooking)
	}
}

// RegisterBookingRoutes sets up booking history and invoice endpoints.
func RegisterBookingRoutes(r *gin.Engine) {
	api := r.Group("/api/bookings")
	{
		api.Use(middleware.JWTAuthUserMiddleware())
		api.GET("", handlers.ListBookings)
		api.POST("/:id/cancel", handlers.CancelBooking)
		api.GET("/:id/invoice", handlers.GetInvoice)
	}
}

// RegisterAIRoutes registers AI endpoints.
func RegisterAIRoutes(r *gin.Engine) {
	api := r.Group("/api/ai")
	{
		api.Use(middleware.JWTAuthUserMiddleware())
		api.POST("/day-plan", handlers.GenerateDayPlan)
	}
}

// RegisterPublicRoutes registers endpoints that need no authentication.
func RegisterPublicRoutes(r *gin.Engine) {
	r.GET("/health", handlers.HealthCheck)
	r.GET("/api/master-data", handlers.GetMasterData)
}

// RegisterRealtimeRoutes registers the live availability stream. The
// websocket authenticates via a token query param inside the handler.
func RegisterRealtimeRoutes(r *gin.Engine) {
	r.GET("/ws", handlers.ServeWS)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterPublicRoutes(r)
	RegisterDeskRoutes(r)
	RegisterBookingRoutes(r)
	RegisterAIRoutes(r)
	RegisterRealtimeRoutes(r)
}
