package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/renttime/renttime-server/internal/container"
	"github.com/renttime/renttime-server/internal/handlers"
	"github.com/renttime/renttime-server/internal/middleware"
)

// SetupRoutes configures all routes with the dependency container
func SetupRoutes(container *container.Container) *gin.Engine {
	if container.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     container.Config.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	// Add middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(container.Logger))
	r.Use(middleware.ErrorHandler(container.Logger))
	r.Use(gin.Recovery())

	api := r.Group("/api")
	{
		// Health check
		api.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status":  "OK",
				"service": "renttime-api",
			})
		})

		// Public routes
		api.POST("/users", handlers.SyncUser(container.UserService))
		api.POST("/posts", handlers.CreateListing(container.ListingService))
		api.GET("/posts", handlers.SearchListings(container.ListingService))
		api.GET("/posts/:id", handlers.GetListing(container.ListingService))
	}

	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(container.Verifier, container.Logger))
	{
		protected.PATCH("/posts/:id", handlers.UpdateListing(container.ListingService))
		protected.DELETE("/posts/:id", handlers.DeleteListing(container.ListingService))
		protected.GET("/my-posts", handlers.MyListings(container.ListingService))

		protected.POST("/bookings", handlers.CreateBooking(container.BookingService))
		protected.GET("/bookings/received", handlers.ReceivedBookings(container.BookingService))
		protected.GET("/bookings/sent", handlers.SentBookings(container.BookingService))
		protected.PATCH("/bookings/:id/status", handlers.UpdateBookingStatus(container.BookingService))
		protected.DELETE("/bookings/:id", handlers.CancelBooking(container.BookingService))
		protected.GET("/bookings/check/:postId", handlers.CheckBookingStatus(container.BookingService))

		protected.POST("/saved/:postId", handlers.SavePost(container.UserService))
		protected.DELETE("/saved/:postId", handlers.UnsavePost(container.UserService))
		protected.GET("/saved", handlers.SavedPosts(container.UserService))
	}

	return r
}
