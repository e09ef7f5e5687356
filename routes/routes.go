package routes

import (
	"net/http"
	"time"

	"carematch/handlers"
	"carematch/middleware"
	"carematch/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterMatchingRoutes registers the matching pipeline endpoints.
func RegisterMatchingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/therapists")
	{
		api.GET("/match", hb.MatchTherapistsHandler)
		api.POST("/select", hb.SelectTherapistHandler)
		api.POST("/assign", hb.AssignTherapistHandler)
	}
}

// RegisterTherapistRoutes registers the therapist directory endpoints.
func RegisterTherapistRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/therapists")
	{
		api.GET("/search", hb.SearchTherapistsHandler)
		api.GET("/available-states", hb.AvailableStatesHandler)
		api.GET("/slots", hb.TherapistSlotsHandler)
	}
}

// RegisterAppointmentRoutes registers the scheduling callback endpoints.
func RegisterAppointmentRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/appointments")
	{
		api.POST("/sync", hb.SyncAppointmentHandler)
	}
}

// RegisterAdminRoutes sets up endpoints for roster sync and diagnostics.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	adminGroup := r.Group("/api/admin")
	{
		adminGroup.Use(middleware.AdminAuthMiddleware())
		adminGroup.POST("/super-sync", hb.SuperSyncHandler)
		adminGroup.POST("/refresh-therapists", hb.RefreshTherapistsHandler)
		adminGroup.GET("/sync-status", hb.SyncStatusHandler)
		adminGroup.POST("/test-matching", hb.TestMatchingHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "services": utils.GetHealthStatus()})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterMatchingRoutes(r, hb)
	RegisterTherapistRoutes(r, hb)
	RegisterAppointmentRoutes(r, hb)
	RegisterHealthRoute(r)
	RegisterAdminRoutes(r, hb)
}
