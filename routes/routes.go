package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Skarath13/bloom-sub003/handlers"
	"github.com/Skarath13/bloom-sub003/middleware"
)

// HandlerBundle groups the handlers the router wires up.
type HandlerBundle struct {
	Availability *handlers.AvailabilityHandler
	Appointments *handlers.AppointmentHandler
	NoShowFees   *handlers.NoShowFeeHandler
	Cron         *handlers.CronHandler
	Admin        *handlers.AdminHandler
}

// RegisterAvailabilityRoutes registers the read-only slot query.
func RegisterAvailabilityRoutes(r *gin.Engine, hb *HandlerBundle) {
	r.GET("/api/availability", hb.Availability.GetAvailability)
}

// RegisterAppointmentRoutes registers booking and status-transition endpoints.
func RegisterAppointmentRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/appointments")
	{
		api.POST("", hb.Appointments.CreateAppointment)
		api.GET("/:id", hb.Appointments.GetAppointment)
		api.PATCH("/:id/confirm", hb.Appointments.Confirm)
		api.PATCH("/:id/cancel", hb.Appointments.Cancel)
		api.PATCH("/:id/no-show", hb.Appointments.MarkNoShow)
		api.PATCH("/:id/complete", hb.Appointments.Complete)
		api.POST("/:id/no-show-fee", hb.NoShowFees.ChargeNoShowFee)
	}
}

// RegisterCronRoutes registers the sweep triggers, gated by the shared secret.
func RegisterCronRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/cron")
	{
		api.Use(middleware.CronAuthMiddleware())
		api.POST("/reminders", hb.Cron.RunReminderSweep)
		api.POST("/reconcile", hb.Cron.RunReconciliation)
	}
}

// RegisterAdminRoutes registers schedule and time-block management.
func RegisterAdminRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/admin")
	{
		api.PUT("/schedules", hb.Admin.UpsertWorkingSchedule)
		api.POST("/time-blocks", hb.Admin.CreateTimeBlock)
		api.DELETE("/time-blocks/:id", hb.Admin.DeleteTimeBlock)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// SetupRoutes applies CORS and registers every route group.
func SetupRoutes(r *gin.Engine, hb *HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", middleware.CronSecretHeader},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterAvailabilityRoutes(r, hb)
	RegisterAppointmentRoutes(r, hb)
	RegisterCronRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
	RegisterHealthRoute(r)
}
