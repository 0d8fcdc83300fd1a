package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"medibook/handlers"
	"medibook/middleware"
)

// HandlerBundle groups the handlers wired in main.
type HandlerBundle struct {
	Appointments *handlers.AppointmentHandler
	Schedules    *handlers.ScheduleHandler
	Ratings      *handlers.RatingHandler
	Doctors      *handlers.DoctorHandler
}

// RegisterAppointmentRoutes sets up the booking lifecycle endpoints.
func RegisterAppointmentRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/appointments")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.POST("", hb.Appointments.Book)
		api.GET("/:id", hb.Appointments.Get)
		api.GET("/user/:id", hb.Appointments.ListForUser)
		api.GET("/doctor/:id", hb.Appointments.ListForDoctor)
		api.PUT("/:id/cancel", hb.Appointments.Cancel)
		api.POST("/sweep", hb.Appointments.RunSweep)

		// Decision endpoints require the doctor role.
		doctor := api.Group("")
		doctor.Use(middleware.RequireRole("doctor"))
		doctor.PUT("/:id/approve", hb.Appointments.Approve)
		doctor.PUT("/:id/reject", hb.Appointments.Reject)
	}
}

// RegisterDoctorRoutes sets up the doctor profile, schedule and rating
// endpoints.
func RegisterDoctorRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/doctors")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.GET("/:id", hb.Doctors.Get)
		api.GET("/:id/schedule", hb.Schedules.Get)
		api.GET("/:id/slots", hb.Schedules.Slots)
		api.GET("/:id/ratings", hb.Ratings.ListForDoctor)

		protected := api.Group("")
		protected.Use(middleware.RequireRole("doctor"))
		protected.PUT("/:id/schedule", hb.Schedules.Update)
	}
}

// RegisterRatingRoutes sets up the rating ledger endpoints.
func RegisterRatingRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/ratings")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.POST("", hb.Ratings.Submit)
		api.POST("/:appointmentId/skip", hb.Ratings.Skip)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm medibook"})
	})
}

// RegisterRoutes wires CORS and all endpoint groups onto the router.
func RegisterRoutes(r *gin.Engine, hb *HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterAppointmentRoutes(r, hb)
	RegisterDoctorRoutes(r, hb)
	RegisterRatingRoutes(r, hb)
}
