package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"clinic-appointments-server/internal/cache"
	"clinic-appointments-server/internal/handlers"
	"clinic-appointments-server/internal/service"
	"clinic-appointments-server/internal/store"
)

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, slotStore store.SlotStore, availabilityCache *cache.AvailabilityCache, logger *zap.Logger) {
	engine := service.NewReservationEngine(slotStore, availabilityCache, logger)
	query := service.NewAvailabilityQuery(slotStore, availabilityCache, logger)
	appointmentHandler := handlers.NewAppointmentHandler(engine, query, logger)

	api := router.Group("/api/v1")
	{
		appointmentRoutes := api.Group("/appointments")
		{
			appointmentRoutes.GET("", appointmentHandler.GetAllSlots)
			appointmentRoutes.POST("", appointmentHandler.CreateSlot)
			appointmentRoutes.GET("/available", appointmentHandler.GetAvailableSlots)
			appointmentRoutes.GET("/user/:userId", appointmentHandler.GetSlotsForUser)
			appointmentRoutes.GET("/user/:userId/upcoming", appointmentHandler.GetUpcomingForUser)
			appointmentRoutes.GET("/doctor/:doctorId/upcoming", appointmentHandler.GetUpcomingForDoctor)
			appointmentRoutes.GET("/doctor/:doctorId/date/:date", appointmentHandler.GetSlotsForDoctorOnDate)
			appointmentRoutes.GET("/:id", appointmentHandler.GetSlotByID)
			appointmentRoutes.GET("/:id/available", appointmentHandler.CheckSlotAvailability)
			appointmentRoutes.PUT("/:id", appointmentHandler.UpdateSlot)
			appointmentRoutes.PUT("/:id/reserve", appointmentHandler.ReserveSlot)
			appointmentRoutes.PATCH("/:id/cancel", appointmentHandler.CancelSlot)
			appointmentRoutes.DELETE("/:id", appointmentHandler.DeleteSlot)
		}
	}

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})
}
