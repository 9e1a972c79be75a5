package handlers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"clinic-appointments-server/internal/models"
	"clinic-appointments-server/internal/service"
	"clinic-appointments-server/internal/store"
	"clinic-appointments-server/internal/utils"
)

// AppointmentHandler handles appointment slot related requests.
type AppointmentHandler struct {
	Engine *service.ReservationEngine
	Query  *service.AvailabilityQuery
	Logger *zap.Logger
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(engine *service.ReservationEngine, query *service.AvailabilityQuery, logger *zap.Logger) *AppointmentHandler {
	return &AppointmentHandler{Engine: engine, Query: query, Logger: logger}
}

// CreateSlotRequest represents the request body for creating a slot.
type CreateSlotRequest struct {
	DoctorID  string           `json:"doctorId" binding:"required"`
	Date      models.Date      `json:"date" binding:"required"`
	StartTime models.TimeOfDay `json:"startTime" binding:"required"`
	EndTime   models.TimeOfDay `json:"endTime" binding:"required"`
}

// UpdateSlotRequest represents the request body for the administrative
// overwrite of a slot. The available flag is derived server-side and not
// accepted from the caller.
type UpdateSlotRequest struct {
	Date           models.Date       `json:"date" binding:"required"`
	StartTime      models.TimeOfDay  `json:"startTime" binding:"required"`
	EndTime        models.TimeOfDay  `json:"endTime" binding:"required"`
	Status         models.SlotStatus `json:"status" binding:"required"`
	OccupantUserID *string           `json:"occupantUserId"`
}

// ReserveSlotRequest represents the request body for reserving a slot.
type ReserveSlotRequest struct {
	UserID string `json:"userId" binding:"required"`
}

// CreateSlot handles registering a new bookable time block.
func (h *AppointmentHandler) CreateSlot(c *gin.Context) {
	var req CreateSlotRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	slot, err := h.Engine.Create(c.Request.Context(), req.DoctorID, req.Date, req.StartTime, req.EndTime)
	if err != nil {
		h.writeSlotError(c, err)
		return
	}

	utils.Created(c, "Appointment slot created successfully", slot)
}

// GetAllSlots handles listing every registered slot.
func (h *AppointmentHandler) GetAllSlots(c *gin.Context) {
	slots, err := h.Query.AllSlots(c.Request.Context())
	if err != nil {
		h.writeSlotError(c, err)
		return
	}
	if len(slots) == 0 {
		utils.NoContent(c)
		return
	}
	utils.Success(c, "Appointment slots fetched successfully", slots)
}

// GetSlotByID handles fetching a single slot by its ID.
func (h *AppointmentHandler) GetSlotByID(c *gin.Context) {
	slot, err := h.Engine.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeSlotError(c, err)
		return
	}
	utils.Success(c, "Appointment slot fetched successfully", slot)
}

// GetSlotsForUser handles listing the full reservation history of a user.
func (h *AppointmentHandler) GetSlotsForUser(c *gin.Context) {
	slots, err := h.Query.SlotsForUser(c.Request.Context(), c.Param("userId"))
	if err != nil {
		h.writeSlotError(c, err)
		return
	}
	if len(slots) == 0 {
		utils.NoContent(c)
		return
	}
	utils.Success(c, "Appointment slots fetched successfully", slots)
}

// GetUpcomingForUser handles listing a user's reservations from today on.
func (h *AppointmentHandler) GetUpcomingForUser(c *gin.Context) {
	today := models.DateOf(time.Now())
	slots, err := h.Query.UpcomingForUser(c.Request.Context(), c.Param("userId"), today)
	if err != nil {
		h.writeSlotError(c, err)
		return
	}
	if len(slots) == 0 {
		utils.NoContent(c)
		return
	}
	utils.Success(c, "Upcoming appointment slots fetched successfully", slots)
}

// GetUpcomingForDoctor handles listing a doctor's slots from today on.
func (h *AppointmentHandler) GetUpcomingForDoctor(c *gin.Context) {
	today := models.DateOf(time.Now())
	slots, err := h.Query.UpcomingForDoctor(c.Request.Context(), c.Param("doctorId"), today)
	if err != nil {
		h.writeSlotError(c, err)
		return
	}
	if len(slots) == 0 {
		utils.NoContent(c)
		return
	}
	utils.Success(c, "Upcoming appointment slots fetched successfully", slots)
}

// GetSlotsForDoctorOnDate handles listing all of a doctor's slots on a date.
func (h *AppointmentHandler) GetSlotsForDoctorOnDate(c *gin.Context) {
	date, err := models.ParseDate(c.Param("date"))
	if err != nil {
		utils.BadRequest(c, "Invalid date format, expected YYYY-MM-DD")
		return
	}

	slots, err := h.Query.SlotsForDoctorOnDate(c.Request.Context(), c.Param("doctorId"), date)
	if err != nil {
		h.writeSlotError(c, err)
		return
	}
	if len(slots) == 0 {
		utils.NoContent(c)
		return
	}
	utils.Success(c, "Appointment slots fetched successfully", slots)
}

// GetAvailableSlots handles listing the bookable slots of a doctor on a
// date, via the ?doctorId=&date= query parameters.
func (h *AppointmentHandler) GetAvailableSlots(c *gin.Context) {
	doctorID := c.Query("doctorId")
	if doctorID == "" {
		utils.BadRequest(c, "doctorId query parameter is required")
		return
	}
	date, err := models.ParseDate(c.Query("date"))
	if err != nil {
		utils.BadRequest(c, "Invalid date format, expected YYYY-MM-DD")
		return
	}

	slots, err := h.Query.AvailableSlotsForDoctorOnDate(c.Request.Context(), doctorID, date)
	if err != nil {
		h.writeSlotError(c, err)
		return
	}
	if len(slots) == 0 {
		utils.NoContent(c)
		return
	}
	utils.Success(c, "Available appointment slots fetched successfully", slots)
}

// CheckSlotAvailability handles checking whether one slot can be reserved.
func (h *AppointmentHandler) CheckSlotAvailability(c *gin.Context) {
	available, err := h.Engine.IsAvailable(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeSlotError(c, err)
		return
	}
	// Wrapped in an object: a bare false would be dropped by the
	// envelope's omitempty.
	utils.Success(c, "Availability checked successfully", gin.H{"available": available})
}

// UpdateSlot handles the administrative overwrite of a slot's fields.
func (h *AppointmentHandler) UpdateSlot(c *gin.Context) {
	var req UpdateSlotRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	slot, err := h.Engine.Update(c.Request.Context(), c.Param("id"), service.SlotUpdate{
		Date:           req.Date,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		Status:         req.Status,
		OccupantUserID: req.OccupantUserID,
	})
	if err != nil {
		h.writeSlotError(c, err)
		return
	}

	utils.Success(c, "Appointment slot updated successfully", slot)
}

// ReserveSlot handles booking an available slot for a user.
func (h *AppointmentHandler) ReserveSlot(c *gin.Context) {
	var req ReserveSlotRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	slot, err := h.Engine.Reserve(c.Request.Context(), c.Param("id"), req.UserID)
	if err != nil {
		h.writeSlotError(c, err)
		return
	}

	utils.Success(c, "Appointment slot reserved successfully", slot)
}

// CancelSlot handles releasing a slot back to available.
func (h *AppointmentHandler) CancelSlot(c *gin.Context) {
	slot, err := h.Engine.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeSlotError(c, err)
		return
	}
	utils.Success(c, "Appointment slot cancelled successfully", slot)
}

// DeleteSlot handles removing a slot permanently.
func (h *AppointmentHandler) DeleteSlot(c *gin.Context) {
	if err := h.Engine.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeSlotError(c, err)
		return
	}
	utils.NoContent(c)
}

// writeSlotError maps service and store errors to HTTP responses.
func (h *AppointmentHandler) writeSlotError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrSlotNotFound):
		utils.NotFound(c, "Appointment slot not found")
	case errors.Is(err, store.ErrSlotTaken):
		utils.Conflict(c, "Appointment slot is already confirmed")
	case errors.Is(err, service.ErrInvalidTimeWindow), errors.Is(err, service.ErrInvalidSlotState):
		utils.BadRequest(c, err.Error())
	default:
		h.Logger.Error("storage failure", zap.Error(err))
		utils.InternalServerError(c, "Storage failure")
	}
}
