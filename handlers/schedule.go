package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"medibook/middleware"
	"medibook/models"
	"medibook/services/scheduling"
	"medibook/utils"
)

// ScheduleHandler exposes doctor weekly calendars and slot enumeration.
type ScheduleHandler struct {
	Svc scheduling.Service
}

func NewScheduleHandler(svc scheduling.Service) *ScheduleHandler {
	return &ScheduleHandler{Svc: svc}
}

func (h *ScheduleHandler) Get(c *gin.Context) {
	schedule, err := h.Svc.GetSchedule(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, schedule)
}

// Update replaces the submitted weekday windows on the doctor's own
// schedule.
func (h *ScheduleHandler) Update(c *gin.Context) {
	doctorID := c.Param("id")
	if doctorID != c.GetString(middleware.ContextUserID) {
		utils.JSONError(c, http.StatusForbidden, "Forbidden", "doctors may only edit their own schedule")
		return
	}

	var req struct {
		WeekSchedule        map[string]models.DaySchedule `json:"weekSchedule" binding:"required"`
		AppointmentDuration int                           `json:"appointmentDuration"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	if req.AppointmentDuration == 0 {
		req.AppointmentDuration = 30
	}

	schedule, err := h.Svc.UpdateSchedule(c.Request.Context(), doctorID, req.WeekSchedule, req.AppointmentDuration)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, schedule)
}

// Slots lists the open slot starts for a doctor on a date.
func (h *ScheduleHandler) Slots(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date query parameter is required"})
		return
	}

	slots, err := h.Svc.AvailableSlots(c.Request.Context(), c.Param("id"), date)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": date, "slots": slots})
}
