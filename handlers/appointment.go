package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"medibook/middleware"
	"medibook/services/appointment"
	"medibook/services/lifecycle"
)

// AppointmentHandler exposes the booking lifecycle over HTTP.
type AppointmentHandler struct {
	Svc     appointment.Service
	Sweeper *lifecycle.Sweeper
	Logger  *zap.Logger
}

func NewAppointmentHandler(svc appointment.Service, sweeper *lifecycle.Sweeper, logger *zap.Logger) *AppointmentHandler {
	return &AppointmentHandler{Svc: svc, Sweeper: sweeper, Logger: logger}
}

// Book creates a pending appointment for the authenticated patient.
func (h *AppointmentHandler) Book(c *gin.Context) {
	var req appointment.BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	req.UserID = c.GetString(middleware.ContextUserID)

	appt, err := h.Svc.Book(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, appt)
}

func (h *AppointmentHandler) Get(c *gin.Context) {
	appt, err := h.Svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

func (h *AppointmentHandler) ListForUser(c *gin.Context) {
	appts, err := h.Svc.ListForUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointments": appts})
}

func (h *AppointmentHandler) ListForDoctor(c *gin.Context) {
	appts, err := h.Svc.ListForDoctor(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointments": appts})
}

// Approve lets the booked doctor accept a pending appointment.
func (h *AppointmentHandler) Approve(c *gin.Context) {
	doctorID := c.GetString(middleware.ContextUserID)
	appt, err := h.Svc.Approve(c.Request.Context(), c.Param("id"), doctorID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

func (h *AppointmentHandler) Reject(c *gin.Context) {
	doctorID := c.GetString(middleware.ContextUserID)
	appt, err := h.Svc.Reject(c.Request.Context(), c.Param("id"), doctorID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	actorID := c.GetString(middleware.ContextUserID)
	appt, err := h.Svc.Cancel(c.Request.Context(), c.Param("id"), actorID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

// RunSweep triggers an on-demand lifecycle sweep. The sweep's guard flags
// make a redundant trigger harmless, so no special locking is needed here.
func (h *AppointmentHandler) RunSweep(c *gin.Context) {
	result, err := h.Sweeper.Run(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
