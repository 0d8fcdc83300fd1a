package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"medibook/middleware"
	ratingRepo "medibook/database/repository/rating"
	"medibook/services/rating"
)

// RatingHandler exposes the rating ledger.
type RatingHandler struct {
	Ledger  rating.Ledger
	Ratings ratingRepo.Repository
}

func NewRatingHandler(ledger rating.Ledger, ratings ratingRepo.Repository) *RatingHandler {
	return &RatingHandler{Ledger: ledger, Ratings: ratings}
}

// Submit records a rating for a completed appointment.
func (h *RatingHandler) Submit(c *gin.Context) {
	var req rating.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	req.UserID = c.GetString(middleware.ContextUserID)

	record, err := h.Ledger.Submit(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

// Skip marks an appointment as rated without recording a rating.
func (h *RatingHandler) Skip(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)
	if err := h.Ledger.Skip(c.Request.Context(), c.Param("appointmentId"), userID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "skipped"})
}

// ListForDoctor returns all reviews recorded against a doctor.
func (h *RatingHandler) ListForDoctor(c *gin.Context) {
	ratings, err := h.Ratings.ListByDoctor(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ratings": ratings})
}
