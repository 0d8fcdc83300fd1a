package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	doctorRepo "medibook/database/repository/doctor"
)

// DoctorHandler serves the doctor profile read model.
type DoctorHandler struct {
	Doctors doctorRepo.Repository
}

func NewDoctorHandler(doctors doctorRepo.Repository) *DoctorHandler {
	return &DoctorHandler{Doctors: doctors}
}

func (h *DoctorHandler) Get(c *gin.Context) {
	profile, err := h.Doctors.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}
