package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"medibook/apperr"
	"medibook/utils"
)

// respondServiceError maps the service error taxonomy onto HTTP statuses:
// validation -> 400, not found -> 404, conflict -> 409, transient store
// trouble -> 503, anything else -> 500.
func respondServiceError(c *gin.Context, err error) {
	var svcErr *apperr.Error
	if !errors.As(err, &svcErr) {
		utils.JSONError(c, http.StatusInternalServerError, "Internal error", err.Error())
		return
	}
	switch svcErr.Kind {
	case apperr.KindValidation:
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", svcErr.Message)
	case apperr.KindNotFound:
		utils.JSONError(c, http.StatusNotFound, "Not found", svcErr.Message)
	case apperr.KindConflict:
		utils.JSONError(c, http.StatusConflict, "Conflict", svcErr.Message)
	case apperr.KindTransient:
		utils.JSONError(c, http.StatusServiceUnavailable, "Temporarily unavailable", svcErr.Message)
	default:
		utils.JSONError(c, http.StatusInternalServerError, "Internal error", svcErr.Message)
	}
}
