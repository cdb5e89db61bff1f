package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"public-notepad/internal/services"
)

// respondError maps a service error kind to a transport status code.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch services.KindOf(err) {
	case services.KindNotFound:
		status = http.StatusNotFound
	case services.KindValidation:
		status = http.StatusBadRequest
	case services.KindUnauthorized:
		status = http.StatusForbidden
	case services.KindConflict:
		status = http.StatusConflict
	case services.KindTransient:
		status = http.StatusServiceUnavailable
	}

	message := err.Error()
	if status == http.StatusInternalServerError {
		// Do not leak store internals.
		message = "internal server error"
	}

	c.JSON(status, gin.H{"success": false, "error": message})
}
