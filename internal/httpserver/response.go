package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"waves-backend/internal/domain"
	"waves-backend/internal/service/checkout"
)

// respondError maps an error to one consistent failure shape: always a
// non-2xx status with {success:false, err}.
func respondError(c *gin.Context, err error) {
	// StepError wraps the underlying cause, so it must be checked before the
	// sentinels; a NotFound inside a checkout step is still a partial failure.
	var stepErr *checkout.StepError
	if errors.As(err, &stepErr) {
		// Partial checkout failure: the ledger and counters may be out of
		// step with user history. Surfaced, never auto-repaired.
		c.JSON(http.StatusInternalServerError, gin.H{
			"success":    false,
			"err":        stepErr.Error(),
			"failedStep": stepErr.Step,
		})
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrValidation):
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{"success": false, "err": err.Error()})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "err": message})
}
