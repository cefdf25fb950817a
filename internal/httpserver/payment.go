package httpserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"waves-backend/internal/domain"
)

func (h *handlers) listPayments(c *gin.Context) {
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "100"), 10, 64)

	payments, err := h.deps.PaymentRepo.List(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	if payments == nil {
		payments = []domain.Payment{}
	}
	c.JSON(http.StatusOK, payments)
}

// getCheckoutIntent exposes the intent record for a purchase order, so a
// partially failed checkout can be inspected by its porder.
func (h *handlers) getCheckoutIntent(c *gin.Context) {
	intent, err := h.deps.PaymentRepo.GetIntent(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, intent)
}
