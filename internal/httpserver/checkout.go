package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"waves-backend/internal/service/checkout"
)

type successBuyRequest struct {
	CartDetail  []checkout.LineItem    `json:"cartDetail"`
	PaymentData map[string]interface{} `json:"paymentData"`
}

func (h *handlers) successBuy(c *gin.Context) {
	u := currentUser(c)

	var req successBuyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid checkout body")
		return
	}

	result, err := h.deps.CheckoutSvc.CompletePurchase(c.Request.Context(), u.ID, req.CartDetail, req.PaymentData)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"porder":     result.PurchaseOrder,
		"cart":       cartOrEmpty(result.Cart),
		"cartDetail": result.CartDetail,
	})
}
