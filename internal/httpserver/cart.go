package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"waves-backend/internal/domain"
)

func (h *handlers) addToCart(c *gin.Context) {
	u := currentUser(c)
	productID := c.Query("productId")
	if productID == "" {
		badRequest(c, "productId is required")
		return
	}

	cart, err := h.deps.CartSvc.AddItem(c.Request.Context(), u.ID, productID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartOrEmpty(cart))
}

func (h *handlers) subtractFromCart(c *gin.Context) {
	u := currentUser(c)
	productID := c.Query("productId")
	if productID == "" {
		badRequest(c, "productId is required")
		return
	}

	cart, err := h.deps.CartSvc.RemoveOneItem(c.Request.Context(), u.ID, productID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cartOrEmpty(cart))
}

func (h *handlers) removeFromCart(c *gin.Context) {
	u := currentUser(c)
	// The storefront sends the product id as "_id" on this endpoint.
	productID := c.Query("_id")
	if productID == "" {
		badRequest(c, "_id is required")
		return
	}

	cart, detail, err := h.deps.CartSvc.RemoveItem(c.Request.Context(), u.ID, productID)
	if err != nil {
		respondError(c, err)
		return
	}
	if detail == nil {
		detail = []domain.Product{}
	}
	c.JSON(http.StatusOK, gin.H{
		"cart":       cartOrEmpty(cart),
		"cartDetail": detail,
	})
}

func cartOrEmpty(cart []domain.CartLine) []domain.CartLine {
	if cart == nil {
		return []domain.CartLine{}
	}
	return cart
}
