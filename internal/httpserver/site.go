package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"waves-backend/internal/domain"
)

func (h *handlers) siteData(c *gin.Context) {
	s, err := h.deps.SiteRepo.Get(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.SiteInfo)
}

func (h *handlers) setSiteData(c *gin.Context) {
	var info map[string]interface{}
	if err := c.ShouldBindJSON(&info); err != nil {
		badRequest(c, "invalid site data body")
		return
	}

	s, err := h.deps.SiteRepo.SetInfo(c.Request.Context(), info)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"siteInfo": s.SiteInfo,
	})
}

func (h *handlers) createShipping(c *gin.Context) {
	var req domain.Shipping
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid shipping body")
		return
	}
	if req.Name == "" {
		badRequest(c, "name is required")
		return
	}
	if req.Price < 0 {
		badRequest(c, "price must be non-negative")
		return
	}
	req.ID = ""

	s, err := h.deps.ShippingRepo.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"shipping": s,
	})
}

func (h *handlers) listShippings(c *gin.Context) {
	shippings, err := h.deps.ShippingRepo.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if shippings == nil {
		shippings = []domain.Shipping{}
	}
	c.JSON(http.StatusOK, shippings)
}
