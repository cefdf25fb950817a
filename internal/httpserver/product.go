package httpserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"waves-backend/internal/domain"
	"waves-backend/internal/service/catalog"
)

type shopRequest struct {
	Filters map[string][]interface{} `json:"filters"`
	SortBy  string                   `json:"sortBy"`
	Order   string                   `json:"order"`
	Skip    int64                    `json:"skip"`
	Limit   int64                    `json:"limit"`
}

func (h *handlers) shop(c *gin.Context) {
	var req shopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid shop request body")
		return
	}

	articles, err := h.deps.CatalogSvc.Shop(c.Request.Context(), catalog.ShopInput{
		Filters: req.Filters,
		SortBy:  req.SortBy,
		Order:   req.Order,
		Skip:    req.Skip,
		Limit:   req.Limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	if articles == nil {
		articles = []domain.Product{}
	}

	c.JSON(http.StatusOK, gin.H{
		"size":     len(articles),
		"articles": articles,
	})
}

func (h *handlers) articles(c *gin.Context) {
	sortBy := c.DefaultQuery("sortBy", "_id")
	order := c.DefaultQuery("order", "asc")
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "100"), 10, 64)

	articles, err := h.deps.CatalogSvc.Articles(c.Request.Context(), sortBy, order, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	if articles == nil {
		articles = []domain.Product{}
	}
	c.JSON(http.StatusOK, articles)
}

func (h *handlers) articlesByID(c *gin.Context) {
	docs, err := h.deps.CatalogSvc.ByIDs(c.Request.Context(), c.Query("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if docs == nil {
		docs = []domain.Product{}
	}
	c.JSON(http.StatusOK, docs)
}

type createProductRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Publish     *bool    `json:"publish"`
	Images      []string `json:"images"`
}

func (h *handlers) createProduct(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid product body")
		return
	}

	publish := true
	if req.Publish != nil {
		publish = *req.Publish
	}

	article, err := h.deps.CatalogSvc.Create(c.Request.Context(), domain.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Publish:     publish,
		Images:      req.Images,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"article": article,
	})
}

func (h *handlers) deleteProduct(c *gin.Context) {
	id := c.Param("id")
	if err := h.deps.CatalogSvc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"id":      id,
	})
}
