package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"energy-cost-backend/internal/category"
)

// GetCategories returns the fixed category list.
func (h *Handler) GetCategories(c *gin.Context) {
	c.JSON(http.StatusOK, category.List())
}

// GetSummary returns the monthly totals and the per-category consumption.
func (h *Handler) GetSummary(c *gin.Context) {
	c.JSON(http.StatusOK, h.registry.Summary())
}

// GetChart returns the consumption-by-category chart series.
func (h *Handler) GetChart(c *gin.Context) {
	c.JSON(http.StatusOK, h.registry.ChartData())
}
