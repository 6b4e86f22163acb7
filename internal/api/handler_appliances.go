package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"energy-cost-backend/internal/appliance"
)

func snapshots(items []appliance.Appliance) []appliance.Snapshot {
	out := make([]appliance.Snapshot, len(items))
	for i := range items {
		out[i] = items[i].Serialize()
	}
	return out
}

// ListAppliances returns every appliance in registration order.
func (h *Handler) ListAppliances(c *gin.Context) {
	c.JSON(http.StatusOK, snapshots(h.registry.List()))
}

// GetAppliance returns a single appliance.
func (h *Handler) GetAppliance(c *gin.Context) {
	a, ok := h.registry.Find(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "appliance not found"})
		return
	}
	c.JSON(http.StatusOK, a.Serialize())
}

// CreateAppliance registers a new appliance. Field values are not validated.
func (h *Handler) CreateAppliance(c *gin.Context) {
	var req appliance.Fields
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	a, err := h.registry.Add(c.Request.Context(), req)
	if err != nil {
		h.logger.Error("failed to persist new appliance", "id", a.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, a.Serialize())
}

// UpdateAppliance applies a partial update.
func (h *Handler) UpdateAppliance(c *gin.Context) {
	var req appliance.PartialUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	a, ok, err := h.registry.Update(c.Request.Context(), c.Param("id"), req)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "appliance not found"})
		return
	}
	if err != nil {
		h.logger.Error("failed to persist appliance update", "id", a.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, a.Serialize())
}

// DeleteAppliance removes an appliance.
func (h *Handler) DeleteAppliance(c *gin.Context) {
	id := c.Param("id")
	ok, err := h.registry.Remove(c.Request.Context(), id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "appliance not found"})
		return
	}
	if err != nil {
		h.logger.Error("failed to persist appliance removal", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}
