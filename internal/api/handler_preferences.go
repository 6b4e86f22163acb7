package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type themeBody struct {
	DarkMode *bool `json:"darkMode" binding:"required"`
}

// GetTheme returns the stored theme preference.
func (h *Handler) GetTheme(c *gin.Context) {
	on, err := h.prefs.DarkMode(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"darkMode": on})
}

// PutTheme stores the theme preference.
func (h *Handler) PutTheme(c *gin.Context) {
	var req themeBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.prefs.SetDarkMode(c.Request.Context(), *req.DarkMode); err != nil {
		h.logger.Error("failed to store theme preference", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"darkMode": *req.DarkMode})
}
