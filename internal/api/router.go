package api

import (
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"

	"energy-cost-backend/config"
	"energy-cost-backend/internal/mw"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(handler *Handler, limiter *mw.IPRateLimiter, cfg config.ServerConfig) *gin.Engine {
	r := gin.Default()

	// Expired entries are cleaned up every two lifetimes.
	ttl := cfg.CacheTTL()
	cacheStore := cache.New(ttl, 2*ttl)
	caching := mw.Cache(cacheStore, ttl)

	// API group
	api := r.Group("/api")
	api.Use(mw.RateLimiter(limiter), caching)
	{
		api.GET("/categories", handler.GetCategories)

		api.GET("/appliances", handler.ListAppliances)
		api.POST("/appliances", handler.CreateAppliance)
		api.GET("/appliances/:id", handler.GetAppliance)
		api.PATCH("/appliances/:id", handler.UpdateAppliance)
		api.DELETE("/appliances/:id", handler.DeleteAppliance)

		api.GET("/summary", handler.GetSummary)
		api.GET("/chart", handler.GetChart)

		api.GET("/preferences/theme", handler.GetTheme)
		api.PUT("/preferences/theme", handler.PutTheme)

		api.GET("/subscriptions", handler.GetSubscription)
		api.PUT("/subscriptions", handler.PutSubscription)
		api.DELETE("/subscriptions", handler.DeleteSubscription)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)
	}

	return r
}
