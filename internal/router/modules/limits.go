package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/adcart-backend/internal/container"
	"github.com/oksasatya/adcart-backend/internal/interface/middleware"
)

func ipLimiter() gin.HandlerFunc {
	cfg := container.GetConfig()
	return middleware.RateLimit(container.GetRedis(),
		middleware.Limit{Max: cfg.RateLimitIP, Window: cfg.RateLimitWindow},
		middleware.KeyByIP(), middleware.AllowPrivateIP(), container.GetLogger())
}

func userLimiter() gin.HandlerFunc {
	cfg := container.GetConfig()
	return middleware.RateLimit(container.GetRedis(),
		middleware.Limit{Max: cfg.RateLimitUser, Window: cfg.RateLimitWindow},
		middleware.KeyByUserID(), nil, container.GetLogger())
}

// authed is the group every per-user route hangs off.
func authed(rg *gin.RouterGroup) *gin.RouterGroup {
	g := rg.Group("/")
	g.Use(middleware.Auth(container.GetJWT()), userLimiter())
	return g
}
