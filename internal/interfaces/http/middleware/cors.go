package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORSConfig holds CORS middleware configuration
type CORSConfig struct {
	AllowOrigins []string
	AllowMethods []string
	AllowHeaders []string
}

// CORS builds the gin-contrib/cors handler. "*" allows every origin; an
// empty list rejects every cross-origin request.
func CORS(cfg CORSConfig) gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()

	switch {
	case containsWildcard(cfg.AllowOrigins):
		corsConfig.AllowAllOrigins = true
	case len(cfg.AllowOrigins) == 0:
		corsConfig.AllowOriginFunc = func(string) bool { return false }
	default:
		corsConfig.AllowOrigins = cfg.AllowOrigins
		corsConfig.AllowCredentials = true
	}

	if len(cfg.AllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.AllowMethods
	} else {
		corsConfig.AddAllowMethods("PATCH")
	}
	corsConfig.AddAllowHeaders("Authorization", "X-Request-ID")
	corsConfig.AddAllowHeaders(cfg.AllowHeaders...)
	corsConfig.AddExposeHeaders("X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "Content-Disposition")
	corsConfig.MaxAge = 12 * time.Hour

	return cors.New(corsConfig)
}

func containsWildcard(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
