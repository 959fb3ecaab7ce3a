package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tunerp/backend/internal/domain/identity"
	"github.com/tunerp/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// RoleConfig holds configuration for role middleware
type RoleConfig struct {
	Logger *zap.Logger
}

// RequireRole creates middleware that lets through users holding any of roles
func RequireRole(roles ...identity.Role) gin.HandlerFunc {
	return RequireRoleWithConfig(RoleConfig{}, roles...)
}

// RequireRoleWithConfig creates role middleware with custom config
func RequireRoleWithConfig(cfg RoleConfig, roles ...identity.Role) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[string(r)] = struct{}{}
	}

	return func(c *gin.Context) {
		role := GetJWTRole(c)
		if _, ok := allowed[role]; !ok {
			if cfg.Logger != nil {
				cfg.Logger.Warn("Role check failed",
					zap.String("user_id", GetJWTUserID(c)),
					zap.String("role", role),
					zap.String("path", c.Request.URL.Path))
			}
			c.AbortWithStatusJSON(http.StatusForbidden, dto.Failure(
				dto.ErrCodeForbidden, "Accès refusé", c.GetString(RequestIDKey)))
			return
		}
		c.Next()
	}
}

// RequireCompanyAdmin restricts a route to company administrators
func RequireCompanyAdmin() gin.HandlerFunc {
	return RequireRole(identity.RoleAdmin)
}

// RequireSystemAdmin restricts a route to the platform administrator
func RequireSystemAdmin() gin.HandlerFunc {
	return RequireRole(identity.RoleSystemAdmin)
}

// HasRole reports whether the authenticated user holds role
func HasRole(c *gin.Context, role identity.Role) bool {
	return GetJWTRole(c) == string(role)
}
