package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tunerp/backend/internal/interfaces/http/dto"
)

// TenantIDKey holds the parsed company UUID of the authenticated user
const TenantIDKey = "tenant_id"

// RequireCompany scopes the request to the company of the JWT.
// Tokens without a company (the system administrator) are refused:
// every tenant route reads and writes data of exactly one company.
// Must run after the JWT middleware.
func RequireCompany() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := GetJWTCompanyID(c)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.Failure(
				dto.ErrCodeForbidden, "Aucune entreprise associée à ce compte", c.GetString(RequestIDKey)))
			return
		}
		companyID, err := uuid.Parse(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.Failure(
				dto.ErrCodeTokenInvalid, "Jeton invalide", c.GetString(RequestIDKey)))
			return
		}
		c.Set(TenantIDKey, companyID)
		c.Next()
	}
}

// GetTenantID returns the company UUID set by RequireCompany
func GetTenantID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get(TenantIDKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}
