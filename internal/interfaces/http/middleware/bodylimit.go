package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tunerp/backend/internal/interfaces/http/dto"
)

// BodyLimit limits request bodies to maxBytes. Multipart requests (receipt,
// logo and OCR uploads) get uploadBytes instead.
func BodyLimit(maxBytes, uploadBytes int64) gin.HandlerFunc {
	if uploadBytes < maxBytes {
		uploadBytes = maxBytes
	}
	return func(c *gin.Context) {
		limit := maxBytes
		if strings.HasPrefix(c.ContentType(), "multipart/") {
			limit = uploadBytes
		}

		if c.Request.ContentLength > limit {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, dto.Failure(
				dto.ErrCodeTooLarge, "Le corps de la requête dépasse la taille autorisée", c.GetString(RequestIDKey)))
			return
		}

		// chunked bodies have no Content-Length
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}
		c.Next()
	}
}
