package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/IBA-HOK/user-attendance-record/internal/response"
)

// RequireDeviceKey authenticates QR check-in kiosks by a shared API key
// in the X-Device-Key header. An empty configured key disables the
// endpoint entirely rather than leaving it open.
func RequireDeviceKey(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key == "" {
			response.AbortFail(c, http.StatusForbidden, response.ErrDeviceKeyInvalid)
			return
		}

		provided := c.GetHeader("X-Device-Key")
		if subtle.ConstantTimeCompare([]byte(provided), []byte(key)) != 1 {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrDeviceKeyInvalid)
			return
		}

		c.Next()
	}
}
