package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// JSON writes payload as compact JSON with the given status.
func JSON(c *gin.Context, status int, payload any) {
	c.JSON(status, payload)
}

// OK is JSON with 200.
func OK(c *gin.Context, payload any) {
	JSON(c, http.StatusOK, payload)
}

// Raw relays an opaque body as-is. An empty content type falls back to
// text/plain so browsers do not guess.
func Raw(c *gin.Context, status int, contentType string, body []byte) {
	if contentType == "" {
		contentType = "text/plain"
	}
	if status < 100 || status > 999 {
		status = http.StatusBadGateway
	}
	c.Data(status, contentType, body)
}
