// Package control implements the HTTP status/control surface (§4.10):
// station status, the mixed broadcast stream, and the DJ-only mutating
// endpoints (login, skip commands, configuration reload trigger).
// Adapted from the teacher's internal/radio gin wiring.
package control

import (
	"strings"

	"github.com/arung-agamani/denpa-radio/internal/auth"
	"github.com/gin-gonic/gin"
)

// securityHeaders adds the same baseline hardening headers the teacher
// applies to every response.
func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-XSS-Protection", "1; mode=block")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Permissions-Policy", "camera=(), microphone=(), geolocation=()")
		c.Next()
	}
}

// authRequired enforces JWT authentication via Authorization: Bearer
// <token> on the DJ-only mutating routes (skip commands, reload trigger).
func authRequired(a *auth.Auth) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(401, gin.H{"status": "error", "error": "authentication required"})
			return
		}
		if _, err := a.ValidateToken(strings.TrimSpace(parts[1])); err != nil {
			c.AbortWithStatusJSON(401, gin.H{"status": "error", "error": "invalid or expired token"})
			return
		}
		c.Next()
	}
}
