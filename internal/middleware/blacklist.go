package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// BlacklistChecker reports whether a client IP is denied.
type BlacklistChecker interface {
	IsBlacklisted(ctx context.Context, ip string) (bool, error)
}

// Blacklist rejects requests from blacklisted client IPs with 403.
// A failing lookup is logged and the request is let through.
func Blacklist(checker BlacklistChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		denied, err := checker.IsBlacklisted(c.Request.Context(), ip)
		if err != nil {
			if log := GetLogger(c); log != nil {
				log.Error("Blacklist lookup failed", err, map[string]interface{}{"ip": ip})
			}
			c.Next()
			return
		}
		if denied {
			if log := GetLogger(c); log != nil {
				log.Warn("Blacklisted client rejected", map[string]interface{}{
					"ip":   ip,
					"path": c.Request.URL.Path,
				})
			}
			abortJSON(c, http.StatusForbidden, "FORBIDDEN", "Доступ з цієї IP-адреси заборонено")
			return
		}
		c.Next()
	}
}
