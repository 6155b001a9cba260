package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

const clientIPKey = "client_ip"

// proxyIPHeaders are consulted in order before falling back to the socket
// address. X-Forwarded-For lists every hop; only its first entry is the
// client.
var proxyIPHeaders = []string{"X-Forwarded-For", "X-Real-Ip", "CF-Connecting-IP"}

// AuditMiddleware resolves the caller's address once per request and stashes
// it in the context for the audit trail.
func AuditMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(clientIPKey, clientIP(c))
		c.Next()
	}
}

func clientIP(c *gin.Context) string {
	for _, header := range proxyIPHeaders {
		value := c.GetHeader(header)
		if value == "" {
			continue
		}
		candidate := strings.TrimSpace(strings.SplitN(value, ",", 2)[0])
		if net.ParseIP(candidate) != nil {
			return candidate
		}
	}

	host, _, err := net.SplitHostPort(c.Request.RemoteAddr)
	if err != nil {
		return c.Request.RemoteAddr
	}
	return host
}

// GetIPFromContext returns the address stored by AuditMiddleware, resolving
// it directly when the middleware did not run (tests, internal calls).
func GetIPFromContext(c *gin.Context) string {
	if v, ok := c.Get(clientIPKey); ok {
		if ip, ok := v.(string); ok {
			return ip
		}
	}
	return clientIP(c)
}
