package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/zawaditap/zawaditap-backend/config"
)

// Role constants to avoid string typos
const (
	RoleUser         = "user"
	RoleOrganization = "organization"
	RoleAdmin        = "admin"
)

// Identity is the authenticated caller resolved from the JWT. The core
// services trust this identity; token issuance lives in internal/auth.
type Identity struct {
	ID    uint
	Role  string
	Phone string
	Email string
}

// AuthMiddleware validates the bearer token and stores the caller identity
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing Authorization header"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid Authorization header"})
			return
		}

		token, err := jwt.Parse(parts[1], func(t *jwt.Token) (interface{}, error) {
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid claims"})
			return
		}

		subFloat, ok := claims["sub"].(float64)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "sub missing in token"})
			return
		}

		role, _ := claims["role"].(string)
		if role == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "role missing in token"})
			return
		}

		identity := Identity{
			ID:   uint(subFloat),
			Role: role,
		}
		if phone, ok := claims["phone"].(string); ok {
			identity.Phone = phone
		}
		if email, ok := claims["email"].(string); ok {
			identity.Email = email
		}

		c.Set("identity", identity)
		c.Set("claims", claims)
		c.Next()
	}
}

// GetIdentity retrieves the caller identity set by AuthMiddleware
func GetIdentity(c *gin.Context) (Identity, bool) {
	raw, exists := c.Get("identity")
	if !exists {
		return Identity{}, false
	}
	identity, ok := raw.(Identity)
	return identity, ok
}
