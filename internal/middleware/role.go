package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"xalqbahosi/internal/pkg/jwt"
	"xalqbahosi/internal/pkg/response"
)

const RoleAdmin = "admin"

// AdminJWTAuth requires a bearer token issued by the admin login.
func AdminJWTAuth(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Abort(c, http.StatusUnauthorized, "AUTH_HEADER_MISSING", "Authorization header is required")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			response.Abort(c, http.StatusUnauthorized, "INVALID_AUTH_FORMAT", "Authorization header must be 'Bearer <token>'")
			return
		}

		claims, err := jwtService.ValidateToken(strings.TrimSpace(parts[1]))
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
			return
		}

		c.Set("admin_login", claims.Login)
		c.Set("role", claims.Role)
		c.Next()
	}
}

// RequireRole ensures that the authenticated caller has the specified role.
func RequireRole(requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		if role == "" {
			response.Abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "Role not found in token")
			return
		}
		if role != requiredRole {
			response.Abort(c, http.StatusForbidden, "FORBIDDEN", "Access denied: insufficient permissions")
			return
		}
		c.Next()
	}
}

// AdminOnly combines token validation with the admin role check.
func AdminOnly(jwtService *jwt.Service) []gin.HandlerFunc {
	return []gin.HandlerFunc{AdminJWTAuth(jwtService), RequireRole(RoleAdmin)}
}
