package middleware

import (
	"net/http"

	"clinic_booking/internal/model"

	"github.com/gin-gonic/gin"
)

// RequireRoles creates a middleware that only lets the listed roles through.
// AuthMiddleware must run first.
func RequireRoles(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "message": "actor not resolved, ensure auth middleware runs first"})
			return
		}

		for _, role := range allowedRoles {
			if actor.Role == role {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "message": "you do not have permission to access this resource"})
	}
}

// AdminOnly gates admin routes.
func AdminOnly() gin.HandlerFunc {
	return RequireRoles(model.RoleAdmin)
}

// DoctorOnly gates doctor routes.
func DoctorOnly() gin.HandlerFunc {
	return RequireRoles(model.RoleDoctor)
}

// UserOnly gates patient routes.
func UserOnly() gin.HandlerFunc {
	return RequireRoles(model.RoleUser)
}
