package middleware

import (
	"errors"
	"net/http"

	"clinic_booking/internal/utils"

	"github.com/gin-gonic/gin"
)

// AccessTokenCookie and RefreshTokenCookie are the httpOnly cookies carrying
// the token pair. Authentication never uses bearer headers.
const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"

	actorKey = "actor"
)

// Actor is the authenticated principal, resolved once per request and passed
// to handlers through the gin context.
type Actor struct {
	Role string
	ID   string
}

// AuthMiddleware verifies the access token cookie and attaches the Actor to
// the request context. The expired case gets its own message so clients know
// to call refresh and retry instead of re-logging in.
func AuthMiddleware(jwtUtil *utils.JWTUtil) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := c.Cookie(AccessTokenCookie)
		if err != nil || tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "no token provided"})
			return
		}

		claims, err := jwtUtil.ValidateToken(tokenString)
		if err != nil {
			if errors.Is(err, utils.ErrTokenExpired) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "access token expired"})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "invalid token"})
			return
		}

		c.Set(actorKey, Actor{Role: claims.Role, ID: claims.ActorID})
		c.Next()
	}
}

// GetActor returns the Actor attached by AuthMiddleware.
func GetActor(c *gin.Context) (Actor, bool) {
	v, exists := c.Get(actorKey)
	if !exists {
		return Actor{}, false
	}
	actor, ok := v.(Actor)
	return actor, ok
}
