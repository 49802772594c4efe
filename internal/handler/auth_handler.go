package handler

import (
	"net/http"

	"clinic_booking/internal/middleware"
	"clinic_booking/internal/model"
	"clinic_booking/internal/service"
	"clinic_booking/internal/utils"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles login, registration, refresh, and logout for all
// actor roles.
type AuthHandler struct {
	service service.AuthService
	jwtUtil *utils.JWTUtil
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(s service.AuthService, jwtUtil *utils.JWTUtil) *AuthHandler {
	return &AuthHandler{service: s, jwtUtil: jwtUtil}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// setAuthCookies sets the httpOnly token pair; auth never travels in bearer
// headers.
func (h *AuthHandler) setAuthCookies(c *gin.Context, pair *service.TokenPair) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AccessTokenCookie, pair.AccessToken, int(h.jwtUtil.AccessTTL().Seconds()), "/", "", false, true)
	c.SetCookie(middleware.RefreshTokenCookie, pair.RefreshToken, int(h.jwtUtil.RefreshTTL().Seconds()), "/", "", false, true)
}

func (h *AuthHandler) clearAuthCookies(c *gin.Context) {
	c.SetCookie(middleware.AccessTokenCookie, "", -1, "/", "", false, true)
	c.SetCookie(middleware.RefreshTokenCookie, "", -1, "/", "", false, true)
}

// RegisterUser handles patient self-registration.
func (h *AuthHandler) RegisterUser(c *gin.Context) {
	var req model.RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	user, pair, err := h.service.RegisterUser(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.setAuthCookies(c, pair)
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "registered successfully",
		"user":    user,
	})
}

// login produces a role-specific gin handler sharing one code path.
func (h *AuthHandler) login(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "invalid request: "+err.Error())
			return
		}

		actorID, pair, err := h.service.Login(c.Request.Context(), role, req.Email, req.Password)
		if err != nil {
			respondServiceError(c, err)
			return
		}

		h.setAuthCookies(c, pair)
		c.JSON(http.StatusOK, gin.H{
			"success":  true,
			"message":  "login successful",
			"actor_id": actorID,
			"role":     role,
		})
	}
}

// Refresh exchanges a valid refresh cookie for a new access cookie. The
// refresh token itself is not rotated.
func (h *AuthHandler) Refresh(c *gin.Context) {
	refreshToken, err := c.Cookie(middleware.RefreshTokenCookie)
	if err != nil || refreshToken == "" {
		respondError(c, http.StatusUnauthorized, "no refresh token provided")
		return
	}

	access, err := h.service.Refresh(c.Request.Context(), refreshToken)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AccessTokenCookie, access, int(h.jwtUtil.AccessTTL().Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "token refreshed"})
}

// Logout deletes the stored refresh token and clears both cookies. Idempotent.
func (h *AuthHandler) Logout(c *gin.Context) {
	if refreshToken, err := c.Cookie(middleware.RefreshTokenCookie); err == nil && refreshToken != "" {
		if err := h.service.Logout(c.Request.Context(), refreshToken); err != nil {
			respondServiceError(c, err)
			return
		}
	}
	h.clearAuthCookies(c)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "logged out"})
}

// RegisterAuthRoutes registers auth routes. The rate limiter guards the
// credential endpoints.
func (h *AuthHandler) RegisterAuthRoutes(rg *gin.RouterGroup, limitMW gin.HandlerFunc) {
	rg.POST("/user/register", limitMW, h.RegisterUser)
	rg.POST("/user/login", limitMW, h.login(model.RoleUser))
	rg.POST("/doctor/login", limitMW, h.login(model.RoleDoctor))
	rg.POST("/admin/login", limitMW, h.login(model.RoleAdmin))

	authGroup := rg.Group("/auth")
	{
		authGroup.POST("/refresh", limitMW, h.Refresh)
		authGroup.POST("/logout", h.Logout)
	}
}
