package ws

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"clinic_booking/internal/middleware"
	"clinic_booking/internal/model"
	"clinic_booking/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wsRequest(router *gin.Engine, cookie string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: middleware.AccessTokenCookie, Value: cookie})
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestServeWS_RejectsBadTokens(t *testing.T) {
	gin.SetMode(gin.TestMode)
	jwtUtil := utils.NewJWTUtil("test-secret", 15*time.Minute, time.Hour)
	router := gin.New()
	router.GET("/ws", ServeWS(NewHub(), jwtUtil))

	w := wsRequest(router, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "no token provided")

	w = wsRequest(router, "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid token")

	// the expired case keeps its distinct message so clients refresh and retry
	expired := utils.NewJWTUtil("test-secret", -time.Minute, time.Hour)
	token, err := expired.GenerateAccessToken("user-1", model.RoleUser)
	require.NoError(t, err)

	w = wsRequest(router, token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "access token expired")
}
