package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrInvalidToken = errors.New("invalid token")
)

// ActorClaims are the custom claims carried by both token classes.
type ActorClaims struct {
	ActorID string `json:"actor_id"`
	Role    string `json:"role"`
	jwt.RegisteredClaims
}

// JWTUtil mints and validates the access/refresh token pair. Access tokens
// are short-lived and verified statelessly on every protected route; refresh
// tokens are long-lived and must additionally match the stored copy for the
// actor.
type JWTUtil struct {
	secretKey  string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewJWTUtil creates a new JWTUtil.
func NewJWTUtil(secretKey string, accessTTL, refreshTTL time.Duration) *JWTUtil {
	return &JWTUtil{secretKey: secretKey, accessTTL: accessTTL, refreshTTL: refreshTTL}
}

// AccessTTL returns the access token lifetime.
func (ju *JWTUtil) AccessTTL() time.Duration { return ju.accessTTL }

// RefreshTTL returns the refresh token lifetime.
func (ju *JWTUtil) RefreshTTL() time.Duration { return ju.refreshTTL }

// GenerateAccessToken mints a short-lived access token for the actor.
func (ju *JWTUtil) GenerateAccessToken(actorID, role string) (string, error) {
	return ju.generate(actorID, role, ju.accessTTL)
}

// GenerateRefreshToken mints a long-lived refresh token for the actor.
func (ju *JWTUtil) GenerateRefreshToken(actorID, role string) (string, error) {
	return ju.generate(actorID, role, ju.refreshTTL)
}

func (ju *JWTUtil) generate(actorID, role string, ttl time.Duration) (string, error) {
	claims := &ActorClaims{
		ActorID: actorID,
		Role:    role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   actorID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(ju.secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken verifies signature and expiry and returns the claims. An
// expired token is reported as ErrTokenExpired so callers can tell the client
// to refresh; every other failure maps to ErrInvalidToken.
func (ju *JWTUtil) ValidateToken(tokenString string) (*ActorClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &ActorClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(ju.secretKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims, ok := token.Claims.(*ActorClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}
