package security

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"melodia/internal/common"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
)

// JWTManager issues and verifies the two bearer-token kinds: short-lived
// access tokens (carried on every API request) and longer-lived refresh
// tokens signed with a distinct secret.
type JWTManager struct {
	auth          *jwtauth.JWTAuth
	accessExp     time.Duration
	refreshSecret []byte
	refreshExp    time.Duration
}

func NewJWTManager(secret, refreshSecret []byte, accessExp, refreshExp time.Duration) *JWTManager {
	return &JWTManager{
		auth:          jwtauth.New("HS256", secret, nil),
		accessExp:     accessExp,
		refreshSecret: refreshSecret,
		refreshExp:    refreshExp,
	}
}

// Verifier returns the middleware that extracts and verifies the
// "Authorization: Bearer" token, placing claims in the request context.
func (m *JWTManager) Verifier() func(http.Handler) http.Handler {
	return jwtauth.Verifier(m.auth)
}

// GenerateAccessToken encodes the user id and role. Access tokens expire
// after one hour by default (JWT_EXPIRATION_MINUTES).
func (m *JWTManager) GenerateAccessToken(userID int64, role string) (string, error) {
	claims := map[string]interface{}{
		"user_id": userID,
		"role":    role,
		"exp":     time.Now().Add(m.accessExp).Unix(),
		"iat":     time.Now().Unix(),
	}
	_, tokenString, err := m.auth.Encode(claims)
	return tokenString, err
}

// GenerateRefreshToken signs a 7-day token with the refresh secret. A valid
// access token is never accepted where a refresh token is expected and vice
// versa.
func (m *JWTManager) GenerateRefreshToken(userID int64) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(m.refreshExp).Unix(),
		"iat":     time.Now().Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.refreshSecret)
}

// ParseRefreshToken verifies a refresh token and returns the user id it was
// issued for. Expiry and signature failures surface as distinct errors.
func (m *JWTManager) ParseRefreshToken(tokenString string) (int64, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, common.ErrTokenInvalid
		}
		return m.refreshSecret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, common.ErrTokenExpired
		}
		return 0, common.ErrTokenInvalid
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, common.ErrTokenInvalid
	}
	return GetUserIDFromClaims(claims)
}

// GetUserIDFromClaims extracts the numeric user id. JSON decoding may hand
// back float64 or json.Number depending on the parser.
func GetUserIDFromClaims(claims map[string]interface{}) (int64, error) {
	switch v := claims["user_id"].(type) {
	case float64:
		return int64(v), nil
	case int64:
		return v, nil
	case json.Number:
		id, err := v.Int64()
		if err != nil {
			return 0, errors.New("user_id claim is not an integer")
		}
		return id, nil
	default:
		return 0, errors.New("user_id claim is missing or not a number")
	}
}

func GetUserRoleFromClaims(claims map[string]interface{}) (string, error) {
	role, ok := claims["role"].(string)
	if !ok {
		return "", errors.New("role claim is missing or not a string")
	}
	return role, nil
}
