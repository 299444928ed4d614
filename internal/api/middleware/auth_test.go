package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"melodia/internal/api/middleware"
	"melodia/internal/common/security"
	"melodia/internal/domain/model"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthRouter(m *security.JWTManager) http.Handler {
	r := chi.NewRouter()
	r.Use(m.Verifier())
	r.Group(func(protected chi.Router) {
		protected.Use(middleware.Authenticator)
		protected.Get("/me", func(w http.ResponseWriter, r *http.Request) {
			if _, err := middleware.GetUserIDFromContext(r.Context()); err != nil {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			w.WriteHeader(http.StatusOK)
		})
		protected.With(middleware.AdminOnly).Get("/admin-only", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
	})
	return r
}

func doRequest(t *testing.T, h http.Handler, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAuthenticator(t *testing.T) {
	m := security.NewJWTManager([]byte("secret"), []byte("refresh"), time.Hour, time.Hour)
	router := newAuthRouter(m)

	t.Run("ValidToken", func(t *testing.T) {
		token, err := m.GenerateAccessToken(1, model.RoleUser)
		require.NoError(t, err)
		rec := doRequest(t, router, "/me", token)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("MissingToken", func(t *testing.T) {
		rec := doRequest(t, router, "/me", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "missing token")
	})

	t.Run("GarbageToken", func(t *testing.T) {
		rec := doRequest(t, router, "/me", "garbage")
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("ExpiredToken", func(t *testing.T) {
		expired := security.NewJWTManager([]byte("secret"), []byte("refresh"), -time.Minute, time.Hour)
		token, err := expired.GenerateAccessToken(1, model.RoleUser)
		require.NoError(t, err)
		rec := doRequest(t, router, "/me", token)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("WrongSecret", func(t *testing.T) {
		other := security.NewJWTManager([]byte("other-secret"), []byte("refresh"), time.Hour, time.Hour)
		token, err := other.GenerateAccessToken(1, model.RoleUser)
		require.NoError(t, err)
		rec := doRequest(t, router, "/me", token)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestAdminOnly(t *testing.T) {
	m := security.NewJWTManager([]byte("secret"), []byte("refresh"), time.Hour, time.Hour)
	router := newAuthRouter(m)

	userToken, err := m.GenerateAccessToken(1, model.RoleUser)
	require.NoError(t, err)
	adminToken, err := m.GenerateAccessToken(2, model.RoleAdmin)
	require.NoError(t, err)

	rec := doRequest(t, router, "/admin-only", userToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(t, router, "/admin-only", adminToken)
	assert.Equal(t, http.StatusOK, rec.Code)
}
