package middleware

import (
	"context"
	"errors"
	"net/http"

	"melodia/internal/common"
	"melodia/internal/common/security"
	"melodia/internal/domain/model"

	"github.com/go-chi/jwtauth/v5"
)

type contextKey string

const (
	userIDKey   contextKey = "userID"
	userRoleKey contextKey = "userRole"
)

// Authenticator rejects requests without a valid access token and stores the
// caller's identity on the request context. Missing or expired tokens get
// 401, anything else malformed gets 403.
func Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			switch {
			case errors.Is(err, jwtauth.ErrNoTokenFound):
				common.RespondWithError(w, http.StatusUnauthorized, "missing token")
			case errors.Is(err, jwtauth.ErrExpired):
				common.RespondWithError(w, http.StatusUnauthorized, common.ErrTokenExpired.Error())
			default:
				common.RespondWithError(w, http.StatusForbidden, common.ErrTokenInvalid.Error())
			}
			return
		}
		if token == nil {
			common.RespondWithError(w, http.StatusUnauthorized, "missing token")
			return
		}

		userID, err := security.GetUserIDFromClaims(claims)
		if err != nil {
			common.RespondWithError(w, http.StatusForbidden, "invalid token claims")
			return
		}
		role, err := security.GetUserRoleFromClaims(claims)
		if err != nil {
			common.RespondWithError(w, http.StatusForbidden, "invalid token claims")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		ctx = context.WithValue(ctx, userRoleKey, role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AdminOnly allows only callers whose token carries the admin role. Must run
// after Authenticator.
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, err := GetUserRoleFromContext(r.Context())
		if err != nil || role != model.RoleAdmin {
			common.RespondWithError(w, http.StatusForbidden, "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func GetUserIDFromContext(ctx context.Context) (int64, error) {
	id, ok := ctx.Value(userIDKey).(int64)
	if !ok {
		return 0, common.Errorf("user id not found in context: %w", common.ErrUnauthorized)
	}
	return id, nil
}

func GetUserRoleFromContext(ctx context.Context) (string, error) {
	role, ok := ctx.Value(userRoleKey).(string)
	if !ok {
		return "", common.Errorf("user role not found in context: %w", common.ErrUnauthorized)
	}
	return role, nil
}

// WithIdentity returns a context carrying the given identity. Test helper
// for handlers that read the identity without running the full middleware.
func WithIdentity(ctx context.Context, userID int64, role string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, userRoleKey, role)
}
