package middleware

import (
	"context"
	"net/http"

	"melodia/internal/platform/session"
)

const SessionCookieName = "melodia_admin"

type sessionKeyType string

const sessionCtxKey sessionKeyType = "adminSession"

// AdminSession guards the server-rendered panel. Requests without a valid
// session cookie are redirected to the login page; valid sessions are put on
// the request context together with their id.
func AdminSession(store session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil {
				http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
				return
			}

			sess, err := store.Get(r.Context(), cookie.Value)
			if err != nil {
				// Expired or forged cookie; clear it and start over.
				http.SetCookie(w, &http.Cookie{
					Name:     SessionCookieName,
					Value:    "",
					Path:     "/admin",
					MaxAge:   -1,
					HttpOnly: true,
				})
				http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
				return
			}

			ctx := context.WithValue(r.Context(), sessionCtxKey, &sessionEntry{id: cookie.Value, sess: sess})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

type sessionEntry struct {
	id   string
	sess *session.Session
}

// GetAdminSession returns the session and its id placed by AdminSession.
func GetAdminSession(ctx context.Context) (string, *session.Session, bool) {
	entry, ok := ctx.Value(sessionCtxKey).(*sessionEntry)
	if !ok {
		return "", nil, false
	}
	return entry.id, entry.sess, true
}
