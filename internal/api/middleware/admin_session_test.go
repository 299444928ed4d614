package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"melodia/internal/api/middleware"
	"melodia/internal/platform/session"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memorySessionStore struct {
	sessions map[string]*session.Session
}

func newMemorySessionStore() *memorySessionStore {
	return &memorySessionStore{sessions: make(map[string]*session.Session)}
}

func (m *memorySessionStore) Create(_ context.Context, sess *session.Session) (string, error) {
	id := uuid.NewString()
	m.sessions[id] = sess
	return id, nil
}

func (m *memorySessionStore) Get(_ context.Context, id string) (*session.Session, error) {
	sess, ok := m.sessions[id]
	if !ok {
		return nil, session.ErrNotFound
	}
	return sess, nil
}

func (m *memorySessionStore) Save(_ context.Context, id string, sess *session.Session) error {
	m.sessions[id] = sess
	return nil
}

func (m *memorySessionStore) Destroy(_ context.Context, id string) error {
	delete(m.sessions, id)
	return nil
}

func TestAdminSession(t *testing.T) {
	store := newMemorySessionStore()
	handler := middleware.AdminSession(store)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sess, ok := middleware.GetAdminSession(r.Context())
		require.True(t, ok)
		w.Write([]byte(sess.Name))
	}))

	t.Run("NoCookie", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin", nil))
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/admin/login", rec.Header().Get("Location"))
	})

	t.Run("UnknownSession", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: "forged"})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusSeeOther, rec.Code)
	})

	t.Run("ValidSession", func(t *testing.T) {
		id, err := store.Create(context.Background(), &session.Session{AdminID: 1, Name: "Root Admin"})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: id})
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Root Admin", rec.Body.String())
	})
}
