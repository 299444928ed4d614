package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"melodia/internal/api/middleware"
	"melodia/internal/app/service"
	"melodia/internal/common"
	"melodia/internal/common/security"
	"melodia/internal/domain/model"
	"melodia/internal/domain/repository"
	"melodia/internal/platform/session"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubUserRepo serves only the FindByEmail call the panel login makes.
type stubUserRepo struct {
	repository.UserRepository
	user *model.User
}

func (s stubUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	if s.user != nil && s.user.Email == email {
		cp := *s.user
		return &cp, nil
	}
	return nil, common.ErrNotFound
}

type stubSessionStore struct {
	sessions map[string]*session.Session
	nextID   int
}

func newStubSessionStore() *stubSessionStore {
	return &stubSessionStore{sessions: make(map[string]*session.Session), nextID: 1}
}

func (s *stubSessionStore) Create(_ context.Context, sess *session.Session) (string, error) {
	id := "sess-" + strconv.Itoa(s.nextID)
	s.nextID++
	s.sessions[id] = sess
	return id, nil
}

func (s *stubSessionStore) Get(_ context.Context, id string) (*session.Session, error) {
	sess, ok := s.sessions[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return sess, nil
}

func (s *stubSessionStore) Save(_ context.Context, id string, sess *session.Session) error {
	s.sessions[id] = sess
	return nil
}

func (s *stubSessionStore) Destroy(_ context.Context, id string) error {
	delete(s.sessions, id)
	return nil
}

func newAdminRouter(t *testing.T, admin *model.User) (http.Handler, *stubSessionStore) {
	t.Helper()
	store := newStubSessionStore()
	h := NewAdminHandler(
		service.NewAdminService(stubUserRepo{user: admin}, nil),
		nil, nil, nil, store, zerolog.Nop())
	r := chi.NewRouter()
	r.Route("/admin", h.RegisterRoutes)
	return r, store
}

func postLoginForm(t *testing.T, router http.Handler, email, password string) *httptest.ResponseRecorder {
	t.Helper()
	form := url.Values{"email": {email}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAdminLoginFailureRedirectsWithFlash(t *testing.T) {
	router, store := newAdminRouter(t, nil)

	rec := postLoginForm(t, router, "nobody@example.com", "whatever")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/login?flash=invalid_credentials", rec.Header().Get("Location"))
	assert.Empty(t, store.sessions)

	// Following the redirect shows the message above the form.
	req := httptest.NewRequest(http.MethodGet, rec.Header().Get("Location"), nil)
	out := httptest.NewRecorder()
	router.ServeHTTP(out, req)
	require.Equal(t, http.StatusOK, out.Code)
	assert.Contains(t, out.Body.String(), "Invalid email or password")
}

func TestAdminLoginSetsSessionCookie(t *testing.T) {
	hash, err := security.HashPassword("secreta")
	require.NoError(t, err)
	admin := &model.User{
		ID:             7,
		FirstName:      "Root",
		LastName:       "Admin",
		Email:          "admin@example.com",
		HashedPassword: hash,
		Role:           model.RoleAdmin,
	}
	router, store := newAdminRouter(t, admin)

	rec := postLoginForm(t, router, "admin@example.com", "secreta")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin", rec.Header().Get("Location"))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, middleware.SessionCookieName, cookies[0].Name)
	assert.Equal(t, "melodia_admin", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	sess, err := store.Get(context.Background(), cookies[0].Value)
	require.NoError(t, err)
	assert.Equal(t, int64(7), sess.AdminID)
}

func TestAdminLoginRejectsNonAdminRole(t *testing.T) {
	hash, err := security.HashPassword("secreta")
	require.NoError(t, err)
	user := &model.User{
		ID:             3,
		Email:          "user@example.com",
		HashedPassword: hash,
		Role:           model.RoleUser,
	}
	router, store := newAdminRouter(t, user)

	rec := postLoginForm(t, router, "user@example.com", "secreta")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/login?flash=invalid_credentials", rec.Header().Get("Location"))
	assert.Empty(t, store.sessions)
}
