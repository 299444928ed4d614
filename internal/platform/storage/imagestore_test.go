package storage

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractPublicID(t *testing.T) {
	cases := []struct {
		name string
		url  string
		want string
	}{
		{
			"Versioned",
			"https://img.example/image/upload/v1712345/melodia/profiles/abc-def.webp",
			"melodia/profiles/abc-def",
		},
		{
			"VersionIgnoredInComparison",
			"https://img.example/image/upload/v99/melodia/profiles/abc-def.jpg",
			"melodia/profiles/abc-def",
		},
		{
			"Unrecognized",
			"https://img.example/nothing/here.jpg",
			"",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ExtractPublicID(tc.url))
		})
	}
}

func TestHTTPImageStore_Upload(t *testing.T) {
	var gotAuth, gotPublicID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/upload", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotPublicID = r.FormValue("public_id")
		json.NewEncoder(w).Encode(map[string]string{
			"secure_url": "https://img.example/image/upload/v1/" + gotPublicID + ".jpg",
		})
	}))
	defer srv.Close()

	store := NewHTTPImageStore(srv.URL, "test-key", "melodia/profiles")
	url, err := store.Upload(context.Background(), []byte("fake-image"), "image/jpeg")
	require.NoError(t, err)

	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.True(t, strings.HasPrefix(gotPublicID, "melodia/profiles/"))
	assert.Contains(t, url, gotPublicID)
}

func TestHTTPImageStore_Delete(t *testing.T) {
	var gotPublicID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/destroy", r.URL.Path)
		require.NoError(t, r.ParseForm())
		gotPublicID = r.FormValue("public_id")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	store := NewHTTPImageStore(srv.URL, "test-key", "melodia/profiles")
	err := store.Delete(context.Background(), "https://img.example/image/upload/v5/melodia/profiles/gone.jpg")
	require.NoError(t, err)
	assert.Equal(t, "melodia/profiles/gone", gotPublicID)

	err = store.Delete(context.Background(), "https://img.example/not-a-store-url")
	assert.Error(t, err)
}

func TestHTTPImageStore_ListFollowsCursor(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/resources", r.URL.Path)
		calls++
		if r.URL.Query().Get("next_cursor") == "" {
			json.NewEncoder(w).Encode(map[string]interface{}{
				"resources":   []map[string]string{{"public_id": "a", "secure_url": "https://img.example/a.jpg"}},
				"next_cursor": "page2",
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"resources": []map[string]string{{"public_id": "b", "secure_url": "https://img.example/b.jpg"}},
		})
	}))
	defer srv.Close()

	store := NewHTTPImageStore(srv.URL, "test-key", "melodia/profiles")
	urls, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, []string{"https://img.example/a.jpg", "https://img.example/b.jpg"}, urls)
}

func TestHTTPImageStore_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "denied", http.StatusUnauthorized)
	}))
	defer srv.Close()

	store := NewHTTPImageStore(srv.URL, "bad-key", "melodia/profiles")
	_, err := store.Upload(context.Background(), []byte("x"), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}
