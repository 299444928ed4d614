package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ImageStore is the narrow contract against the external image host: a blob
// goes in, a stable URL comes out, and the URL is enough to delete or
// enumerate objects later. Only the URL is ever persisted.
type ImageStore interface {
	Upload(ctx context.Context, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, imageURL string) error
	List(ctx context.Context) ([]string, error)
}

type httpImageStore struct {
	baseURL string
	apiKey  string
	folder  string
	client  *http.Client
}

// NewHTTPImageStore talks to the image host's REST surface. Calls are bounded
// by the client timeout; failures are always surfaced to the caller.
func NewHTTPImageStore(baseURL, apiKey, folder string) ImageStore {
	return &httpImageStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		folder:  folder,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
}

type resourcesResponse struct {
	Resources []struct {
		PublicID  string `json:"public_id"`
		SecureURL string `json:"secure_url"`
	} `json:"resources"`
	NextCursor string `json:"next_cursor"`
}

func (s *httpImageStore) Upload(ctx context.Context, data []byte, contentType string) (string, error) {
	publicID := s.folder + "/" + uuid.NewString()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("public_id", publicID); err != nil {
		return "", fmt.Errorf("imagestore.Upload: %w", err)
	}
	if contentType != "" {
		if err := mw.WriteField("content_type", contentType); err != nil {
			return "", fmt.Errorf("imagestore.Upload: %w", err)
		}
	}
	part, err := mw.CreateFormFile("file", "image")
	if err != nil {
		return "", fmt.Errorf("imagestore.Upload: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("imagestore.Upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("imagestore.Upload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/upload", &body)
	if err != nil {
		return "", fmt.Errorf("imagestore.Upload: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	var out uploadResponse
	if err := s.do(req, &out); err != nil {
		return "", fmt.Errorf("imagestore.Upload: %w", err)
	}
	if out.SecureURL == "" {
		return "", fmt.Errorf("imagestore.Upload: empty url in response")
	}
	return out.SecureURL, nil
}

func (s *httpImageStore) Delete(ctx context.Context, imageURL string) error {
	publicID := ExtractPublicID(imageURL)
	if publicID == "" {
		return fmt.Errorf("imagestore.Delete: unrecognized image url %q", imageURL)
	}

	form := url.Values{"public_id": {publicID}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/destroy",
		strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("imagestore.Delete: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	if err := s.do(req, nil); err != nil {
		return fmt.Errorf("imagestore.Delete: %w", err)
	}
	return nil
}

// List enumerates every object under the configured folder, following the
// host's cursor pagination.
func (s *httpImageStore) List(ctx context.Context) ([]string, error) {
	var urls []string
	cursor := ""
	for {
		endpoint := s.baseURL + "/resources?prefix=" + url.QueryEscape(s.folder+"/")
		if cursor != "" {
			endpoint += "&next_cursor=" + url.QueryEscape(cursor)
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, fmt.Errorf("imagestore.List: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+s.apiKey)

		var out resourcesResponse
		if err := s.do(req, &out); err != nil {
			return nil, fmt.Errorf("imagestore.List: %w", err)
		}
		for _, res := range out.Resources {
			urls = append(urls, res.SecureURL)
		}
		if out.NextCursor == "" {
			return urls, nil
		}
		cursor = out.NextCursor
	}
}

func (s *httpImageStore) do(req *http.Request, out interface{}) error {
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("image store returned %d: %s", resp.StatusCode, string(body))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

var versionedURL = regexp.MustCompile(`/v\d+/(.+)\.\w+$`)

// ExtractPublicID recovers the object key from a delivery URL, handling both
// the versioned form (/v123/folder/name.webp) and the plain /upload/ form.
func ExtractPublicID(imageURL string) string {
	if m := versionedURL.FindStringSubmatch(imageURL); m != nil {
		return m[1]
	}

	parts := strings.Split(imageURL, "/")
	for i, p := range parts {
		if p == "upload" && i+2 < len(parts) {
			key := strings.Join(parts[i+2:], "/")
			if dot := strings.LastIndex(key, "."); dot > 0 {
				key = key[:dot]
			}
			return key
		}
	}
	return ""
}
