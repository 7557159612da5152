package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/handiism/album-catalog/internal/model"
)

// HTTPStore reads track files from a web server that serves the store
// layout under BaseURL, such as a CDN in front of the files directory.
//
// Example:
//
//	s := NewHTTPStore("https://cdn.example.com/files", 0)
//	size, err := s.Size(ctx, track, mp3) // HEAD https://cdn.example.com/files/tracks/1000/1042.mp3
type HTTPStore struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
}

// NewHTTPStore creates an HTTPStore. A zero timeout means 60 seconds.
func NewHTTPStore(baseURL string, timeout time.Duration) *HTTPStore {
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &HTTPStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		userAgent: "album-catalog",
	}
}

// URL returns the location of a track's file in format.
func (s *HTTPStore) URL(track *model.Track, format model.Format) string {
	return s.baseURL + "/" + Key(track, format)
}

// Size implements Store using a HEAD request.
func (s *HTTPStore) Size(ctx context.Context, track *model.Track, format model.Format) (int64, error) {
	url := s.URL(track, format)
	resp, err := s.do(ctx, http.MethodHead, url)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return 0, notFound(track, format)
	}
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}
	if resp.ContentLength < 0 {
		return 0, fmt.Errorf("no Content-Length header for %s", url)
	}
	return resp.ContentLength, nil
}

// Open implements Store using a GET request.
func (s *HTTPStore) Open(ctx context.Context, track *model.Track, format model.Format) (io.ReadCloser, error) {
	resp, err := s.do(ctx, http.MethodGet, s.URL(track, format))
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusNotFound {
		resp.Body.Close()
		return nil, notFound(track, format)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}
	return resp.Body, nil
}

func (s *HTTPStore) do(ctx context.Context, method, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", s.userAgent)
	return s.httpClient.Do(req)
}
