package asset

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Source opens raw asset bytes by file name.
type Source interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	String() string
}

// NewSource picks an HTTP source for http(s) locations and a directory
// source otherwise.
func NewSource(location string) (Source, error) {
	trimmed := strings.TrimSpace(location)
	if trimmed == "" {
		return nil, fmt.Errorf("asset location is empty")
	}
	if strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") {
		return NewHTTPSource(trimmed)
	}
	return DirSource{Root: trimmed}, nil
}

// DirSource reads assets from a local directory.
type DirSource struct {
	Root string
}

// Open implements Source.
func (d DirSource) Open(_ context.Context, name string) (io.ReadCloser, error) {
	path := filepath.Join(d.Root, filepath.FromSlash(name))
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open asset: %w", err)
	}
	return f, nil
}

func (d DirSource) String() string { return d.Root }

// HTTPSource fetches assets relative to a base URL.
type HTTPSource struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	defaultUserAgent = "flipbook/0.1"
	requestTimeout   = 15 * time.Second
)

// NewHTTPSource builds a source for the given base URL.
func NewHTTPSource(base string) (*HTTPSource, error) {
	u, err := parseBaseURL(base)
	if err != nil {
		return nil, err
	}
	return &HTTPSource{
		baseURL: u,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
	}, nil
}

// Open implements Source. The caller closes the returned body.
func (h *HTTPSource) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if h == nil {
		return nil, fmt.Errorf("source is nil")
	}
	rel, err := url.Parse(name)
	if err != nil {
		return nil, fmt.Errorf("parse asset name %q: %w", name, err)
	}
	reqURL := h.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", h.userAgent)

	resp, err := h.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	if resp.StatusCode >= 400 {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("asset %s returned status %d", rel.String(), resp.StatusCode)
	}
	return resp.Body, nil
}

func (h *HTTPSource) String() string { return h.baseURL.String() }

func parseBaseURL(base string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(base))
	if err != nil {
		return nil, fmt.Errorf("parse asset url %q: %w", base, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("asset url %q has no host", base)
	}
	// Relative names resolve inside the base directory only with a trailing slash.
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
