// Package transport holds the HTTP client shared by the remote collection
// fetcher and the icon loader.
package transport

import (
	"compress/flate"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/andybalholm/brotli"
)

// DefaultTimeout bounds a whole request including the body read.
const DefaultTimeout = 30 * time.Second

// MaxBodySize caps decoded response bodies.
const MaxBodySize = 64 << 20

var (
	clientOnce sync.Once
	httpClient *http.Client
)

// Client returns the process wide HTTP client.
func Client() *http.Client {
	clientOnce.Do(func() {
		httpClient = &http.Client{
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				// bodies are decoded by Get, including brotli
				DisableCompression: true,
			},
			Timeout: DefaultTimeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				return nil
			},
		}
	})
	return httpClient
}

// Get fetches url and returns the decoded body. Non-200 responses are errors.
func Get(ctx context.Context, c *http.Client, url, accept string) ([]byte, error) {
	if c == nil {
		c = Client()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "splinemap/1.0")
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	req.Header.Set("Accept-Encoding", "gzip, deflate, br")

	resp, err := c.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("request returned error status %d", resp.StatusCode)
	}

	reader, err := Decode(resp.Body, resp.Header.Get("Content-Encoding"))
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	body, err := readLimited(reader, MaxBodySize)
	if err != nil {
		return nil, err
	}
	slog.Debug("transport: fetched", "url", url, "bytes", len(body), "encoding", resp.Header.Get("Content-Encoding"))
	return body, nil
}

// readLimited reads r to EOF and fails when it holds more than limit bytes.
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	if int64(len(body)) > limit {
		return nil, fmt.Errorf("response exceeds %d bytes", limit)
	}
	return body, nil
}

// Decode wraps r according to a Content-Encoding header value.
func Decode(r io.Reader, contentEncoding string) (io.ReadCloser, error) {
	switch strings.ToLower(strings.TrimSpace(contentEncoding)) {
	case "", "identity":
		return io.NopCloser(r), nil
	case "gzip", "x-gzip":
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		return zr, nil
	case "deflate":
		return flate.NewReader(r), nil
	case "br":
		return io.NopCloser(brotli.NewReader(r)), nil
	}
	return nil, fmt.Errorf("unsupported content encoding %q", contentEncoding)
}
