package layer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"splinemap/internal/geom"
	"splinemap/internal/transport"
)

// ErrFetchFailed wraps any failure to obtain a remote base collection.
var ErrFetchFailed = errors.New("layer: fetch failed")

// Fetcher resolves a base collection reference.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*geom.FeatureCollection, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, url string) (*geom.FeatureCollection, error)

func (f FetcherFunc) Fetch(ctx context.Context, url string) (*geom.FeatureCollection, error) {
	return f(ctx, url)
}

// HTTPFetcher fetches http(s) URLs with the shared client and reads anything
// else (plain paths, file:// URLs) from disk.
type HTTPFetcher struct {
	Client *http.Client
}

func (h HTTPFetcher) Fetch(ctx context.Context, url string) (*geom.FeatureCollection, error) {
	if !IsHTTP(url) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return geom.LoadCollection(strings.TrimPrefix(url, "file://"))
	}
	body, err := transport.Get(ctx, h.Client, url, "application/geo+json, application/json")
	if err != nil {
		return nil, err
	}
	fc, err := geom.DecodeCollection(body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", url, err)
	}
	return fc, nil
}

// IsHTTP reports whether ref is an http or https URL.
func IsHTTP(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}
