package layer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const remoteDoc = `{"type":"FeatureCollection","features":[
	{"type":"Feature","properties":{"name":"a"},"geometry":{"type":"Point","coordinates":[1,2]}}]}`

func TestHTTPFetcherRemote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("Accept"), "application/geo+json")
		w.Header().Set("Content-Type", "application/geo+json")
		_, _ = w.Write([]byte(remoteDoc))
	}))
	defer srv.Close()

	fc, err := HTTPFetcher{Client: srv.Client()}.Fetch(context.Background(), srv.URL+"/base.geojson")
	require.NoError(t, err)
	require.Len(t, fc.Features, 1)
	assert.Equal(t, "a", fc.Features[0].Properties["name"])
}

func TestHTTPFetcherBadBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>not json</html>`))
	}))
	defer srv.Close()

	_, err := HTTPFetcher{Client: srv.Client()}.Fetch(context.Background(), srv.URL)
	assert.Error(t, err)
}

func TestHTTPFetcherStatus(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	l := New(HTTPFetcher{Client: srv.Client()})
	_, err := l.Resolve(context.Background(), Inputs{Base: RemoteBase(srv.URL), Config: DefaultConfig()})
	assert.ErrorIs(t, err, ErrFetchFailed)
}

func TestHTTPFetcherFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "base.geojson")
	require.NoError(t, os.WriteFile(path, []byte(remoteDoc), 0o644))

	for _, ref := range []string{path, "file://" + path} {
		fc, err := HTTPFetcher{}.Fetch(context.Background(), ref)
		require.NoError(t, err, ref)
		assert.Len(t, fc.Features, 1)
	}

	_, err := HTTPFetcher{}.Fetch(context.Background(), filepath.Join(t.TempDir(), "missing.geojson"))
	assert.Error(t, err)
}

func TestIsHTTP(t *testing.T) {
	assert.True(t, IsHTTP("http://a"))
	assert.True(t, IsHTTP("https://a/b.geojson"))
	assert.False(t, IsHTTP("file:///tmp/a.geojson"))
	assert.False(t, IsHTTP("routes.geojson"))
}
