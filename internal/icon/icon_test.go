package icon

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// arrowPNG draws an opaque black triangle pointing right on a transparent
// background.
func arrowPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		half := y
		if y >= 8 {
			half = 15 - y
		}
		for x := 0; x <= half*2 && x < 16; x++ {
			img.Set(x, y, color.Black)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestHTTPLoaderLoad(t *testing.T) {
	data := arrowPNG(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(data)
	}))
	defer srv.Close()

	ic, err := HTTPLoader{Client: srv.Client()}.Load(context.Background(), "arrow", srv.URL+"/arrow.png")
	require.NoError(t, err)
	assert.Equal(t, "arrow", ic.Name)
	assert.Equal(t, "png", ic.Format)
	w, h := ic.Size()
	assert.Equal(t, 16, w)
	assert.Equal(t, 16, h)
}

func TestHTTPLoaderFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "arrow.png")
	require.NoError(t, os.WriteFile(p, arrowPNG(t), 0o644))

	ic, err := HTTPLoader{}.Load(context.Background(), "arrow", "file://"+p)
	require.NoError(t, err)
	assert.Equal(t, "png", ic.Format)
}

func TestHTTPLoaderErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/missing.png":
			http.NotFound(w, r)
		default:
			w.Write([]byte("definitely not an image"))
		}
	}))
	defer srv.Close()

	l := HTTPLoader{Client: srv.Client()}
	for _, u := range []string{srv.URL + "/missing.png", srv.URL + "/garbage.png", filepath.Join(t.TempDir(), "nope.png")} {
		_, err := l.Load(context.Background(), "arrow", u)
		assert.ErrorIs(t, err, ErrIconLoad, u)
	}
}

func TestBraille(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.Black)
		}
	}
	ic := &Icon{Name: "block", Image: img}
	lines := ic.Braille(3, 2)
	require.Len(t, lines, 2)
	for _, l := range lines {
		assert.Equal(t, "⣿⣿⣿", l)
	}

	empty := &Icon{Image: image.NewNRGBA(image.Rect(0, 0, 4, 4))}
	for _, l := range empty.Braille(2, 1) {
		assert.Equal(t, "  ", l)
	}
	assert.Nil(t, ic.Braille(0, 3))
}
