// Package icon loads raster images used as arrow markers.
package icon

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"os"
	"strings"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"splinemap/internal/transport"
)

// ErrIconLoad wraps every failure to fetch or decode an icon.
var ErrIconLoad = errors.New("icon: load failed")

// Icon is a decoded raster registered under a name.
type Icon struct {
	Name   string
	Format string
	Image  image.Image
}

// Loader resolves icon URLs to rasters.
type Loader interface {
	Load(ctx context.Context, name, url string) (*Icon, error)
}

// HTTPLoader loads icons over HTTP(S) or from local paths (plain or file://).
type HTTPLoader struct {
	Client *http.Client
}

func (l HTTPLoader) Load(ctx context.Context, name, url string) (*Icon, error) {
	data, err := l.read(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrIconLoad, url, err)
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrIconLoad, url, err)
	}
	return &Icon{Name: name, Format: format, Image: img}, nil
}

func (l HTTPLoader) read(ctx context.Context, url string) ([]byte, error) {
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		return transport.Get(ctx, l.Client, url, "image/*")
	}
	return os.ReadFile(strings.TrimPrefix(url, "file://"))
}

// Size returns the pixel dimensions.
func (ic *Icon) Size() (w, h int) {
	b := ic.Image.Bounds()
	return b.Dx(), b.Dy()
}

// Braille renders a cols x rows thumbnail using braille cells (2x4 dots per
// cell). A dot is set where the scaled pixel is mostly opaque and not white.
func (ic *Icon) Braille(cols, rows int) []string {
	if cols <= 0 || rows <= 0 {
		return nil
	}
	w, h := cols*2, rows*4
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.BiLinear.Scale(dst, dst.Bounds(), ic.Image, ic.Image.Bounds(), draw.Over, nil)

	bits := [4][2]rune{{0x01, 0x08}, {0x02, 0x10}, {0x04, 0x20}, {0x40, 0x80}}
	out := make([]string, rows)
	for cy := 0; cy < rows; cy++ {
		line := make([]rune, cols)
		for cx := 0; cx < cols; cx++ {
			var mask rune
			for ry := 0; ry < 4; ry++ {
				for rx := 0; rx < 2; rx++ {
					c := dst.RGBAAt(cx*2+rx, cy*4+ry)
					lum := (int(c.R) + int(c.G) + int(c.B)) / 3
					if c.A >= 128 && lum < 200 {
						mask |= bits[ry][rx]
					}
				}
			}
			if mask == 0 {
				line[cx] = ' '
			} else {
				line[cx] = 0x2800 + mask
			}
		}
		out[cy] = string(line)
	}
	return out
}
