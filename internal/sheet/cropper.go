// Package sheet cuts individual sprites out of spritesheet PNGs.
package sheet

import (
	"image"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"

	"fusiondex/internal/sprite"
	"fusiondex/pkg/apperr"
)

// Cropper decodes sheets on first use and keeps them until Evict.
// It is safe for concurrent use.
type Cropper struct {
	mu    sync.Mutex
	cache map[string]image.Image
}

func NewCropper() *Cropper {
	return &Cropper{cache: make(map[string]image.Image)}
}

// Sheet returns the decoded sheet at path.
func (c *Cropper) Sheet(path string) (image.Image, error) {
	c.mu.Lock()
	img, ok := c.cache[path]
	c.mu.Unlock()
	if ok {
		return img, nil
	}

	img, err := decodeFile(path)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindIO, "load sheet", err)
	}
	c.mu.Lock()
	c.cache[path] = img
	c.mu.Unlock()
	return img, nil
}

// Evict drops a decoded sheet from the cache.
func (c *Cropper) Evict(path string) {
	c.mu.Lock()
	delete(c.cache, path)
	c.mu.Unlock()
}

// Crop copies rect out of the sheet at path. A rect reaching past the sheet
// edge is an out of bounds error.
func (c *Cropper) Crop(path string, rect sprite.Rect) (image.Image, error) {
	img, err := c.Sheet(path)
	if err != nil {
		return nil, err
	}

	b := img.Bounds()
	r := rect.Bounds().Add(b.Min)
	if !r.In(b) {
		return nil, apperr.Newf(apperr.KindOutOfBounds,
			"%s: rect %v outside sheet %dx%d", path, rect.Bounds(), b.Dx(), b.Dy())
	}

	dst := image.NewNRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(dst, dst.Bounds(), img, r.Min, draw.Src)
	return dst, nil
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening sheet")
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding %s", filepath.Base(path))
	}
	return img, nil
}

func writePNG(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "creating output dir")
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating output file")
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return errors.Wrapf(err, "encoding %s", filepath.Base(path))
	}
	return errors.Wrap(f.Close(), "closing output file")
}
