package sheet_test

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"fusiondex/internal/sheet"
	"fusiondex/internal/sprite"
	"fusiondex/pkg/apperr"
	"fusiondex/pkg/models"
)

const tile = 2

// writeSheet paints cell i of a cols x rows grid with red = i*10.
func writeSheet(t *testing.T, path string, cols, rows int) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, cols*tile, rows*tile))
	for y := 0; y < rows*tile; y++ {
		for x := 0; x < cols*tile; x++ {
			cell := (y/tile)*cols + x/tile
			img.Set(x, y, color.NRGBA{R: uint8(cell * 10), A: 255})
		}
	}
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
}

func redAt(t *testing.T, path string) uint8 {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	r, _, _, _ := img.At(0, 0).RGBA()
	return uint8(r >> 8)
}

func TestCropBounds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.png")
	writeSheet(t, path, 3, 1)

	c := sheet.NewCropper()
	img, err := c.Crop(path, sprite.Rect{X: 2, Y: 0, Width: 2, Height: 2})
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 2, 2), img.Bounds())
	r, _, _, _ := img.At(0, 0).RGBA()
	require.EqualValues(t, 10, r>>8)

	_, err = c.Crop(path, sprite.Rect{X: 4, Y: 0, Width: 4, Height: 2})
	require.Equal(t, apperr.KindOutOfBounds, apperr.KindOf(err))

	_, err = c.Crop(filepath.Join(t.TempDir(), "missing.png"), sprite.Rect{Width: 1, Height: 1})
	require.Equal(t, apperr.KindIO, apperr.KindOf(err))
}

func TestExtractorRun(t *testing.T) {
	root, out := t.TempDir(), t.TempDir()
	writeSheet(t, filepath.Join(root, "spritesheets_base", "1.png"), 10, 1)
	writeSheet(t, filepath.Join(root, "spritesheets_custom", "4", "4.png"), 20, 1)

	ids := sheet.CatalogJobs([]models.Image{
		{SpriteID: "1"},
		{SpriteID: "1a"},
		{SpriteID: "1k"},   // cell 11, second row
		{SpriteID: "4.7"},  // custom cell 7
		{SpriteID: "4.7b"}, // sheet 4b.png is missing
		{SpriteID: "bad"},
	})
	require.Len(t, ids, 5)

	ex := &sheet.Extractor{
		Resolver:     sprite.NewResolver(tile),
		GraphicsRoot: root,
		OutputRoot:   out,
		ThumbSize:    1,
		Workers:      2,
	}
	rep, err := ex.Run(context.Background(), ids)
	require.NoError(t, err)
	require.Equal(t, sheet.Report{Sheets: 3, Extracted: 3, Skipped: 1, Failed: 1}, rep)

	require.EqualValues(t, 0, redAt(t, filepath.Join(out, "base", "1.png")))
	require.EqualValues(t, 10, redAt(t, filepath.Join(out, "base", "1a.png")))
	require.EqualValues(t, 70, redAt(t, filepath.Join(out, "custom", "4", "4.7.png")))
	require.FileExists(t, filepath.Join(out, "thumbs", "custom", "4", "4.7.png"))
	require.NoFileExists(t, filepath.Join(out, "base", "1k.png"))
}

// TestAutogenJobs skips bodies below the last sheet row.
func TestAutogenJobs(t *testing.T) {
	root, out := t.TempDir(), t.TempDir()
	writeSheet(t, filepath.Join(root, "spritesheets_autogen", "3.png"), 10, 1)
	writeSheet(t, filepath.Join(root, "spritesheets_autogen", "12.png"), 10, 2)
	require.NoError(t, os.WriteFile(filepath.Join(root, "spritesheets_autogen", "notes.txt"), nil, 0o644))

	ids, err := sheet.AutogenJobs(root, 12)
	require.NoError(t, err)
	require.Len(t, ids, 24)
	require.Equal(t, "3.1", ids[0].String())
	require.Equal(t, "12.12", ids[23].String())

	ex := &sheet.Extractor{Resolver: sprite.NewResolver(tile), GraphicsRoot: root, OutputRoot: out}
	rep, err := ex.Run(context.Background(), ids)
	require.NoError(t, err)
	// head 3 fits bodies 1..9, head 12 fits bodies 1..12
	require.Equal(t, 21, rep.Extracted)
	require.Equal(t, 3, rep.Skipped)
	require.EqualValues(t, 90, redAt(t, filepath.Join(out, "autogen", "3", "3.9.png")))
}
