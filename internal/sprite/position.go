package sprite

import (
	"fmt"
	"image"
	"path/filepath"
	"strconv"

	"fusiondex/pkg/apperr"
)

// DefaultTileSize is the edge of one sprite tile in the shipped sheets.
const DefaultTileSize = 288

// Rect is a tile's pixel rectangle inside its sheet.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (r Rect) Bounds() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// Sheet carries the pixel size of a spritesheet. A zero Width skips the
// horizontal check.
type Sheet struct {
	Width  int
	Height int
}

// Resolver maps identifiers to grid cells. Every category has its own
// column count; tiles are square.
type Resolver struct {
	TileSize int
	Columns  map[Category]int
}

func NewResolver(tileSize int) Resolver {
	if tileSize <= 0 {
		tileSize = DefaultTileSize
	}
	return Resolver{
		TileSize: tileSize,
		Columns: map[Category]int{
			Base:    10,
			Custom:  20,
			Autogen: 10,
		},
	}
}

// Cell returns the linear grid index of id. Base sheets hold the plain art
// in cell 0 and alt "a" in cell 1; fusion sheets are indexed by body id.
func (r Resolver) Cell(id Identifier) int {
	if id.Category == Base {
		return LettersToIndex(id.Alt)
	}
	return id.Body
}

// Resolve returns the rectangle of id inside a sheet of the given size.
func (r Resolver) Resolve(id Identifier, sheet Sheet) (Rect, error) {
	if err := id.Validate(); err != nil {
		return Rect{}, err
	}
	cols := r.Columns[id.Category]
	if cols <= 0 {
		return Rect{}, fmt.Errorf("resolve %s: no column count for %s sheets", id, id.Category)
	}

	i := r.Cell(id)
	if i < 0 {
		return Rect{}, apperr.Newf(apperr.KindOutOfBounds, "sprite %s: negative cell %d", id, i)
	}
	rect := Rect{
		X:      (i % cols) * r.TileSize,
		Y:      (i / cols) * r.TileSize,
		Width:  r.TileSize,
		Height: r.TileSize,
	}
	if rect.Y+rect.Height > sheet.Height {
		return Rect{}, apperr.Newf(apperr.KindOutOfBounds,
			"sprite %s: row ends at y=%d, sheet height %d", id, rect.Y+rect.Height, sheet.Height)
	}
	if sheet.Width > 0 && rect.X+rect.Width > sheet.Width {
		return Rect{}, apperr.Newf(apperr.KindOutOfBounds,
			"sprite %s: column ends at x=%d, sheet width %d", id, rect.X+rect.Width, sheet.Width)
	}
	return rect, nil
}

// SheetPath is where the sheet holding id lives, relative to the graphics root.
func (r Resolver) SheetPath(id Identifier) string {
	head := strconv.Itoa(id.Head)
	switch id.Category {
	case Custom:
		return filepath.Join("spritesheets_custom", head, head+id.Alt+".png")
	case Autogen:
		return filepath.Join("spritesheets_autogen", head+".png")
	default:
		return filepath.Join("spritesheets_base", head+".png")
	}
}

// OutputPath is where the extracted tile of id is written, relative to the
// output root.
func (r Resolver) OutputPath(id Identifier) string {
	head := strconv.Itoa(id.Head)
	switch id.Category {
	case Custom:
		return filepath.Join("custom", head, id.String()+".png")
	case Autogen:
		return filepath.Join("autogen", head, id.String()+".png")
	default:
		return filepath.Join("base", id.String()+".png")
	}
}
