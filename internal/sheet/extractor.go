package sheet

import (
	"context"
	"log/slog"
	"path/filepath"
	"sort"
	"sync/atomic"

	"github.com/nfnt/resize"
	"golang.org/x/sync/errgroup"

	"fusiondex/internal/sprite"
	"fusiondex/pkg/apperr"
)

// Extractor slices every requested sprite out of its sheet and writes it
// under OutputRoot.
type Extractor struct {
	Cropper      *Cropper
	Resolver     sprite.Resolver
	GraphicsRoot string
	OutputRoot   string
	// ThumbSize, when positive, also writes a thumbnail bounded to
	// ThumbSize x ThumbSize under OutputRoot/thumbs.
	ThumbSize int
	Workers   int
}

type Report struct {
	Sheets    int `json:"sheets"`
	Extracted int `json:"extracted"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}

// Run processes sheets in sorted order, several at once. A sprite that
// cannot be cut or written is logged and counted; only cancellation of ctx
// stops the batch.
func (e *Extractor) Run(ctx context.Context, ids []sprite.Identifier) (Report, error) {
	log := slog.With("component", "sheet")
	if e.Cropper == nil {
		e.Cropper = NewCropper()
	}

	bySheet := make(map[string][]sprite.Identifier)
	for _, id := range ids {
		p := e.Resolver.SheetPath(id)
		bySheet[p] = append(bySheet[p], id)
	}
	sheets := make([]string, 0, len(bySheet))
	for p := range bySheet {
		sheets = append(sheets, p)
	}
	sort.Strings(sheets)

	var extracted, skipped, failed atomic.Int64

	workers := e.Workers
	if workers <= 0 {
		workers = 4
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, rel := range sheets {
		rel := rel
		g.Go(func() error {
			path := filepath.Join(e.GraphicsRoot, rel)
			defer e.Cropper.Evict(path)

			img, err := e.Cropper.Sheet(path)
			if err != nil {
				log.Warn("sheet unreadable", "sheet", rel, "sprites", len(bySheet[rel]), "error", err)
				failed.Add(int64(len(bySheet[rel])))
				return nil
			}
			size := sprite.Sheet{Width: img.Bounds().Dx(), Height: img.Bounds().Dy()}

			for _, id := range bySheet[rel] {
				if err := gctx.Err(); err != nil {
					return err
				}
				switch err := e.extract(path, id, size); {
				case err == nil:
					extracted.Add(1)
				case apperr.Skippable(err):
					log.Debug("sprite skipped", "sprite", id.String(), "error", err)
					skipped.Add(1)
				default:
					log.Warn("sprite failed", "sprite", id.String(), "error", err)
					failed.Add(1)
				}
			}
			return nil
		})
	}
	err := g.Wait()

	rep := Report{
		Sheets:    len(sheets),
		Extracted: int(extracted.Load()),
		Skipped:   int(skipped.Load()),
		Failed:    int(failed.Load()),
	}
	log.Info("extraction finished",
		"sheets", rep.Sheets, "extracted", rep.Extracted, "skipped", rep.Skipped, "failed", rep.Failed)
	return rep, err
}

func (e *Extractor) extract(sheetPath string, id sprite.Identifier, size sprite.Sheet) error {
	rect, err := e.Resolver.Resolve(id, size)
	if err != nil {
		return err
	}
	tile, err := e.Cropper.Crop(sheetPath, rect)
	if err != nil {
		return err
	}

	out := e.Resolver.OutputPath(id)
	if err := writePNG(filepath.Join(e.OutputRoot, out), tile); err != nil {
		return apperr.Wrap(apperr.KindIO, "write "+out, err)
	}
	if e.ThumbSize > 0 {
		thumb := resize.Thumbnail(uint(e.ThumbSize), uint(e.ThumbSize), tile, resize.Lanczos3)
		if err := writePNG(filepath.Join(e.OutputRoot, "thumbs", out), thumb); err != nil {
			return apperr.Wrap(apperr.KindIO, "write thumbnail "+out, err)
		}
	}
	return nil
}
