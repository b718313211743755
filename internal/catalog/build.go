package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Sources is everything a rebuild loads, already parsed.
type Sources struct {
	Images []ImageInput
	Dex    []DexInput
}

type BuildReport struct {
	RunID      string     `json:"run_id"`
	Images     LoadReport `json:"images"`
	Dex        LoadReport `json:"dex"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt time.Time  `json:"finished_at"`
}

// Build runs a full reload: schema rebuild, then images, then dex entries.
// Each source commits on its own, so a failed dex load leaves the images in
// place.
func (s *Store) Build(ctx context.Context, src Sources) (BuildReport, error) {
	rep := BuildReport{RunID: uuid.NewString(), StartedAt: time.Now().UTC()}
	log := s.logger().With("run_id", rep.RunID)

	log.Info("rebuilding catalog", "images_in", len(src.Images), "dex_in", len(src.Dex))
	if err := s.RebuildSchema(ctx); err != nil {
		return rep, fmt.Errorf("rebuild schema: %w", err)
	}

	images, err := s.LoadImages(ctx, src.Images)
	if err != nil {
		return rep, fmt.Errorf("load images: %w", err)
	}
	rep.Images = images

	dex, err := s.LoadDexEntries(ctx, src.Dex)
	if err != nil {
		return rep, fmt.Errorf("load dex entries: %w", err)
	}
	rep.Dex = dex

	rep.FinishedAt = time.Now().UTC()
	log.Info("catalog rebuilt", "took", rep.FinishedAt.Sub(rep.StartedAt))
	return rep, nil
}
