// Package fusion aggregates per-species fusion totals over the catalog.
package fusion

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"fusiondex/pkg/models"
)

// Counter answers one directional fusion count. catalog.Store satisfies it.
type Counter interface {
	CountFusions(ctx context.Context, species int, asHead bool) (int, error)
}

// DefaultWorkers bounds concurrent count queries when Workers is unset.
const DefaultWorkers = 8

type Aggregator struct {
	Counter Counter
	Workers int
}

func NewAggregator(c Counter, workers int) *Aggregator {
	return &Aggregator{Counter: c, Workers: workers}
}

// ComputeFusionTotals counts head and body fusions for every species in
// [from, to]. The first failing query cancels the rest and is returned.
func (a *Aggregator) ComputeFusionTotals(ctx context.Context, from, to int) (Totals, error) {
	if from < 1 || to < from {
		return nil, fmt.Errorf("compute fusion totals: bad range [%d, %d]", from, to)
	}
	workers := a.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	start := time.Now()
	counts := make([]models.FusionCount, to-from+1)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for species := from; species <= to; species++ {
		species := species
		slot := &counts[species-from]
		g.Go(func() error {
			head, err := a.Counter.CountFusions(gctx, species, true)
			if err != nil {
				return fmt.Errorf("species %d as head: %w", species, err)
			}
			body, err := a.Counter.CountFusions(gctx, species, false)
			if err != nil {
				return fmt.Errorf("species %d as body: %w", species, err)
			}
			*slot = models.FusionCount{Head: head, Body: body}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	totals := make(Totals, len(counts))
	for i, c := range counts {
		totals[from+i] = c
	}
	slog.With("component", "fusion").Info("fusion totals computed",
		"species", len(totals), "workers", workers, "took", time.Since(start))
	return totals, nil
}
