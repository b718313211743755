// Package scraper collects species attribute pages and stores them next to
// the sprite catalog.
package scraper

import (
	"context"
	"log/slog"
	"strings"

	"fusiondex/pkg/apperr"
	"fusiondex/pkg/models"
)

// Source is implemented by each place species pages come from (the live
// site, a saved report). Fetch returns an apperr.KindNotFound error for ids
// the source does not have.
type Source interface {
	Name() string
	Fetch(ctx context.Context, id int) (models.Species, error)
}

// Scrape fetches ids from..to in order and keys the results by full name.
// Missing pages and failing pages are logged and skipped; only ctx
// cancellation aborts the run.
func Scrape(ctx context.Context, src Source, from, to int) (map[string]models.Species, error) {
	log := slog.With("component", "scraper", "source", src.Name())
	out := make(map[string]models.Species)

	log.Info("scraping", "from", from, "to", to)
	for id := from; id <= to; id++ {
		if err := ctx.Err(); err != nil {
			return out, err
		}

		sp, err := src.Fetch(ctx, id)
		switch {
		case err == nil:
		case apperr.KindOf(err) == apperr.KindNotFound:
			log.Warn("page not found, skipping", "id", id)
			continue
		case ctx.Err() != nil:
			return out, ctx.Err()
		default:
			log.Error("fetch failed, skipping", "id", id, "error", err)
			continue
		}

		if sp.FullName == "" {
			log.Warn("page has no name, skipping", "id", id)
			continue
		}
		if existing, ok := out[sp.FullName]; ok {
			sp = mergeSpecies(existing, sp)
		}
		out[sp.FullName] = sp
	}
	log.Info("scrape finished", "species", len(out))
	return out, nil
}

// mergeSpecies resolves two pages that carry the same name: the first wins,
// gaps are filled from the second and types are unioned.
func mergeSpecies(base, incoming models.Species) models.Species {
	if base.ID == 0 {
		base.ID = incoming.ID
	}
	base.Types = mergeStringSlices(base.Types, incoming.Types)

	fill := func(dst *int, v int) {
		if *dst == 0 {
			*dst = v
		}
	}
	fill(&base.HP, incoming.HP)
	fill(&base.Attack, incoming.Attack)
	fill(&base.Defense, incoming.Defense)
	fill(&base.SpecialAttack, incoming.SpecialAttack)
	fill(&base.SpecialDefense, incoming.SpecialDefense)
	fill(&base.Speed, incoming.Speed)
	fill(&base.Total, incoming.Total)

	fillStr := func(dst *string, v string) {
		if strings.TrimSpace(*dst) == "" {
			*dst = v
		}
	}
	fillStr(&base.Height, incoming.Height)
	fillStr(&base.Weight, incoming.Weight)
	fillStr(&base.Category, incoming.Category)
	return base
}

func appendIfMissing(slice []string, v string) []string {
	for _, x := range slice {
		if x == v {
			return slice
		}
	}
	return append(slice, v)
}

func mergeStringSlices(a, b []string) []string {
	out := make([]string, 0, len(a)+len(b))
	out = append(out, a...)
	for _, v := range b {
		out = appendIfMissing(out, v)
	}
	return out
}
