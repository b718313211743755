package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"fusiondex/internal/catalog"
	"fusiondex/internal/fusion"
	"fusiondex/pkg/database"
	"fusiondex/pkg/logger"
	"fusiondex/pkg/utils"
)

func main() {
	utils.LoadEnv()
	logger.Init(utils.LoadLogConfig())

	cfg := utils.LoadCatalogConfig()
	var (
		out     = flag.String("out", cfg.TotalsPath, "output JSON path")
		from    = flag.Int("from", 1, "first species id")
		to      = flag.Int("to", cfg.MaxSpecies, "last species id")
		workers = flag.Int("workers", cfg.Workers, "concurrent count queries")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()

	agg := fusion.NewAggregator(catalog.NewStore(db), *workers)
	totals, err := agg.ComputeFusionTotals(ctx, *from, *to)
	if err != nil {
		slog.Error("compute fusion totals failed", "error", err)
		os.Exit(1)
	}
	if err := fusion.WriteReport(*out, totals); err != nil {
		slog.Error("write report failed", "error", err)
		os.Exit(1)
	}
	slog.Info("fusion totals written", "path", *out, "species", len(totals))
}
