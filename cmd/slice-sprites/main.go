package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"fusiondex/internal/catalog"
	"fusiondex/internal/sheet"
	"fusiondex/internal/sprite"
	"fusiondex/pkg/database"
	"fusiondex/pkg/logger"
	"fusiondex/pkg/models"
	"fusiondex/pkg/utils"
)

func main() {
	utils.LoadEnv()
	logger.Init(utils.LoadLogConfig())

	cfg := utils.LoadSheetConfig()
	catCfg := utils.LoadCatalogConfig()
	var (
		mode    = flag.String("mode", "catalog", "catalog (base and custom sprites from the catalog) or autogen")
		in      = flag.String("in", cfg.GraphicsRoot, "graphics root holding the spritesheets")
		out     = flag.String("out", cfg.OutputRoot, "output root")
		thumb   = flag.Int("thumb", cfg.ThumbSize, "thumbnail edge in pixels, 0 to skip")
		workers = flag.Int("workers", catCfg.Workers, "sheets processed at once")
	)
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		ids []sprite.Identifier
		err error
	)
	switch *mode {
	case "autogen":
		ids, err = sheet.AutogenJobs(*in, catCfg.MaxSpecies)
	case "catalog":
		db := database.MustOpen(database.DefaultConfig())
		defer db.Close()
		var images []models.Image
		images, err = catalog.NewStore(db).ListImages(ctx)
		ids = sheet.CatalogJobs(images)
	default:
		slog.Error("unknown mode", "mode", *mode)
		os.Exit(2)
	}
	if err != nil {
		slog.Error("collect jobs failed", "mode", *mode, "error", err)
		os.Exit(1)
	}

	ex := &sheet.Extractor{
		Resolver:     sprite.NewResolver(cfg.TileSize),
		GraphicsRoot: *in,
		OutputRoot:   *out,
		ThumbSize:    *thumb,
		Workers:      *workers,
	}
	rep, err := ex.Run(ctx, ids)
	if err != nil {
		slog.Error("extraction stopped", "error", err)
		os.Exit(1)
	}
	slog.Info("done", "mode", *mode, "extracted", rep.Extracted, "skipped", rep.Skipped, "failed", rep.Failed)
}
