package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"fusiondex/internal/catalog"
	"fusiondex/internal/ingest"
	"fusiondex/pkg/database"
	"fusiondex/pkg/logger"
	"fusiondex/pkg/utils"
)

func main() {
	utils.LoadEnv()
	logger.Init(utils.LoadLogConfig())

	cfg := utils.LoadCatalogConfig()
	var (
		credits = flag.String("credits", cfg.CreditsPath, "credit list (sprite_id,artists,type,comments)")
		sprites = flag.String("sprites", cfg.SpritesPath, "sprite manifest, one filename per line")
		dex     = flag.String("dex", cfg.DexPath, "dex entry CSV (sprite,entry,author)")
		timeout = flag.Duration("timeout", 5*time.Minute, "overall deadline")
	)
	flag.Parse()
	cfg.CreditsPath, cfg.SpritesPath, cfg.DexPath = *credits, *sprites, *dex

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		slog.Error("db migrate failed", "error", err)
		os.Exit(1)
	}

	src, err := ingest.ReadSources(cfg)
	if err != nil {
		slog.Error("read sources failed", "error", err)
		os.Exit(1)
	}

	rep, err := catalog.NewStore(db).Build(ctx, src)
	if err != nil {
		slog.Error("build failed", "run_id", rep.RunID, "error", err)
		os.Exit(1)
	}

	for _, s := range append(rep.Images.Skipped, rep.Dex.Skipped...) {
		slog.Warn("skipped", "token", s.Token, "reason", s.Reason)
	}
	slog.Info("catalog built",
		"run_id", rep.RunID,
		"images", rep.Images.Images,
		"credits", rep.Images.Credits,
		"duplicates", len(rep.Images.Duplicates),
		"dex_entries", rep.Dex.Entries,
	)
}
