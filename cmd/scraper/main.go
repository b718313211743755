package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"fusiondex/internal/scraper"
	"fusiondex/pkg/database"
	"fusiondex/pkg/logger"
	"fusiondex/pkg/utils"
)

func main() {
	utils.LoadEnv()
	logger.Init(utils.LoadLogConfig())

	cfg := utils.LoadScraperConfig()
	var (
		from   = flag.Int("from", cfg.From, "first dex id")
		to     = flag.Int("to", cfg.To, "last dex id")
		out    = flag.String("out", cfg.OutPath, "JSON report path, empty to skip")
		replay = flag.String("replay", "", "load species from a saved report instead of the site")
		save   = flag.Bool("db", true, "upsert scraped species into the catalog database")
	)
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var src scraper.Source = scraper.NewFusiondex(cfg)
	if *replay != "" {
		fs, err := scraper.NewFileSource(*replay)
		if err != nil {
			slog.Error("load replay failed", "error", err)
			os.Exit(1)
		}
		src = fs
	}

	species, err := scraper.Scrape(ctx, src, *from, *to)
	if err != nil {
		slog.Error("scrape interrupted", "error", err, "scraped", len(species))
		os.Exit(1)
	}

	if *out != "" {
		if err := scraper.WriteJSON(*out, species); err != nil {
			slog.Error("write report failed", "error", err)
			os.Exit(1)
		}
		slog.Info("report written", "path", *out)
	}

	if *save {
		db := database.MustOpen(database.DefaultConfig())
		defer db.Close()
		if err := database.Migrate(db); err != nil {
			slog.Error("db migrate failed", "error", err)
			os.Exit(1)
		}
		if err := scraper.SaveToDatabase(ctx, db, scraper.SortedByID(species)); err != nil {
			slog.Error("save failed", "error", err)
			os.Exit(1)
		}
	}
	slog.Info("scrape complete", "species", len(species))
}
