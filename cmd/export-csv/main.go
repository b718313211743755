package main

import (
	"context"
	"flag"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"fusiondex/internal/catalog"
	"fusiondex/internal/ingest"
	"fusiondex/pkg/database"
	"fusiondex/pkg/logger"
	"fusiondex/pkg/utils"
)

// export-csv dumps the catalog back into the input formats build-catalog
// reads.
func main() {
	utils.LoadEnv()
	logger.Init(utils.LoadLogConfig())

	var (
		creditsOut = flag.String("credits", "export/credits.txt", "output path for the credit list")
		dexOut     = flag.String("dex", "export/dex.csv", "output path for dex entries")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()
	store := catalog.NewStore(db)

	images, err := store.ListImages(ctx)
	if err != nil {
		slog.Error("list images failed", "error", err)
		os.Exit(1)
	}
	for i := range images {
		if images[i].Artists, err = store.ArtistsFor(ctx, images[i].SpriteID); err != nil {
			slog.Error("list artists failed", "sprite_id", images[i].SpriteID, "error", err)
			os.Exit(1)
		}
	}
	entries, err := store.ListDexEntries(ctx)
	if err != nil {
		slog.Error("list dex entries failed", "error", err)
		os.Exit(1)
	}

	if err := writeFile(*creditsOut, func(w io.Writer) error { return ingest.WriteCredits(w, images) }); err != nil {
		slog.Error("export credits failed", "error", err)
		os.Exit(1)
	}
	if err := writeFile(*dexOut, func(w io.Writer) error { return ingest.WriteDex(w, entries) }); err != nil {
		slog.Error("export dex failed", "error", err)
		os.Exit(1)
	}
	slog.Info("catalog exported", "images", len(images), "dex_entries", len(entries),
		"credits_path", *creditsOut, "dex_path", *dexOut)
}

func writeFile(path string, fn func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
