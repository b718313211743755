package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"fusiondex/internal/catalog"
	"fusiondex/pkg/apperr"
	"fusiondex/pkg/utils"
)

// ReadSources parses the credit list, the optional sprite manifest and the
// optional dex table named by cfg.
func ReadSources(cfg utils.CatalogConfig) (catalog.Sources, error) {
	log := slog.With("component", "ingest")

	var credits []catalog.ImageInput
	if err := withFile(cfg.CreditsPath, false, func(r io.Reader) (err error) {
		credits, err = ParseCredits(r)
		return err
	}); err != nil {
		return catalog.Sources{}, err
	}

	var manifest []string
	if err := withFile(cfg.SpritesPath, true, func(r io.Reader) (err error) {
		manifest, err = ParseManifest(r)
		return err
	}); err != nil {
		return catalog.Sources{}, err
	}

	var dex []catalog.DexInput
	if err := withFile(cfg.DexPath, true, func(r io.Reader) (err error) {
		dex, err = ParseDex(r)
		return err
	}); err != nil {
		return catalog.Sources{}, err
	}

	images := MergeManifest(credits, manifest)
	log.Info("sources read",
		"credits", len(credits),
		"manifest", len(manifest),
		"images", len(images),
		"dex", len(dex),
	)
	return catalog.Sources{Images: images, Dex: dex}, nil
}

// Loader adapts ReadSources to the rebuild endpoint.
func Loader(cfg utils.CatalogConfig) catalog.SourceLoader {
	return func(context.Context) (catalog.Sources, error) {
		return ReadSources(cfg)
	}
}

func withFile(path string, optional bool, fn func(io.Reader) error) error {
	if path == "" && optional {
		return nil
	}
	f, err := os.Open(path)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			slog.With("component", "ingest").Warn("optional input missing", "path", path)
			return nil
		}
		return apperr.Wrap(apperr.KindIO, fmt.Sprintf("open %s", path), err)
	}
	defer f.Close()

	if err := fn(f); err != nil {
		return apperr.Wrap(apperr.KindIO, fmt.Sprintf("parse %s", path), err)
	}
	return nil
}
