package sheet

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"fusiondex/internal/sprite"
	"fusiondex/pkg/models"
)

// AutogenJobs lists every autogen sheet under root in head order and
// yields bodies 1..maxBody for each. Bodies past the sheet's last row are
// skipped by the extractor.
func AutogenJobs(root string, maxBody int) ([]sprite.Identifier, error) {
	dir := filepath.Join(root, "spritesheets_autogen")
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "listing %s", dir)
	}

	var heads []int
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.EqualFold(filepath.Ext(name), ".png") {
			continue
		}
		h, err := strconv.Atoi(strings.TrimSuffix(name, filepath.Ext(name)))
		if err != nil || h < 1 || h > sprite.MaxSpecies {
			continue
		}
		heads = append(heads, h)
	}
	sort.Ints(heads)

	if maxBody <= 0 || maxBody > sprite.MaxSpecies {
		maxBody = sprite.MaxSpecies
	}
	out := make([]sprite.Identifier, 0, len(heads)*maxBody)
	for _, h := range heads {
		for b := 1; b <= maxBody; b++ {
			out = append(out, sprite.Identifier{Head: h, Body: b, Category: sprite.Autogen})
		}
	}
	return out, nil
}

// CatalogJobs turns cataloged images into base and custom jobs. Ids that
// no longer parse are dropped.
func CatalogJobs(images []models.Image) []sprite.Identifier {
	out := make([]sprite.Identifier, 0, len(images))
	for _, img := range images {
		id, err := sprite.Parse(img.SpriteID)
		if err != nil {
			continue
		}
		out = append(out, id)
	}
	return out
}
