package ingest_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"fusiondex/internal/catalog"
	"fusiondex/internal/ingest"
	"fusiondex/pkg/apperr"
	"fusiondex/pkg/models"
	"fusiondex/pkg/utils"
)

func TestParseCredits(t *testing.T) {
	in := "1.2,Alice & Bob,main,nice, really nice\r\n\r\n3a,Carol\n  \n4.5b,,alt,\n"
	rows, err := ingest.ParseCredits(strings.NewReader(in))
	require.NoError(t, err)
	require.Equal(t, []catalog.ImageInput{
		{SpriteID: "1.2", Artists: "Alice & Bob", Type: "main", Comments: "nice, really nice"},
		{SpriteID: "3a", Artists: "Carol"},
		{SpriteID: "4.5b", Type: "alt"},
	}, rows)
}

func TestParseManifest(t *testing.T) {
	in := "2.10.png\n2.9.png\n10.png\n2.9.png\n\n1a.png\n1.png\n"
	got, err := ingest.ParseManifest(strings.NewReader(in))
	require.NoError(t, err)
	require.Equal(t, []string{"1", "1a", "2.9", "2.10", "10"}, got)
}

// TestMergeManifest keeps credit order, then appends uncredited sprites.
func TestMergeManifest(t *testing.T) {
	credits := []catalog.ImageInput{
		{SpriteID: "5.1", Artists: "Alice"},
		{SpriteID: "1.2a", Artists: "Bob"},
	}
	merged := ingest.MergeManifest(credits, []string{"1.2A", "3", "1.2", "5.1"})
	require.Equal(t, []catalog.ImageInput{
		{SpriteID: "5.1", Artists: "Alice"},
		{SpriteID: "1.2a", Artists: "Bob"},
		{SpriteID: "1.2", Type: "main"},
		{SpriteID: "3", Type: "main"},
	}, merged)
}

func TestParseDex(t *testing.T) {
	in := "sprite,entry,author\n" +
		"1.2.png,\"A fusion, with commas\",Alice\n" +
		"\n" +
		"3.4,\"Two\nlines\", Bob \n" +
		"5\n"
	rows, err := ingest.ParseDex(strings.NewReader(in))
	require.NoError(t, err)
	require.Equal(t, []catalog.DexInput{
		{Sprite: "1.2.png", Entry: "A fusion, with commas", Author: "Alice"},
		{Sprite: "3.4", Entry: "Two\nlines", Author: "Bob"},
		{Sprite: "5"},
	}, rows)
}

func TestNaturalOrder(t *testing.T) {
	s := []string{"10.1", "2.10", "2.9b", "2.9", "2.9a", "01"}
	ingest.SortNatural(s)
	require.Equal(t, []string{"01", "2.9", "2.9a", "2.9b", "2.10", "10.1"}, s)
}

func TestReadSources(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
		return p
	}
	cfg := utils.CatalogConfig{
		CreditsPath: write("credits.txt", "1.2,Alice,main,\n"),
		SpritesPath: write("sprites.txt", "1.2.png\n7.png\n"),
		DexPath:     filepath.Join(dir, "missing.csv"),
	}

	src, err := ingest.ReadSources(cfg)
	require.NoError(t, err)
	require.Len(t, src.Images, 2)
	require.Equal(t, "7", src.Images[1].SpriteID)
	require.Empty(t, src.Dex)

	cfg.CreditsPath = filepath.Join(dir, "nope.txt")
	_, err = ingest.ReadSources(cfg)
	require.Equal(t, apperr.KindIO, apperr.KindOf(err))
}

// TestExportReadsBack writes credits and dex entries that parse to the same rows.
func TestExportReadsBack(t *testing.T) {
	var credits strings.Builder
	require.NoError(t, ingest.WriteCredits(&credits, []models.Image{
		{SpriteID: "1.2", Type: "main", Comments: "a, b", Artists: []string{"Alice", "Bob"}},
		{SpriteID: "3a", Type: "alt", Artists: []string{models.UnattributedArtist}},
	}))
	rows, err := ingest.ParseCredits(strings.NewReader(credits.String()))
	require.NoError(t, err)
	require.Equal(t, []catalog.ImageInput{
		{SpriteID: "1.2", Artists: "Alice & Bob", Type: "main", Comments: "a, b"},
		{SpriteID: "3a", Type: "alt"},
	}, rows)

	var dex strings.Builder
	require.NoError(t, ingest.WriteDex(&dex, []models.DexEntry{{SpriteID: "1.2", Entry: "Quote \"this\", ok", Author: "Bob"}}))
	entries, err := ingest.ParseDex(strings.NewReader(dex.String()))
	require.NoError(t, err)
	require.Equal(t, []catalog.DexInput{{Sprite: "1.2", Entry: "Quote \"this\", ok", Author: "Bob"}}, entries)
}
