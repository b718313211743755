package scraper_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"fusiondex/internal/catalog"
	"fusiondex/internal/scraper"
	"fusiondex/pkg/apperr"
	"fusiondex/pkg/database"
	"fusiondex/pkg/models"
	"fusiondex/pkg/utils"
)

const page = `<!doctype html>
<html><body>
<article class="dex-entry sprite-variant-alt"><header><h2>Wrong</h2></header></article>
<article class="dex-entry sprite-variant-main">
  <header><h2><span class="dex-id">#%d</span> %s</h2></header>
  <section class="types">
    <div class="type"><span class="type-electric">Electric</span></div>
    <div class="type"><span class="type-steel">Steel</span></div>
  </section>
  <dl class="stats">
    <dt class="base_hp">HP</dt><dd class="base_hp">70</dd>
    <dt class="base_atk">Atk</dt><dd class="note">n/a</dd><dd class="base_atk">85</dd>
    <dt class="base_spd">Spd</dt><dd class="base_spd"> 101 </dd>
    <dt class="total">Total</dt><dd class="total">480</dd>
  </dl>
  <dl class="data">
    <dt class="height">Height</dt><dd class="height">1.2 m</dd>
    <dt class="category">Category</dt><dd class="category">Magnet</dd>
  </dl>
</article>
</body></html>`

func TestParsePage(t *testing.T) {
	doc, err := html.Parse(strings.NewReader(fmt.Sprintf(page, 502, "Voltmag")))
	require.NoError(t, err)

	sp, err := scraper.ParsePage(doc)
	require.NoError(t, err)
	require.Equal(t, models.Species{
		ID:       502,
		FullName: "Voltmag",
		Types:    []string{"Electric", "Steel"},
		HP:       70,
		Attack:   85,
		Speed:    101,
		Total:    480,
		Height:   "1.2 m",
		Category: "Magnet",
	}, sp)
}

func TestParsePageWithoutArticle(t *testing.T) {
	doc, err := html.Parse(strings.NewReader(`<html><body><p>gone</p></body></html>`))
	require.NoError(t, err)
	_, err = scraper.ParsePage(doc)
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func newSite(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/501/":
			fmt.Fprintf(w, page, 501, "Voltmag")
		case "/502/":
			fmt.Fprint(w, `<html><body>maintenance</body></html>`)
		case "/503/":
			http.Error(w, "boom", http.StatusInternalServerError)
		case "/504/":
			fmt.Fprintf(w, page, 504, "Ferrox")
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

// TestScrape skips missing and failing pages and keys by name.
func TestScrape(t *testing.T) {
	srv := newSite(t)
	src := scraper.NewFusiondex(utils.ScraperConfig{BaseURL: srv.URL + "/", RequestsPerSecond: 1000})

	_, err := src.Fetch(context.Background(), 505)
	require.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	got, err := scraper.Scrape(context.Background(), src, 501, 505)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, 501, got["Voltmag"].ID)
	require.Equal(t, 504, got["Ferrox"].ID)
}

func TestScrapeCancelled(t *testing.T) {
	srv := newSite(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := scraper.Scrape(ctx, scraper.NewFusiondex(utils.ScraperConfig{BaseURL: srv.URL}), 501, 504)
	require.ErrorIs(t, err, context.Canceled)
}

// TestPersistAndReplay saves, writes and reloads a scrape.
func TestPersistAndReplay(t *testing.T) {
	dir := t.TempDir()
	db, err := database.Open(database.Config{Path: filepath.Join(dir, "c.sqlite")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(db))

	byName := map[string]models.Species{
		"Voltmag": {ID: 501, FullName: "Voltmag", Types: []string{"Electric"}, HP: 70},
		"Ferrox":  {ID: 504, FullName: "Ferrox", Speed: 12},
	}
	ctx := context.Background()
	require.NoError(t, scraper.SaveToDatabase(ctx, db, scraper.SortedByID(byName)))
	byName["Voltmag"] = models.Species{ID: 501, FullName: "Voltmag", HP: 75}
	require.NoError(t, scraper.SaveToDatabase(ctx, db, scraper.SortedByID(byName)))

	sp, err := catalog.NewStore(db).GetSpecies(ctx, 501)
	require.NoError(t, err)
	require.Equal(t, 75, sp.HP)
	require.Empty(t, sp.Types)

	path := filepath.Join(dir, "report.json")
	require.NoError(t, scraper.WriteJSON(path, byName))
	src, err := scraper.NewFileSource(path)
	require.NoError(t, err)

	got, err := scraper.Scrape(ctx, src, 500, 505)
	require.NoError(t, err)
	require.Equal(t, byName, got)
}
