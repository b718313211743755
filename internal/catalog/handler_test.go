package catalog_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"fusiondex/internal/catalog"
	"fusiondex/internal/events"
	"fusiondex/internal/sprite"
	"fusiondex/pkg/models"
)

type recordingBroadcaster struct {
	got []any
}

func (r *recordingBroadcaster) BroadcastJSON(v any) { r.got = append(r.got, v) }

func newRouter(t *testing.T) (*gin.Engine, *catalog.Store, *recordingBroadcaster) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := openStore(t)
	ctx := context.Background()
	require.NoError(t, store.RebuildSchema(ctx))
	_, err := store.LoadImages(ctx, []catalog.ImageInput{
		{SpriteID: "4.21", Artists: "Alice & Bob"},
		{SpriteID: "4.21a", Artists: "Alicia"},
		{SpriteID: "21.4"},
	})
	require.NoError(t, err)
	_, err = store.LoadDexEntries(ctx, []catalog.DexInput{{Sprite: "4.21.png", Entry: "#1 fan", Author: "Bob"}})
	require.NoError(t, err)

	load := func(context.Context) (catalog.Sources, error) {
		return catalog.Sources{Images: []catalog.ImageInput{{SpriteID: "1.1"}}}, nil
	}
	ev := &recordingBroadcaster{}
	h := catalog.NewHandler(store, sprite.NewResolver(288), load, ev)

	r := gin.New()
	h.RegisterRoutes(r.Group(""))
	h.RegisterAdminRoutes(r.Group("/admin"))
	return r, store, ev
}

func get(t *testing.T, r http.Handler, method, path string, out any) int {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if out != nil && w.Code < 300 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
	}
	return w.Code
}

// TestGetSprite returns the image, its credits and dex entries.
func TestGetSprite(t *testing.T) {
	r, _, _ := newRouter(t)

	var body struct {
		Image struct {
			SpriteID string   `json:"sprite_id"`
			Artists  []string `json:"artists"`
		} `json:"image"`
		DexEntries []struct {
			Entry string `json:"entry"`
		} `json:"dex_entries"`
	}
	require.Equal(t, http.StatusOK, get(t, r, http.MethodGet, "/sprites/4.21", &body))
	require.Equal(t, "4.21", body.Image.SpriteID)
	require.Equal(t, []string{"Alice", "Bob"}, body.Image.Artists)
	require.Len(t, body.DexEntries, 1)
	require.Equal(t, "_1 fan", body.DexEntries[0].Entry)

	require.Equal(t, http.StatusNotFound, get(t, r, http.MethodGet, "/sprites/9.9", nil))
	require.Equal(t, http.StatusBadRequest, get(t, r, http.MethodGet, "/sprites/abc", nil))
}

func TestListByBase(t *testing.T) {
	r, _, _ := newRouter(t)
	var body struct {
		Items []struct {
			SpriteID string `json:"sprite_id"`
		} `json:"items"`
	}
	require.Equal(t, http.StatusOK, get(t, r, http.MethodGet, "/sprites?base=4.21", &body))
	require.Len(t, body.Items, 2)
	require.Equal(t, http.StatusBadRequest, get(t, r, http.MethodGet, "/sprites?base=4.21a", nil))
}

// TestPosition resolves grid cells and enforces sheet bounds.
func TestPosition(t *testing.T) {
	r, _, _ := newRouter(t)

	var body struct {
		Sheet string      `json:"sheet"`
		Rect  sprite.Rect `json:"rect"`
	}
	require.Equal(t, http.StatusOK, get(t, r, http.MethodGet, "/sprites/4.21/position", &body))
	require.Equal(t, sprite.Rect{X: 288, Y: 288, Width: 288, Height: 288}, body.Rect)

	require.Equal(t, http.StatusOK, get(t, r, http.MethodGet, "/sprites/4.21/position?category=autogen", &body))
	require.Equal(t, sprite.Rect{X: 288, Y: 576, Width: 288, Height: 288}, body.Rect)

	require.Equal(t, http.StatusUnprocessableEntity, get(t, r, http.MethodGet, "/sprites/4.21/position?height=288", nil))
	require.Equal(t, http.StatusBadRequest, get(t, r, http.MethodGet, "/sprites/4.21a/position?category=autogen", nil))
}

func TestFusions(t *testing.T) {
	r, _, _ := newRouter(t)
	var body struct {
		Head int `json:"head"`
		Body int `json:"body"`
	}
	require.Equal(t, http.StatusOK, get(t, r, http.MethodGet, "/species/4/fusions", &body))
	require.Equal(t, 1, body.Head)
	require.Equal(t, 1, body.Body)
	require.Equal(t, http.StatusBadRequest, get(t, r, http.MethodGet, "/species/0/fusions", nil))
	require.Equal(t, http.StatusBadRequest, get(t, r, http.MethodGet, "/species/502/fusions", nil))
	require.Equal(t, http.StatusNotFound, get(t, r, http.MethodGet, "/species/4", nil))
}

// TestSpeciesBeyondDex reads a scraped page whose id is past the base dex.
func TestSpeciesBeyondDex(t *testing.T) {
	r, store, _ := newRouter(t)
	_, err := store.DB.Exec(`INSERT INTO species (id, full_name, types) VALUES (550, 'Extra', '["Normal"]')`)
	require.NoError(t, err)

	var sp models.Species
	require.Equal(t, http.StatusOK, get(t, r, http.MethodGet, "/species/550", &sp))
	require.Equal(t, "Extra", sp.FullName)
	require.Equal(t, []string{"Normal"}, sp.Types)

	require.Equal(t, http.StatusBadRequest, get(t, r, http.MethodGet, "/species/0", nil))
	require.Equal(t, http.StatusBadRequest, get(t, r, http.MethodGet, "/species/x", nil))
}

func TestArtists(t *testing.T) {
	r, _, _ := newRouter(t)
	var body struct {
		Items []catalog.Suggestion `json:"items"`
	}
	require.Equal(t, http.StatusOK, get(t, r, http.MethodGet, "/artists?q=alice", &body))
	require.NotEmpty(t, body.Items)
	require.Equal(t, "Alice", body.Items[0].Name)

	var works struct {
		Items []string `json:"items"`
	}
	require.Equal(t, http.StatusOK, get(t, r, http.MethodGet, "/artists/Bob/sprites", &works))
	require.Equal(t, []string{"4.21"}, works.Items)
}

// TestRebuild reloads from the loader and announces the run.
func TestRebuild(t *testing.T) {
	r, store, ev := newRouter(t)

	var rep catalog.BuildReport
	require.Equal(t, http.StatusOK, get(t, r, http.MethodPost, "/admin/rebuild", &rep))
	require.Equal(t, 1, rep.Images.Images)

	st, err := store.Stats(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, st.Images)

	require.Len(t, ev.got, 1)
	e, ok := ev.got[0].(events.CatalogEvent)
	require.True(t, ok)
	require.Equal(t, rep.RunID, e.RunID)
}
