package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"fusiondex/internal/events"
	"fusiondex/internal/sprite"
	"fusiondex/pkg/apperr"
)

// SourceLoader reads and parses the raw inputs of a rebuild.
type SourceLoader func(ctx context.Context) (Sources, error)

type Broadcaster interface {
	BroadcastJSON(v any)
}

type Handler struct {
	Store    *Store
	Resolver sprite.Resolver
	Load     SourceLoader
	Events   Broadcaster

	rebuildMu sync.Mutex
}

func NewHandler(store *Store, resolver sprite.Resolver, load SourceLoader, ev Broadcaster) *Handler {
	return &Handler{Store: store, Resolver: resolver, Load: load, Events: ev}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/sprites", h.listByBase)                // GET /sprites?base=1.2
	rg.GET("/sprites/:id", h.getSprite)             // GET /sprites/1.2a
	rg.GET("/sprites/:id/position", h.position)     // GET /sprites/1.2a/position
	rg.GET("/species/:id", h.getSpecies)            // GET /species/25
	rg.GET("/species/:id/fusions", h.fusions)       // GET /species/25/fusions
	rg.GET("/artists", h.suggestArtists)            // GET /artists?q=ali
	rg.GET("/artists/:name/sprites", h.artistWorks) // GET /artists/Alice/sprites
	rg.GET("/stats", h.stats)
}

// RegisterAdminRoutes expects rg to be guarded by auth middleware.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.POST("/rebuild", h.rebuild)
}

func (h *Handler) listByBase(c *gin.Context) {
	base := strings.TrimSpace(c.Query("base"))
	id, err := sprite.Parse(base)
	if err != nil || id.Alt != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "base must be {head} or {head}.{body}"})
		return
	}

	items, err := h.Store.ListByBase(c.Request.Context(), id.BaseID())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"base_id": id.BaseID(), "items": items})
}

func (h *Handler) getSprite(c *gin.Context) {
	id, err := sprite.Parse(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	ctx := c.Request.Context()
	img, err := h.Store.GetImage(ctx, id.String())
	if err != nil {
		writeError(c, err)
		return
	}
	if img == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	entries, err := h.Store.DexEntriesFor(ctx, id.String())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"image": img, "dex_entries": entries})
}

// position resolves a sprite's tile. category overrides the inferred one;
// width and height, when given, bound-check the rectangle.
func (h *Handler) position(c *gin.Context) {
	id, err := sprite.Parse(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	if raw := c.Query("category"); raw != "" {
		cat, err := sprite.ParseCategory(raw)
		if err != nil {
			writeError(c, err)
			return
		}
		id.Category = cat
	}

	sheet := sprite.Sheet{
		Width:  parseInt(c.Query("width"), 0),
		Height: parseInt(c.Query("height"), math.MaxInt32),
	}
	rect, err := h.Resolver.Resolve(id, sheet)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"sprite_id": id.String(),
		"category":  id.Category.String(),
		"sheet":     h.Resolver.SheetPath(id),
		"rect":      rect,
	})
}

func (h *Handler) getSpecies(c *gin.Context) {
	// the scraper may store pages past MaxSpecies
	n, ok := speciesParam(c, 0)
	if !ok {
		return
	}
	sp, err := h.Store.GetSpecies(c.Request.Context(), n)
	if err != nil {
		writeError(c, err)
		return
	}
	if sp == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, sp)
}

func (h *Handler) fusions(c *gin.Context) {
	n, ok := speciesParam(c, sprite.MaxSpecies)
	if !ok {
		return
	}
	fc, err := h.Store.FusionCount(c.Request.Context(), n)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": n, "head": fc.Head, "body": fc.Body})
}

func (h *Handler) suggestArtists(c *gin.Context) {
	q := c.Query("q")
	if strings.TrimSpace(q) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q required"})
		return
	}
	items, err := h.Store.SuggestArtists(c.Request.Context(), q, parseInt(c.Query("limit"), 10))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) artistWorks(c *gin.Context) {
	name := c.Param("name")
	limit := parseInt(c.Query("limit"), 100)
	offset := parseInt(c.Query("offset"), 0)

	items, err := h.Store.SpritesByArtist(c.Request.Context(), name, limit, offset)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"artist": name, "items": items})
}

func (h *Handler) stats(c *gin.Context) {
	st, err := h.Store.Stats(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// rebuild reloads the catalog from the configured sources. Concurrent
// requests wait for the running rebuild instead of interleaving with it.
func (h *Handler) rebuild(c *gin.Context) {
	if h.Load == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "rebuild not configured"})
		return
	}

	h.rebuildMu.Lock()
	defer h.rebuildMu.Unlock()

	ctx := c.Request.Context()
	src, err := h.Load(ctx)
	if err != nil {
		writeError(c, err)
		return
	}
	rep, err := h.Store.Build(ctx, src)
	if err != nil {
		writeError(c, err)
		return
	}

	if h.Events != nil {
		h.Events.BroadcastJSON(events.CatalogEvent{
			Type:       events.TypeCatalogRebuilt,
			RunID:      rep.RunID,
			Images:     rep.Images.Images,
			Duplicates: len(rep.Images.Duplicates),
			Skipped:    len(rep.Images.Skipped) + len(rep.Dex.Skipped),
			DexEntries: rep.Dex.Entries,
			At:         time.Now().UTC(),
		})
	}
	c.JSON(http.StatusOK, rep)
}

// speciesParam reads the :id path parameter. limit <= 0 leaves it unbounded.
func speciesParam(c *gin.Context, limit int) (int, bool) {
	n, err := strconv.Atoi(c.Param("id"))
	if err != nil || n < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "species id must be a positive integer"})
		return 0, false
	}
	if limit > 0 && n > limit {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("species id must be in [1, %d]", limit)})
		return 0, false
	}
	return n, true
}

func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch apperr.KindOf(err) {
	case apperr.KindParse:
		status = http.StatusBadRequest
	case apperr.KindOutOfBounds:
		status = http.StatusUnprocessableEntity
	case apperr.KindNotFound:
		status = http.StatusNotFound
	case apperr.KindUnauthorized:
		status = http.StatusUnauthorized
	}
	msg := err.Error()
	if status == http.StatusInternalServerError {
		slog.With("component", "catalog-http").Error("request failed", "path", c.FullPath(), "error", err)
		msg = "internal error"
	}
	c.JSON(status, gin.H{"error": msg})
}

func parseInt(s string, def int) int {
	if strings.TrimSpace(s) == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
