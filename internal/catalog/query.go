package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"fusiondex/pkg/apperr"
	"fusiondex/pkg/models"
)

// CountFusions counts distinct fusion base ids in which species is the head
// (asHead) or the body. The other half of the base id must be all digits,
// so ids like "12x.34" never count.
func (s *Store) CountFusions(ctx context.Context, species int, asHead bool) (int, error) {
	id := strconv.Itoa(species)

	var match, reject string
	if asHead {
		match, reject = id+".[0-9]*", id+".*[^0-9]*"
	} else {
		match, reject = "[0-9]*."+id, "*[^0-9]*."+id
	}

	row := s.DB.QueryRowContext(ctx, `
		SELECT COUNT(DISTINCT base_id)
		FROM images
		WHERE base_id GLOB ?
		  AND base_id NOT GLOB ?
	`, match, reject)

	var n int
	if err := row.Scan(&n); err != nil {
		return 0, apperr.Storage(fmt.Sprintf("count fusions for %d", species), err)
	}
	return n, nil
}

// FusionCount runs both directions of CountFusions for one species.
func (s *Store) FusionCount(ctx context.Context, species int) (models.FusionCount, error) {
	head, err := s.CountFusions(ctx, species, true)
	if err != nil {
		return models.FusionCount{}, err
	}
	body, err := s.CountFusions(ctx, species, false)
	if err != nil {
		return models.FusionCount{}, err
	}
	return models.FusionCount{Head: head, Body: body}, nil
}

// GetImage returns the image with its artists, or nil when absent.
func (s *Store) GetImage(ctx context.Context, spriteID string) (*models.Image, error) {
	row := s.DB.QueryRowContext(ctx, `
		SELECT sprite_id, base_id, type, comments
		FROM images
		WHERE sprite_id = ?
	`, spriteID)

	var (
		img      models.Image
		comments sql.NullString
	)
	if err := row.Scan(&img.SpriteID, &img.BaseID, &img.Type, &comments); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, apperr.Storage("scan image", err)
	}
	img.Comments = comments.String

	artists, err := s.ArtistsFor(ctx, spriteID)
	if err != nil {
		return nil, err
	}
	img.Artists = artists
	return &img, nil
}

// ListByBase returns every variant sharing baseID, main art first.
func (s *Store) ListByBase(ctx context.Context, baseID string) ([]models.Image, error) {
	return s.listImages(ctx, `
		SELECT sprite_id, base_id, type, comments
		FROM images
		WHERE base_id = ?
		ORDER BY type DESC, length(sprite_id), sprite_id
	`, baseID)
}

// ListImages returns the whole catalog ordered by sprite id. Artists are
// not filled in.
func (s *Store) ListImages(ctx context.Context) ([]models.Image, error) {
	return s.listImages(ctx, `
		SELECT sprite_id, base_id, type, comments
		FROM images
		ORDER BY sprite_id
	`)
}

func (s *Store) listImages(ctx context.Context, query string, args ...any) ([]models.Image, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperr.Storage("list images", err)
	}
	defer rows.Close()

	var out []models.Image
	for rows.Next() {
		var (
			img      models.Image
			comments sql.NullString
		)
		if err := rows.Scan(&img.SpriteID, &img.BaseID, &img.Type, &comments); err != nil {
			return nil, apperr.Storage("scan image", err)
		}
		img.Comments = comments.String
		out = append(out, img)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Storage("rows err", err)
	}
	return out, nil
}

func (s *Store) ArtistsFor(ctx context.Context, spriteID string) ([]string, error) {
	return s.strings(ctx, `
		SELECT artist_name
		FROM image_artists
		WHERE sprite_id = ?
		ORDER BY rowid
	`, spriteID)
}

// SpritesByArtist lists the sprite ids credited to name.
func (s *Store) SpritesByArtist(ctx context.Context, name string, limit, offset int) ([]string, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.strings(ctx, `
		SELECT sprite_id
		FROM image_artists
		WHERE artist_name = ?
		ORDER BY sprite_id
		LIMIT ? OFFSET ?
	`, name, limit, offset)
}

// ArtistNames lists every distinct credited name, placeholder excluded.
func (s *Store) ArtistNames(ctx context.Context) ([]string, error) {
	return s.strings(ctx, `
		SELECT DISTINCT artist_name
		FROM image_artists
		WHERE artist_name <> ?
		ORDER BY artist_name
	`, models.UnattributedArtist)
}

func (s *Store) strings(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperr.Storage("query", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, apperr.Storage("scan", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Storage("rows err", err)
	}
	return out, nil
}

func (s *Store) DexEntriesFor(ctx context.Context, spriteID string) ([]models.DexEntry, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, sprite_id, entry, author
		FROM dex_entry
		WHERE sprite_id = ?
		ORDER BY id
	`, spriteID)
	if err != nil {
		return nil, apperr.Storage("list dex entries", err)
	}
	defer rows.Close()

	var out []models.DexEntry
	for rows.Next() {
		var (
			e      models.DexEntry
			entry  sql.NullString
			author sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.SpriteID, &entry, &author); err != nil {
			return nil, apperr.Storage("scan dex entry", err)
		}
		e.Entry = entry.String
		e.Author = author.String
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Storage("rows err", err)
	}
	return out, nil
}

type Stats struct {
	Images     int `json:"images"`
	AltImages  int `json:"alt_images"`
	Artists    int `json:"artists"`
	DexEntries int `json:"dex_entries"`
}

func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	row := s.DB.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM images),
			(SELECT COUNT(*) FROM images WHERE type = ?),
			(SELECT COUNT(DISTINCT artist_name) FROM image_artists WHERE artist_name <> ?),
			(SELECT COUNT(*) FROM dex_entry)
	`, models.ImageTypeAlt, models.UnattributedArtist)
	if err := row.Scan(&st.Images, &st.AltImages, &st.Artists, &st.DexEntries); err != nil {
		return Stats{}, apperr.Storage("scan stats", err)
	}
	return st, nil
}

// ListDexEntries returns every dex entry in insertion order.
func (s *Store) ListDexEntries(ctx context.Context) ([]models.DexEntry, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, sprite_id, COALESCE(entry, ''), COALESCE(author, '')
		FROM dex_entry
		ORDER BY id
	`)
	if err != nil {
		return nil, apperr.Storage("list dex entries", err)
	}
	defer rows.Close()

	var out []models.DexEntry
	for rows.Next() {
		var e models.DexEntry
		if err := rows.Scan(&e.ID, &e.SpriteID, &e.Entry, &e.Author); err != nil {
			return nil, apperr.Storage("scan dex entry", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Storage("rows err", err)
	}
	return out, nil
}
