// Package catalog persists sprite images, artist credits and dex entries in
// SQLite and answers the queries the rest of fusiondex runs against them.
//
// The catalog follows a full-reload model: RebuildSchema drops every
// catalog table, then each input source is loaded in its own transaction.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"fusiondex/internal/sprite"
	"fusiondex/pkg/apperr"
	"fusiondex/pkg/database"
	"fusiondex/pkg/models"
)

// ArtistSeparator joins collaborators on a single credit line.
const ArtistSeparator = " & "

type Store struct {
	DB  *sql.DB
	log *slog.Logger
}

func NewStore(db *sql.DB) *Store {
	return &Store{DB: db, log: slog.With("component", "catalog")}
}

func (s *Store) logger() *slog.Logger {
	if s.log == nil {
		return slog.Default()
	}
	return s.log
}

// ImageInput is one row of the merged credit list. Type is informational:
// the stored type is always derived from the sprite id.
type ImageInput struct {
	SpriteID string
	Artists  string
	Type     string
	Comments string
}

// DexInput is one row of the dex entry table. Sprite may carry an image
// file suffix.
type DexInput struct {
	Sprite string
	Entry  string
	Author string
}

// Skip records an input row that was left out of the catalog.
type Skip struct {
	Token  string `json:"token"`
	Reason string `json:"reason"`
	Err    error  `json:"-"`
}

func newSkip(token string, err error) Skip {
	return Skip{Token: token, Reason: err.Error(), Err: err}
}

type LoadReport struct {
	Images     int      `json:"images,omitempty"`
	Credits    int      `json:"credits,omitempty"`
	Entries    int      `json:"entries,omitempty"`
	Duplicates []string `json:"duplicates,omitempty"`
	Skipped    []Skip   `json:"skipped,omitempty"`
}

// RebuildSchema drops and recreates the catalog tables and indexes.
// All prior catalog rows are lost.
func (s *Store) RebuildSchema(ctx context.Context) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return apperr.Storage("begin tx", err)
	}
	defer tx.Rollback()

	s.logger().Info("dropping and recreating catalog tables")
	if err := database.ResetCatalog(ctx, tx); err != nil {
		return apperr.Storage("reset catalog", err)
	}
	if err := tx.Commit(); err != nil {
		return apperr.Storage("commit tx", err)
	}
	return nil
}

// LoadImages inserts every image and its artist credits in one transaction.
// Malformed ids and duplicates are skipped and reported; any SQL failure
// rolls back the whole load.
func (s *Store) LoadImages(ctx context.Context, rows []ImageInput) (LoadReport, error) {
	var rep LoadReport

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return rep, apperr.Storage("begin tx", err)
	}
	defer tx.Rollback()

	insertImage, err := tx.PrepareContext(ctx, `
		INSERT INTO images (sprite_id, base_id, type, comments)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return rep, apperr.Storage("prepare image stmt", err)
	}
	defer insertImage.Close()

	insertArtist, err := tx.PrepareContext(ctx, `
		INSERT INTO image_artists (sprite_id, artist_name)
		VALUES (?, ?)
	`)
	if err != nil {
		return rep, apperr.Storage("prepare artist stmt", err)
	}
	defer insertArtist.Close()

	seen := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		id, err := sprite.Parse(row.SpriteID)
		if err != nil {
			s.logger().Warn("skipping malformed sprite id", "sprite_id", row.SpriteID, "error", err)
			rep.Skipped = append(rep.Skipped, newSkip(row.SpriteID, err))
			continue
		}

		spriteID := id.String()
		if _, dup := seen[spriteID]; dup {
			s.logger().Warn("duplicate sprite_id found", "sprite_id", spriteID)
			rep.Duplicates = append(rep.Duplicates, spriteID)
			continue
		}
		seen[spriteID] = struct{}{}

		if _, err := insertImage.ExecContext(ctx,
			spriteID,
			id.BaseID(),
			sprite.ImageType(spriteID),
			row.Comments,
		); err != nil {
			return LoadReport{}, apperr.Storage(fmt.Sprintf("insert image %s", spriteID), err)
		}
		rep.Images++

		for _, artist := range SplitArtists(row.Artists) {
			if _, err := insertArtist.ExecContext(ctx, spriteID, artist); err != nil {
				return LoadReport{}, apperr.Storage(fmt.Sprintf("insert artist for %s", spriteID), err)
			}
			rep.Credits++
		}
	}

	if err := tx.Commit(); err != nil {
		return LoadReport{}, apperr.Storage("commit tx", err)
	}
	s.logger().Info("images loaded",
		"images", rep.Images,
		"credits", rep.Credits,
		"duplicates", len(rep.Duplicates),
		"skipped", len(rep.Skipped),
	)
	return rep, nil
}

// LoadDexEntries inserts one dex entry per row in one transaction.
func (s *Store) LoadDexEntries(ctx context.Context, rows []DexInput) (LoadReport, error) {
	var rep LoadReport

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return rep, apperr.Storage("begin tx", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO dex_entry (sprite_id, entry, author)
		VALUES (?, ?, ?)
	`)
	if err != nil {
		return rep, apperr.Storage("prepare dex stmt", err)
	}
	defer stmt.Close()

	for _, row := range rows {
		id, err := sprite.Parse(sprite.StripImageSuffix(row.Sprite))
		if err != nil {
			s.logger().Warn("skipping dex entry with malformed sprite", "sprite", row.Sprite, "error", err)
			rep.Skipped = append(rep.Skipped, newSkip(row.Sprite, err))
			continue
		}
		if _, err := stmt.ExecContext(ctx, id.String(), SanitizeEntry(row.Entry), row.Author); err != nil {
			return LoadReport{}, apperr.Storage(fmt.Sprintf("insert dex entry for %s", id), err)
		}
		rep.Entries++
	}

	if err := tx.Commit(); err != nil {
		return LoadReport{}, apperr.Storage("commit tx", err)
	}
	s.logger().Info("dex entries loaded", "entries", rep.Entries, "skipped", len(rep.Skipped))
	return rep, nil
}

// SplitArtists breaks a credit line into trimmed names. Blank names become
// the unattributed placeholder, so every image has at least one credit.
func SplitArtists(line string) []string {
	parts := strings.Split(line, ArtistSeparator)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		name := strings.TrimSpace(p)
		if name == "" {
			name = models.UnattributedArtist
		}
		out = append(out, name)
	}
	return out
}

// SanitizeEntry rewrites '#' so entries are safe inside downstream templates.
func SanitizeEntry(entry string) string {
	return strings.ReplaceAll(entry, "#", "_")
}
