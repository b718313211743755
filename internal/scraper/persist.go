package scraper

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"fusiondex/pkg/apperr"
	"fusiondex/pkg/models"
)

// SaveToDatabase upserts species rows keyed by id. The species table is not
// touched by catalog rebuilds.
func SaveToDatabase(ctx context.Context, db *sql.DB, species []models.Species) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return apperr.Storage("begin tx", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO species (id, full_name, types, hp, attack, defense, special_attack,
		                     special_defense, speed, total, height, weight, category)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
		  full_name = excluded.full_name,
		  types = excluded.types,
		  hp = excluded.hp,
		  attack = excluded.attack,
		  defense = excluded.defense,
		  special_attack = excluded.special_attack,
		  special_defense = excluded.special_defense,
		  speed = excluded.speed,
		  total = excluded.total,
		  height = excluded.height,
		  weight = excluded.weight,
		  category = excluded.category
	`)
	if err != nil {
		return apperr.Storage("prepare stmt", err)
	}
	defer stmt.Close()

	for _, sp := range species {
		types := sp.Types
		if types == nil {
			types = []string{}
		}
		typesJSON, err := json.Marshal(types)
		if err != nil {
			return fmt.Errorf("marshal types for %d: %w", sp.ID, err)
		}

		if _, err := stmt.ExecContext(ctx,
			sp.ID,
			sp.FullName,
			string(typesJSON),
			sp.HP,
			sp.Attack,
			sp.Defense,
			sp.SpecialAttack,
			sp.SpecialDefense,
			sp.Speed,
			sp.Total,
			sp.Height,
			sp.Weight,
			sp.Category,
		); err != nil {
			return apperr.Storage(fmt.Sprintf("upsert species %d", sp.ID), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return apperr.Storage("commit tx", err)
	}
	return nil
}

// SortedByID flattens a scrape result in id order.
func SortedByID(byName map[string]models.Species) []models.Species {
	out := make([]models.Species, 0, len(byName))
	for _, sp := range byName {
		out = append(out, sp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ID == out[j].ID {
			return out[i].FullName < out[j].FullName
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// WriteJSON writes the scrape result keyed by full name, indented.
func WriteJSON(path string, byName map[string]models.Species) error {
	raw, err := json.MarshalIndent(byName, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, append(raw, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
