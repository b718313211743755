package catalog

import (
	"context"
	"database/sql"
	"encoding/json"

	"fusiondex/pkg/apperr"
	"fusiondex/pkg/models"
)

// GetSpecies reads a scraped species page, or nil when it was never scraped.
func (s *Store) GetSpecies(ctx context.Context, id int) (*models.Species, error) {
	row := s.DB.QueryRowContext(ctx, `
		SELECT id, full_name, types, hp, attack, defense, special_attack,
		       special_defense, speed, total, height, weight, category
		FROM species
		WHERE id = ?
	`, id)

	var (
		sp        models.Species
		typesJSON string
		stats     [7]sql.NullInt64
		height    sql.NullString
		weight    sql.NullString
		category  sql.NullString
	)
	if err := row.Scan(
		&sp.ID, &sp.FullName, &typesJSON,
		&stats[0], &stats[1], &stats[2], &stats[3], &stats[4], &stats[5], &stats[6],
		&height, &weight, &category,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, apperr.Storage("scan species", err)
	}

	sp.HP = int(stats[0].Int64)
	sp.Attack = int(stats[1].Int64)
	sp.Defense = int(stats[2].Int64)
	sp.SpecialAttack = int(stats[3].Int64)
	sp.SpecialDefense = int(stats[4].Int64)
	sp.Speed = int(stats[5].Int64)
	sp.Total = int(stats[6].Int64)
	sp.Height = height.String
	sp.Weight = weight.String
	sp.Category = category.String

	if err := json.Unmarshal([]byte(typesJSON), &sp.Types); err != nil {
		return nil, apperr.Storage("decode species types", err)
	}
	return &sp, nil
}
