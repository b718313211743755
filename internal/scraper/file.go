package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"fusiondex/pkg/apperr"
	"fusiondex/pkg/models"
)

// FileSource replays a report written by WriteJSON, so the species table
// can be reseeded without hitting the site.
type FileSource struct {
	Path string
	byID map[int]models.Species
}

func NewFileSource(path string) (*FileSource, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindIO, "read report", err)
	}
	var byName map[string]models.Species
	if err := json.Unmarshal(raw, &byName); err != nil {
		return nil, fmt.Errorf("decode report %s: %w", path, err)
	}

	byID := make(map[int]models.Species, len(byName))
	for name, sp := range byName {
		if sp.FullName == "" {
			sp.FullName = name
		}
		byID[sp.ID] = sp
	}
	return &FileSource{Path: path, byID: byID}, nil
}

func (s *FileSource) Name() string { return "file" }

func (s *FileSource) Fetch(_ context.Context, id int) (models.Species, error) {
	sp, ok := s.byID[id]
	if !ok {
		return models.Species{}, apperr.NotFoundf("%s: no species %d", s.Path, id)
	}
	return sp, nil
}
