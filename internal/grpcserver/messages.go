package grpcserver

import (
	"fusiondex/internal/fusion"
	"fusiondex/pkg/models"
)

type GetSpriteRequest struct {
	SpriteID string `json:"sprite_id"`
}

type GetSpriteResponse struct {
	Image      *models.Image     `json:"image"`
	DexEntries []models.DexEntry `json:"dex_entries"`
}

type CountFusionsRequest struct {
	Species int `json:"species"`
}

type CountFusionsResponse struct {
	Species int `json:"species"`
	Head    int `json:"head"`
	Body    int `json:"body"`
}

// FusionTotalsRequest covers species From..To; zero values mean the whole
// dex.
type FusionTotalsRequest struct {
	From int `json:"from"`
	To   int `json:"to"`
}

type FusionTotalsResponse struct {
	Totals fusion.Totals `json:"totals"`
}
