package models

// FusionCount is how many distinct fusions a species takes part in,
// split by the slot it occupies.
type FusionCount struct {
	Head int `json:"head"`
	Body int `json:"body"`
}
