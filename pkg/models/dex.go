package models

type DexEntry struct {
	ID       int64  `json:"id"`
	SpriteID string `json:"sprite_id"`
	Entry    string `json:"entry"`
	Author   string `json:"author"`
}
