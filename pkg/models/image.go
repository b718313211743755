package models

// Image is one cataloged sprite. BaseID is always derived from SpriteID by
// stripping its trailing alt letters.
type Image struct {
	SpriteID string   `json:"sprite_id"`
	BaseID   string   `json:"base_id"`
	Type     string   `json:"type"` // "main" or "alt"
	Comments string   `json:"comments,omitempty"`
	Artists  []string `json:"artists,omitempty"`
}

const (
	ImageTypeMain = "main"
	ImageTypeAlt  = "alt"
)

// UnattributedArtist stands in for a missing credit: the sprite is open
// for contribution.
const UnattributedArtist = "Coming Soon (WIP)"

type ArtistCredit struct {
	SpriteID   string `json:"sprite_id"`
	ArtistName string `json:"artist_name"`
}
