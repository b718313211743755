package models

// Species is the attribute sheet scraped from a species page.
type Species struct {
	ID             int      `json:"id"`
	FullName       string   `json:"fullName"`
	Types          []string `json:"types"`
	HP             int      `json:"hp,omitempty"`
	Attack         int      `json:"attack,omitempty"`
	Defense        int      `json:"defense,omitempty"`
	SpecialAttack  int      `json:"specialAttack,omitempty"`
	SpecialDefense int      `json:"specialDefense,omitempty"`
	Speed          int      `json:"speed,omitempty"`
	Total          int      `json:"total,omitempty"`
	Height         string   `json:"height,omitempty"`
	Weight         string   `json:"weight,omitempty"`
	Category       string   `json:"category,omitempty"`
}
