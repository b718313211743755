// Package sprite parses sprite identifiers and maps them onto spritesheet
// grids.
//
// An identifier is "{head}", "{head}{alt}" or "{head}.{body}{alt}", where
// head and body are species ids in [1, MaxSpecies] and alt is a run of
// lowercase letters naming an alternate art variant.
package sprite

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"fusiondex/pkg/apperr"
	"fusiondex/pkg/models"
)

// MaxSpecies is the highest base species id.
const MaxSpecies = 501

// MaxAltLetters bounds the alt suffix so its base-26 cell index fits an int.
const MaxAltLetters = 6

var (
	ErrMalformedBody   = apperr.New(apperr.KindParse, "malformed body")
	ErrInvalidCategory = apperr.New(apperr.KindParse, "invalid category combination")
	ErrUnknownCategory = apperr.New(apperr.KindParse, "unknown category")
)

// Category says which family of spritesheet a sprite comes from.
type Category int

const (
	// Base is single-species official art.
	Base Category = iota
	// Custom is hand-made fusion art.
	Custom
	// Autogen is auto-composited fusion art. It has no alt variants.
	Autogen
)

var categoryNames = [...]string{Base: "base", Custom: "custom", Autogen: "autogen"}

func (c Category) String() string {
	if c < Base || c > Autogen {
		return "Category(" + strconv.Itoa(int(c)) + ")"
	}
	return categoryNames[c]
}

func ParseCategory(s string) (Category, error) {
	for c, name := range categoryNames {
		if strings.EqualFold(s, name) {
			return Category(c), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

// Identifier is the structured form of a sprite token. Body is zero for
// single-species sprites.
type Identifier struct {
	Head     int
	Body     int
	Alt      string
	Category Category
}

func (id Identifier) IsFusion() bool { return id.Body != 0 }

// String returns the canonical textual form.
func (id Identifier) String() string {
	return DeriveBaseID(id) + id.Alt
}

func (id Identifier) BaseID() string { return DeriveBaseID(id) }

// DeriveBaseID joins head and, for fusions, "." + body. The alt suffix is
// never included.
func DeriveBaseID(id Identifier) string {
	if id.Body == 0 {
		return strconv.Itoa(id.Head)
	}
	return strconv.Itoa(id.Head) + "." + strconv.Itoa(id.Body)
}

// Parse reads a token whose category comes from its shape: fusions are
// Custom, everything else is Base. Use ParseAs when the caller knows better.
func Parse(token string) (Identifier, error) {
	id, err := parse(token)
	if err != nil {
		return Identifier{}, err
	}
	if id.IsFusion() {
		id.Category = Custom
	}
	return id, nil
}

// ParseAs reads a token and checks it against a caller-supplied category.
func ParseAs(token string, category Category) (Identifier, error) {
	id, err := parse(token)
	if err != nil {
		return Identifier{}, err
	}
	id.Category = category
	if err := id.Validate(); err != nil {
		return Identifier{}, fmt.Errorf("%w: %q", err, token)
	}
	return id, nil
}

// Validate checks that the category fits the shape of the identifier.
func (id Identifier) Validate() error {
	if len(id.Alt) > MaxAltLetters {
		return fmt.Errorf("%w: alt suffix longer than %d letters", ErrMalformedBody, MaxAltLetters)
	}
	switch id.Category {
	case Base:
		if id.IsFusion() {
			return fmt.Errorf("%w: base sprite with body", ErrInvalidCategory)
		}
	case Custom:
		if !id.IsFusion() {
			return fmt.Errorf("%w: custom sprite without body", ErrInvalidCategory)
		}
	case Autogen:
		if !id.IsFusion() || id.Alt != "" {
			return fmt.Errorf("%w: autogen sprite needs a body and no alt", ErrInvalidCategory)
		}
	default:
		return fmt.Errorf("%w: %d", ErrUnknownCategory, int(id.Category))
	}
	return nil
}

func parse(token string) (Identifier, error) {
	token = strings.TrimSpace(token)
	rest, alt := splitAlt(token)

	if len(alt) > MaxAltLetters {
		return Identifier{}, fmt.Errorf("%w: alt suffix too long in %q", ErrMalformedBody, token)
	}

	var id Identifier
	id.Alt = strings.ToLower(alt)

	head, body, fused := strings.Cut(rest, ".")
	h, ok := parseSpecies(head)
	if !ok {
		return Identifier{}, fmt.Errorf("%w: bad head in %q", ErrMalformedBody, token)
	}
	id.Head = h
	if fused {
		b, ok := parseSpecies(body)
		if !ok {
			return Identifier{}, fmt.Errorf("%w: bad body in %q", ErrMalformedBody, token)
		}
		id.Body = b
	}
	return id, nil
}

// splitAlt cuts the trailing run of ASCII letters off s.
func splitAlt(s string) (rest, alt string) {
	i := len(s)
	for i > 0 && isLetter(s[i-1]) {
		i--
	}
	return s[:i], s[i:]
}

// parseSpecies accepts plain decimal ids in range: no sign, no leading zero.
func parseSpecies(s string) (int, bool) {
	if s == "" || s[0] == '0' || len(s) > 4 {
		return 0, false
	}
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
		n = n*10 + int(s[i]-'0')
	}
	return n, n >= 1 && n <= MaxSpecies
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// BaseIDOf applies the storage rule to a raw sprite id: drop the trailing
// letters.
func BaseIDOf(spriteID string) string {
	rest, _ := splitAlt(spriteID)
	return rest
}

// ImageType is "main" for ids without letters, "alt" otherwise.
func ImageType(spriteID string) string {
	for i := 0; i < len(spriteID); i++ {
		if isLetter(spriteID[i]) {
			return models.ImageTypeAlt
		}
	}
	return models.ImageTypeMain
}

var imageSuffixes = map[string]bool{".png": true, ".gif": true, ".jpg": true, ".jpeg": true, ".webp": true}

// StripImageSuffix removes a trailing image file extension, if any.
func StripImageSuffix(name string) string {
	name = strings.TrimSpace(name)
	ext := filepath.Ext(name)
	if imageSuffixes[strings.ToLower(ext)] {
		return strings.TrimSuffix(name, ext)
	}
	return name
}
