// Package ingest parses the raw catalog inputs: the credit list, the sprite
// manifest and the dex entry table.
package ingest

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"

	"fusiondex/internal/catalog"
	"fusiondex/internal/sprite"
)

// ParseCredits reads "sprite_id,artists,type,comments" lines. Comments may
// contain commas; missing trailing fields are empty. Blank lines are skipped.
func ParseCredits(r io.Reader) ([]catalog.ImageInput, error) {
	var out []catalog.ImageInput
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for line := 1; sc.Scan(); line++ {
		text := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(text) == "" {
			continue
		}
		f := strings.SplitN(text, ",", 4)
		for len(f) < 4 {
			f = append(f, "")
		}
		out = append(out, catalog.ImageInput{
			SpriteID: strings.TrimSpace(f[0]),
			Artists:  strings.TrimSpace(f[1]),
			Type:     strings.TrimSpace(f[2]),
			Comments: strings.TrimSpace(f[3]),
		})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read credits: %w", err)
	}
	return out, nil
}

// ParseManifest reads one sprite filename per line and returns the ids
// without suffix, deduplicated and in natural order.
func ParseManifest(r io.Reader) ([]string, error) {
	seen := make(map[string]struct{})
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		name := sprite.StripImageSuffix(sc.Text())
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	SortNatural(out)
	return out, nil
}

// MergeManifest appends every manifest sprite that has no credit row, with
// empty credit and comments. Credit rows keep their file order.
func MergeManifest(credits []catalog.ImageInput, manifest []string) []catalog.ImageInput {
	have := make(map[string]struct{}, len(credits))
	for _, c := range credits {
		have[canonical(c.SpriteID)] = struct{}{}
	}

	var missing []string
	for _, name := range manifest {
		key := canonical(name)
		if _, ok := have[key]; ok {
			continue
		}
		have[key] = struct{}{}
		missing = append(missing, name)
	}
	SortNatural(missing)

	out := make([]catalog.ImageInput, 0, len(credits)+len(missing))
	out = append(out, credits...)
	for _, name := range missing {
		out = append(out, catalog.ImageInput{SpriteID: name, Type: sprite.ImageType(name)})
	}
	return out
}

// canonical folds a token to its parsed form when it parses, so "1.2A" in
// the manifest matches "1.2a" in the credits.
func canonical(token string) string {
	if id, err := sprite.Parse(token); err == nil {
		return id.String()
	}
	return strings.TrimSpace(token)
}

// SortNatural orders strings with digit runs compared by value, so "2.10"
// sorts after "2.9".
func SortNatural(s []string) {
	sort.SliceStable(s, func(i, j int) bool { return naturalLess(s[i], s[j]) })
}

func naturalLess(a, b string) bool {
	for a != "" && b != "" {
		ca, ra := chunk(a)
		cb, rb := chunk(b)
		if ca != cb {
			da, db := isDigit(ca[0]), isDigit(cb[0])
			switch {
			case da && db:
				na, nb := strings.TrimLeft(ca, "0"), strings.TrimLeft(cb, "0")
				if len(na) != len(nb) {
					return len(na) < len(nb)
				}
				if na != nb {
					return na < nb
				}
			default:
				return ca < cb
			}
		}
		a, b = ra, rb
	}
	return len(a) < len(b)
}

// chunk splits off the leading run of digits or non-digits.
func chunk(s string) (head, rest string) {
	d := isDigit(s[0])
	i := 1
	for i < len(s) && isDigit(s[i]) == d {
		i++
	}
	return s[:i], s[i:]
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
