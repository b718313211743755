package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"fusiondex/internal/catalog"
)

// ParseDex reads "sprite,entry,author" CSV records. Quoted fields may hold
// commas and newlines. A first row whose sprite column reads "sprite" is
// treated as a header.
func ParseDex(r io.Reader) ([]catalog.DexInput, error) {
	cr := csv.NewReader(r)
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var out []catalog.DexInput
	for first := true; ; first = false {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read dex csv: %w", err)
		}
		if len(rec) == 0 || (len(rec) == 1 && strings.TrimSpace(rec[0]) == "") {
			continue
		}
		for len(rec) < 3 {
			rec = append(rec, "")
		}
		in := catalog.DexInput{
			Sprite: strings.TrimSpace(rec[0]),
			Entry:  strings.TrimSpace(rec[1]),
			Author: strings.TrimSpace(rec[2]),
		}
		if first && strings.EqualFold(in.Sprite, "sprite") {
			continue
		}
		out = append(out, in)
	}
	return out, nil
}
