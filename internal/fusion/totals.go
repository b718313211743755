package fusion

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"fusiondex/pkg/models"
)

// Totals maps species id to its fusion counts.
type Totals map[int]models.FusionCount

// IDs returns the species ids in ascending order.
func (t Totals) IDs() []int {
	ids := make([]int, 0, len(t))
	for id := range t {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// MarshalJSON writes an object keyed by species id in numeric order
// ("2" before "10"), which encoding/json's string sort would not do.
func (t Totals) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, id := range t.IDs() {
		if i > 0 {
			buf.WriteByte(',')
		}
		v, err := json.Marshal(t[id])
		if err != nil {
			return nil, err
		}
		buf.WriteString(strconv.Quote(strconv.Itoa(id)))
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (t *Totals) UnmarshalJSON(data []byte) error {
	var raw map[string]models.FusionCount
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Totals, len(raw))
	for k, v := range raw {
		id, err := strconv.Atoi(k)
		if err != nil {
			return fmt.Errorf("species key %q: %w", k, err)
		}
		out[id] = v
	}
	*t = out
	return nil
}

// WriteReport writes totals as indented JSON, creating parent directories.
func WriteReport(path string, totals Totals) error {
	raw, err := json.Marshal(totals)
	if err != nil {
		return fmt.Errorf("marshal totals: %w", err)
	}
	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", "  "); err != nil {
		return fmt.Errorf("indent totals: %w", err)
	}
	out.WriteByte('\n')

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create report dir: %w", err)
		}
	}
	if err := os.WriteFile(path, out.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
