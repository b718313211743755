package fusion_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"fusiondex/internal/catalog"
	"fusiondex/internal/fusion"
	"fusiondex/pkg/database"
	"fusiondex/pkg/models"
)

type fakeCounter struct {
	head, body map[int]int
	failOn     int
	calls      atomic.Int64
}

func (f *fakeCounter) CountFusions(_ context.Context, species int, asHead bool) (int, error) {
	f.calls.Add(1)
	if species == f.failOn {
		return 0, errors.New("disk on fire")
	}
	if asHead {
		return f.head[species], nil
	}
	return f.body[species], nil
}

func TestComputeFusionTotals(t *testing.T) {
	c := &fakeCounter{head: map[int]int{1: 3, 2: 1}, body: map[int]int{2: 4}}
	totals, err := fusion.NewAggregator(c, 2).ComputeFusionTotals(context.Background(), 1, 3)
	require.NoError(t, err)
	require.Equal(t, fusion.Totals{
		1: {Head: 3},
		2: {Head: 1, Body: 4},
		3: {},
	}, totals)
	require.EqualValues(t, 6, c.calls.Load(), "one head and one body query per species")
}

func TestComputeFusionTotalsError(t *testing.T) {
	c := &fakeCounter{failOn: 7}
	_, err := fusion.NewAggregator(c, 4).ComputeFusionTotals(context.Background(), 1, 20)
	require.ErrorContains(t, err, "species 7 as head")

	_, err = fusion.NewAggregator(c, 4).ComputeFusionTotals(context.Background(), 5, 4)
	require.Error(t, err)
}

// TestEmptyCatalog reports zeros for every species, not missing keys.
func TestEmptyCatalog(t *testing.T) {
	db, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "c.sqlite")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(db))

	totals, err := fusion.NewAggregator(catalog.NewStore(db), 0).ComputeFusionTotals(context.Background(), 1, 3)
	require.NoError(t, err)
	require.Equal(t, []int{1, 2, 3}, totals.IDs())
	for _, id := range totals.IDs() {
		require.Equal(t, models.FusionCount{}, totals[id])
	}
}

func TestTotalsJSONOrder(t *testing.T) {
	totals := fusion.Totals{10: {Head: 1}, 2: {Body: 2}, 1: {}}
	raw, err := json.Marshal(totals)
	require.NoError(t, err)
	require.Equal(t, `{"1":{"head":0,"body":0},"2":{"head":0,"body":2},"10":{"head":1,"body":0}}`, string(raw))

	var back fusion.Totals
	require.NoError(t, json.Unmarshal(raw, &back))
	require.Equal(t, totals, back)
}

func TestWriteReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "fusion_totals.json")
	require.NoError(t, fusion.WriteReport(path, fusion.Totals{1: {Head: 2, Body: 1}}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "{\n  \"1\": {\n    \"head\": 2,\n    \"body\": 1\n  }\n}\n", string(raw))
}
