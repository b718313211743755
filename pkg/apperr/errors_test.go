package apperr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"fusiondex/pkg/apperr"
)

// TestKindOfWrapped finds the kind through fmt.Errorf wrapping.
func TestKindOfWrapped(t *testing.T) {
	base := apperr.New(apperr.KindParse, "malformed body")
	err := fmt.Errorf("load %q: %w", "1.x", base)

	require.Equal(t, apperr.KindParse, apperr.KindOf(err))
	require.True(t, apperr.Is(err, apperr.KindParse))
	require.True(t, errors.Is(err, base))
	require.True(t, apperr.Skippable(err))
}

// TestKindOfPlain falls back to internal.
func TestKindOfPlain(t *testing.T) {
	require.Equal(t, apperr.KindInternal, apperr.KindOf(errors.New("boom")))
	require.False(t, apperr.Is(nil, apperr.KindInternal))
}

// TestStorageIsFatal keeps storage faults out of the skip set.
func TestStorageIsFatal(t *testing.T) {
	err := apperr.Storage("insert image", errors.New("disk full"))
	require.Equal(t, "insert image: disk full", err.Error())
	require.False(t, apperr.Skippable(err))
	require.Nil(t, apperr.Wrap(apperr.KindIO, "open", nil))
}
