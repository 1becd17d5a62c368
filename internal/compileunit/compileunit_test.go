package compileunit

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewProducesDistinctIDs(t *testing.T) {
	a := New()
	b := New()
	require.NotEmpty(t, a.String())
	require.NotEqual(t, a, b)
}
