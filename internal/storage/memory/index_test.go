package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndex_AddRemove(t *testing.T) {
	idx := NewIndex()

	idx.Add("jon", 2)
	idx.Add("jon", 1)
	idx.Add("ann", 3)

	require.Equal(t, []int{1, 2}, idx.Get("jon"))
	assert.Equal(t, 2, idx.Keys())
	assert.Equal(t, 3, idx.Entries())

	idx.Remove("jon", 1)
	idx.Remove("jon", 2)
	assert.Nil(t, idx.Get("jon"), "emptied key should be deleted")
	assert.Equal(t, 1, idx.Keys())

	// Removing an unknown pair is a no-op.
	idx.Remove("nobody", 9)
	idx.Remove("ann", 9)
	assert.True(t, idx.Contains("ann", 3), "ann/3 lost")

	idx.Clear()
	assert.Zero(t, idx.Entries())
}
