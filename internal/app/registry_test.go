package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/Parley/internal/core"
)

func TestRegistrySetGetRemove(t *testing.T) {
	r := NewRegistry()

	_, ok := r.Get("s1")
	assert.False(t, ok)

	conn := &fakeConn{}
	r.Set("s1", core.ConnRecord{Username: "alice", Room: "ABC123", Signal: conn})
	rec, ok := r.Get("s1")
	require.True(t, ok)
	assert.Equal(t, "alice", rec.Username)
	assert.Equal(t, "ABC123", string(rec.Room))
	assert.Equal(t, 1, r.Len())

	// Upsert replaces the record.
	r.Set("s1", core.ConnRecord{Username: "alice", Room: "", Signal: conn})
	rec, ok = r.Get("s1")
	require.True(t, ok)
	assert.Empty(t, rec.Room)
	assert.Equal(t, 1, r.Len())

	r.Remove("s1")
	_, ok = r.Get("s1")
	assert.False(t, ok)
	assert.Zero(t, r.Len())

	// Double remove tolerates the entry already being gone.
	r.Remove("s1")
}
