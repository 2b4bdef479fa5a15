package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryGetSet(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(time.Minute)

	_, ok, err := m.Get(ctx, "property:all")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.Set(ctx, "property:all", []byte(`[]`), time.Minute))
	val, ok, err := m.Get(ctx, "property:all")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte(`[]`), val)
}

func TestMemoryExpiry(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(time.Minute)

	require.NoError(t, m.Set(ctx, "property:1", []byte(`{}`), 10*time.Millisecond))
	time.Sleep(30 * time.Millisecond)

	_, ok, err := m.Get(ctx, "property:1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryDeletePrefix(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(time.Minute)

	require.NoError(t, m.Set(ctx, "property:all", []byte("a"), time.Minute))
	require.NoError(t, m.Set(ctx, "property:7", []byte("b"), time.Minute))
	require.NoError(t, m.Set(ctx, "session:7", []byte("c"), time.Minute))

	n, err := m.DeletePrefix(ctx, "property:")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, ok, _ := m.Get(ctx, "property:7")
	assert.False(t, ok)
	_, ok, _ = m.Get(ctx, "session:7")
	assert.True(t, ok)
}

func TestMemoryCounter(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(10 * time.Millisecond)

	n, err := m.Counter(ctx, "gen:property")
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = m.Incr(ctx, "gen:property")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	n, err = m.Incr(ctx, "gen:property")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	// counters outlive the default TTL
	time.Sleep(30 * time.Millisecond)
	n, err = m.Counter(ctx, "gen:property")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	// a shared prefix delete never resets the counter
	_, err = m.DeletePrefix(ctx, "property:")
	require.NoError(t, err)
	n, err = m.Counter(ctx, "gen:property")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}
