package store_test

import (
	"errors"
	"testing"

	"github.com/ValentinKolb/satchel/lib/store"
	"github.com/ValentinKolb/satchel/lib/store/lstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) store.IStore {
	t.Helper()
	s, err := lstore.NewLocalStore(lstore.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestGet(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Set("volume", 7))

	v, ok := store.Get[int](s, "volume")
	assert.True(t, ok)
	assert.Equal(t, 7, v)

	// type mismatch is treated as absent
	str, ok := store.Get[string](s, "volume")
	assert.False(t, ok)
	assert.Equal(t, "", str)

	_, ok = store.Get[int](s, "missing")
	assert.False(t, ok)
}

func TestGetOrDefault(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Set("theme", "dark"))

	assert.Equal(t, "dark", store.GetOrDefault(s, "theme", "light"))
	assert.Equal(t, "light", store.GetOrDefault(s, "missing", "light"))
	assert.Equal(t, 3, store.GetOrDefault(s, "theme", 3))
}

func TestGetOrElse(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Set("ratio", 0.5))

	calls := 0
	fallback := func() float64 {
		calls++
		return 1.0
	}

	assert.Equal(t, 0.5, store.GetOrElse(s, "ratio", fallback))
	assert.Equal(t, 0, calls)
	assert.Equal(t, 1.0, store.GetOrElse(s, "missing", fallback))
	assert.Equal(t, 1, calls)
}

func TestGetOrSet(t *testing.T) {
	s := newTestStore(t)

	v, err := store.GetOrSet(s, "tags", func() []string { return []string{"new"} })
	require.NoError(t, err)
	assert.Equal(t, []string{"new"}, v)

	v, err = store.GetOrSet(s, "tags", func() []string { return []string{"other"} })
	require.NoError(t, err)
	assert.Equal(t, []string{"new"}, v)

	// a value of the wrong type is replaced
	require.NoError(t, s.Set("count", "not a number"))
	n, err := store.GetOrSet(s, "count", func() int { return 1 })
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	raw, _ := s.Get("count")
	assert.Equal(t, 1, raw)

	require.NoError(t, s.Close())
	_, err = store.GetOrSet(s, "fresh", func() int { return 2 })
	assert.ErrorIs(t, err, store.ErrClosed)
}

func TestErrorCodes(t *testing.T) {
	err := error(store.NewError(store.RetCStoreClosed, "custom message"))
	assert.True(t, errors.Is(err, store.ErrClosed))
	assert.False(t, errors.Is(store.NewError(store.RetCInvalidOperation, "x"), store.ErrClosed))
	assert.Equal(t, "StoreError (code StoreClosed): custom message", err.Error())
	assert.Equal(t, "Unknown", store.RetCode(99).String())
}
