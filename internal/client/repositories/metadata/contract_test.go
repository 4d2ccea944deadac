package metadata

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runRepositoryContract checks the behaviour every backend must share.
func runRepositoryContract(t *testing.T, newRepo func(t *testing.T) Repository) {
	ctx := context.Background()

	t.Run("set then get", func(t *testing.T) {
		r := newRepo(t)
		require.NoError(t, r.Set(ctx, "locale", []byte("es")))

		v, err := r.Get(ctx, "locale")
		require.NoError(t, err)
		assert.Equal(t, []byte("es"), v)
	})

	t.Run("absent key is nil, nil", func(t *testing.T) {
		r := newRepo(t)
		v, err := r.Get(ctx, "session")
		require.NoError(t, err)
		assert.Nil(t, v)
	})

	t.Run("set overwrites", func(t *testing.T) {
		r := newRepo(t)
		require.NoError(t, r.Set(ctx, "theme", []byte("light")))
		require.NoError(t, r.Set(ctx, "theme", []byte("dark")))

		v, err := r.Get(ctx, "theme")
		require.NoError(t, err)
		assert.Equal(t, []byte("dark"), v)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		r := newRepo(t)
		require.NoError(t, r.Set(ctx, "session", []byte(`{"id":"u1"}`)))
		require.NoError(t, r.Delete(ctx, "session"))

		v, err := r.Get(ctx, "session")
		require.NoError(t, err)
		assert.Nil(t, v)

		require.NoError(t, r.Delete(ctx, "session"))
	})

	t.Run("list and clear", func(t *testing.T) {
		r := newRepo(t)
		require.NoError(t, r.Set(ctx, "a", []byte{0xAA}))
		require.NoError(t, r.Set(ctx, "b", []byte{0xBB, 0xCC}))

		m, err := r.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, map[string][]byte{"a": {0xAA}, "b": {0xBB, 0xCC}}, m)

		require.NoError(t, r.Clear(ctx))
		m, err = r.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, m)
	})

	t.Run("keys are disjoint", func(t *testing.T) {
		r := newRepo(t)
		require.NoError(t, r.Set(ctx, "session", []byte("s")))
		require.NoError(t, r.Set(ctx, "locale", []byte("en")))
		require.NoError(t, r.Delete(ctx, "session"))

		v, err := r.Get(ctx, "locale")
		require.NoError(t, err)
		assert.Equal(t, []byte("en"), v)
	})
}
