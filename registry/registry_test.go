package registry

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CreativeUnicorns/themeprefs"
	"github.com/CreativeUnicorns/themeprefs/storage"
)

func newTestRegistry(t *testing.T, opts ...Option) (*Registry, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore()
	opts = append([]Option{WithLogger(themeprefs.NewLogger(io.Discard, "text", themeprefs.LogLevelError))}, opts...)
	reg, err := New(store, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reg.Close() })
	return reg, store
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestNew_RequiresStore(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, themeprefs.ErrInvalidInput)
}

func TestUserKey(t *testing.T) {
	assert.Equal(t, "user:42:app_theme-mode", UserKey("42"))
}

func TestRegistry_SessionLoadsStoredMode(t *testing.T) {
	ctx := testContext(t)
	reg, store := newTestRegistry(t)
	require.NoError(t, store.Set(ctx, UserKey("alice"), "dark"))

	s, err := reg.Session(ctx, "alice")
	require.NoError(t, err)

	state := s.Resolver.State()
	assert.True(t, state.Ready)
	assert.Equal(t, themeprefs.ModeDark, state.Mode)
	assert.Equal(t, themeprefs.SchemeDark, state.Scheme)
	assert.Equal(t, "alice", s.UserID)
}

func TestRegistry_SessionIsReused(t *testing.T) {
	ctx := testContext(t)
	reg, _ := newTestRegistry(t)

	a, err := reg.Session(ctx, "alice")
	require.NoError(t, err)
	b, err := reg.Session(ctx, " alice ")
	require.NoError(t, err)

	assert.Same(t, a, b)
	assert.Equal(t, 1, reg.Len())
}

func TestRegistry_ConcurrentFirstAccess(t *testing.T) {
	ctx := testContext(t)
	reg, _ := newTestRegistry(t)

	sessions := make([]*Session, 20)
	var wg sync.WaitGroup
	for i := range sessions {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, err := reg.Session(ctx, "bob")
			assert.NoError(t, err)
			sessions[i] = s
		}(i)
	}
	wg.Wait()

	for _, s := range sessions {
		assert.Same(t, sessions[0], s)
	}
	assert.Equal(t, 1, reg.Len())
}

func TestRegistry_EmptyUserID(t *testing.T) {
	reg, _ := newTestRegistry(t)
	_, err := reg.Session(testContext(t), "  ")
	assert.ErrorIs(t, err, themeprefs.ErrInvalidInput)
}

func TestRegistry_UsersAreIndependent(t *testing.T) {
	ctx := testContext(t)
	reg, store := newTestRegistry(t)

	a, err := reg.Session(ctx, "a")
	require.NoError(t, err)
	b, err := reg.Session(ctx, "b")
	require.NoError(t, err)

	require.NoError(t, a.Resolver.SetMode(themeprefs.ModeDark))
	require.NoError(t, b.OS.Set(themeprefs.SchemeDark))

	assert.Equal(t, themeprefs.SchemeDark, a.Resolver.Scheme())
	assert.Equal(t, themeprefs.ModeSystem, b.Resolver.Mode())
	assert.Equal(t, themeprefs.SchemeDark, b.Resolver.Scheme())
	assert.Equal(t, themeprefs.SchemeLight, a.OS.Current())

	require.NoError(t, a.Resolver.Flush(ctx))
	got, err := store.Get(ctx, UserKey("a"))
	require.NoError(t, err)
	assert.Equal(t, "dark", got)
	_, err = store.Get(ctx, UserKey("b"))
	assert.ErrorIs(t, err, themeprefs.ErrNotFound)
}

func TestRegistry_EvictFlushesAndCloses(t *testing.T) {
	ctx := testContext(t)
	reg, store := newTestRegistry(t)

	s, err := reg.Session(ctx, "carol")
	require.NoError(t, err)
	require.NoError(t, s.Resolver.SetMode(themeprefs.ModeLight))

	require.NoError(t, reg.Evict(ctx, "carol"))
	assert.Equal(t, 0, reg.Len())

	got, err := store.Get(ctx, UserKey("carol"))
	require.NoError(t, err)
	assert.Equal(t, "light", got)
	assert.ErrorIs(t, s.Resolver.SetMode(themeprefs.ModeDark), themeprefs.ErrClosed)
	assert.Equal(t, 0, s.OS.Subscribers())

	// A new session picks up the persisted value.
	fresh, err := reg.Session(ctx, "carol")
	require.NoError(t, err)
	assert.NotSame(t, s, fresh)
	assert.Equal(t, themeprefs.ModeLight, fresh.Resolver.Mode())

	require.NoError(t, reg.Evict(ctx, "nobody"))
}

func TestRegistry_IdleSessionsExpire(t *testing.T) {
	ctx := testContext(t)
	reg, store := newTestRegistry(t, WithIdleTTL(40*time.Millisecond))

	s, err := reg.Session(ctx, "dave")
	require.NoError(t, err)
	require.NoError(t, s.Resolver.SetMode(themeprefs.ModeDark))

	require.Eventually(t, func() bool { return reg.Len() == 0 }, time.Second, 10*time.Millisecond)

	got, err := store.Get(ctx, UserKey("dave"))
	require.NoError(t, err)
	assert.Equal(t, "dark", got)
}

func TestRegistry_UpdateRetriesOnClosedSession(t *testing.T) {
	ctx := testContext(t)
	reg, _ := newTestRegistry(t)

	calls := 0
	err := reg.Update(ctx, "erin", func(s *Session) error {
		calls++
		if calls == 1 {
			require.NoError(t, reg.Evict(ctx, "erin"))
		}
		return s.Resolver.SetMode(themeprefs.ModeDark)
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)

	s, err := reg.Session(ctx, "erin")
	require.NoError(t, err)
	assert.Equal(t, themeprefs.ModeDark, s.Resolver.Mode())
}

func TestRegistry_UpdateRetriesWhenSessionClosedSilently(t *testing.T) {
	ctx := testContext(t)
	reg, _ := newTestRegistry(t)

	calls := 0
	err := reg.Update(ctx, "erin", func(s *Session) error {
		calls++
		if calls == 1 {
			require.NoError(t, reg.Evict(ctx, "erin"))
		}
		// Manual.Set succeeds even when nobody is subscribed any more.
		return s.OS.Set(themeprefs.SchemeDark)
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)

	s, err := reg.Session(ctx, "erin")
	require.NoError(t, err)
	assert.Equal(t, themeprefs.SchemeDark, s.OS.Current())
	assert.Equal(t, themeprefs.SchemeDark, s.Resolver.Scheme())
}

func TestRegistry_UpdateRetriesOnlyOnce(t *testing.T) {
	ctx := testContext(t)
	reg, _ := newTestRegistry(t)

	calls := 0
	err := reg.Update(ctx, "fay", func(s *Session) error {
		calls++
		require.NoError(t, reg.Evict(ctx, "fay"))
		return s.Resolver.SetMode(themeprefs.ModeDark)
	})
	assert.ErrorIs(t, err, themeprefs.ErrClosed)
	assert.Equal(t, 2, calls)
}

func TestRegistry_Close(t *testing.T) {
	ctx := testContext(t)
	reg, store := newTestRegistry(t)

	s, err := reg.Session(ctx, "frank")
	require.NoError(t, err)
	require.NoError(t, s.Resolver.SetMode(themeprefs.ModeDark))

	require.NoError(t, reg.Close())
	require.NoError(t, reg.Close())

	_, err = reg.Session(ctx, "frank")
	assert.ErrorIs(t, err, themeprefs.ErrClosed)

	got, err := store.Get(ctx, UserKey("frank"))
	require.NoError(t, err)
	assert.Equal(t, "dark", got)
}

func TestRegistry_Options(t *testing.T) {
	ctx := testContext(t)
	reg, store := newTestRegistry(t,
		WithKeyFunc(func(id string) string { return "tenant-1/" + id }),
		WithInitialScheme(themeprefs.SchemeDark),
		WithResolverOptions(themeprefs.WithWriteTimeout(time.Second)),
	)

	s, err := reg.Session(ctx, "gina")
	require.NoError(t, err)
	assert.Equal(t, themeprefs.SchemeDark, s.OS.Current())
	assert.Equal(t, themeprefs.SchemeDark, s.Resolver.Scheme())

	require.NoError(t, s.Resolver.SetMode(themeprefs.ModeLight))
	require.NoError(t, s.Resolver.Flush(ctx))
	got, err := store.Get(ctx, "tenant-1/gina")
	require.NoError(t, err)
	assert.Equal(t, "light", got)
}
