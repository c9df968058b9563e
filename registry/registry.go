// Package registry keeps one theme Resolver per user on top of a shared Store.
package registry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/CreativeUnicorns/themeprefs"
	"github.com/CreativeUnicorns/themeprefs/cache"
	"github.com/CreativeUnicorns/themeprefs/scheme"
)

const defaultIdleTTL = 30 * time.Minute

// UserKey is the default storage key for a user: "user:<id>:app_theme-mode".
func UserKey(userID string) string {
	return "user:" + userID + ":" + themeprefs.DefaultStorageKey
}

// Session is a user's Resolver and the OS scheme reported by that user's client.
type Session struct {
	UserID   string
	Resolver *themeprefs.Resolver
	OS       *scheme.Manual
}

// Option configures a Registry.
type Option func(*Registry)

// WithIdleTTL sets how long an unused session is kept. Non-positive values are ignored.
func WithIdleTTL(d time.Duration) Option {
	return func(r *Registry) {
		if d > 0 {
			r.idleTTL = d
		}
	}
}

// WithKeyFunc sets how user ids map to storage keys.
func WithKeyFunc(fn func(userID string) string) Option {
	return func(r *Registry) {
		if fn != nil {
			r.keyFunc = fn
		}
	}
}

// WithLogger sets the logger for the registry and its resolvers.
func WithLogger(logger themeprefs.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithInitialScheme sets the OS scheme a new session assumes until its client reports one.
func WithInitialScheme(s themeprefs.Scheme) Option {
	return func(r *Registry) {
		if s.Valid() {
			r.initial = s
		}
	}
}

// WithResolverOptions appends options applied to every Resolver. Store,
// scheme provider and storage key are always set by the registry.
func WithResolverOptions(opts ...themeprefs.Option) Option {
	return func(r *Registry) {
		r.resolverOpts = append(r.resolverOpts, opts...)
	}
}

// Registry creates sessions on first use and closes them once idle.
type Registry struct {
	store        themeprefs.Store
	idleTTL      time.Duration
	keyFunc      func(string) string
	logger       themeprefs.Logger
	initial      themeprefs.Scheme
	resolverOpts []themeprefs.Option

	mu       sync.Mutex // serializes session creation
	sessions cache.Cache
	closed   bool
}

// New creates a Registry over store. The store is not closed by the Registry.
func New(store themeprefs.Store, opts ...Option) (*Registry, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: store is required", themeprefs.ErrInvalidInput)
	}

	r := &Registry{
		store:   store,
		idleTTL: defaultIdleTTL,
		keyFunc: UserKey,
		logger:  themeprefs.NewDefaultLogger(),
		initial: themeprefs.SchemeLight,
	}
	for _, opt := range opts {
		opt(r)
	}

	if ll, ok := r.logger.(themeprefs.LevelLogger); ok {
		r.logger = ll.With("component", "registry")
	}

	gcInterval := r.idleTTL / 2
	if gcInterval > time.Minute {
		gcInterval = time.Minute
	}
	r.sessions = cache.NewMemoryCache(
		cache.WithSlidingExpiration(),
		cache.WithGCInterval(gcInterval),
		cache.WithEvictionFunc(r.onEvict),
	)
	return r, nil
}

// Session returns the user's session, creating it and waiting for its stored
// preference to load if needed.
func (r *Registry) Session(ctx context.Context, userID string) (*Session, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is empty", themeprefs.ErrInvalidInput)
	}

	if s, err := r.lookup(ctx, userID); err == nil {
		return s, s.Resolver.WaitReady(ctx)
	} else if !errors.Is(err, themeprefs.ErrNotFound) {
		return nil, err
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil, themeprefs.ErrClosed
	}
	s, err := r.lookup(ctx, userID)
	if errors.Is(err, themeprefs.ErrNotFound) {
		s, err = r.create(ctx, userID)
	}
	r.mu.Unlock()
	if err != nil {
		return nil, err
	}

	return s, s.Resolver.WaitReady(ctx)
}

// Update runs fn with the user's session. If the session was closed by the time
// fn returned, either with themeprefs.ErrClosed or silently, fn is retried once on
// a fresh session. fn must therefore be safe to run twice.
func (r *Registry) Update(ctx context.Context, userID string, fn func(*Session) error) error {
	for attempt := 0; ; attempt++ {
		s, err := r.Session(ctx, userID)
		if err != nil {
			return err
		}
		err = fn(s)
		lost := errors.Is(err, themeprefs.ErrClosed) || (err == nil && s.Resolver.Closed())
		if lost && attempt == 0 {
			r.logger.Debug("Theme session closed during update, retrying", "user_id", userID)
			continue
		}
		return err
	}
}

// Evict closes the user's session, flushing its pending write. It is a no-op
// for users without a session.
func (r *Registry) Evict(ctx context.Context, userID string) error {
	return r.sessions.Delete(ctx, userID)
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	return r.sessions.Len()
}

// Close closes every session. Further calls to Session fail with themeprefs.ErrClosed.
func (r *Registry) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	r.mu.Unlock()

	return r.sessions.Close()
}

func (r *Registry) lookup(ctx context.Context, userID string) (*Session, error) {
	v, err := r.sessions.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	s, ok := v.(*Session)
	if !ok {
		return nil, fmt.Errorf("registry: unexpected session type %T", v)
	}
	return s, nil
}

// create requires r.mu held.
func (r *Registry) create(ctx context.Context, userID string) (*Session, error) {
	os := scheme.NewManual(r.initial)

	opts := append([]themeprefs.Option{}, r.resolverOpts...)
	opts = append(opts,
		themeprefs.WithStore(r.store),
		themeprefs.WithSchemeProvider(os),
		themeprefs.WithStorageKey(r.keyFunc(userID)),
		themeprefs.WithLogger(r.logger),
	)

	resolver, err := themeprefs.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("registry: failed to create resolver for user '%s': %w", userID, err)
	}
	// The initial read must outlive the request that triggered it.
	resolver.Initialize(context.WithoutCancel(ctx))

	s := &Session{UserID: userID, Resolver: resolver, OS: os}
	if err := r.sessions.Set(ctx, userID, s, r.idleTTL); err != nil {
		_ = resolver.Close()
		return nil, err
	}

	r.logger.Debug("Opened theme session", "user_id", userID)
	return s, nil
}

func (r *Registry) onEvict(userID string, v interface{}) {
	s, ok := v.(*Session)
	if !ok {
		return
	}
	if err := s.Resolver.Close(); err != nil {
		r.logger.Warn("Failed to close theme session", "user_id", userID, "error", err)
		return
	}
	r.logger.Debug("Closed theme session", "user_id", userID)
}
