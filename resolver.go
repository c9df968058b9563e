// resolver.go
package themeprefs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Resolver maintains the current theme Mode, derives the effective Scheme and keeps
// the persisted preference consistent with in-memory state.
//
// A Resolver starts uninitialized with ModeSystem and becomes ready exactly once,
// when the initial read started by Initialize completes (successfully or not).
// Mode changes are applied in memory immediately and written to the Store in the
// background by a single writer goroutine. Store errors are logged, never returned.
type Resolver struct {
	mu     sync.RWMutex
	config *Config

	mode     Mode
	osScheme Scheme
	ready    bool
	userSet  bool // SetMode ran before the initial read resolved
	readyCh  chan struct{}
	initOnce sync.Once

	observers []observer

	pending    Mode
	hasPending bool
	requested  uint64
	attempted  uint64
	progress   chan struct{} // closed and replaced after every write attempt
	wake       chan struct{}
	done       chan struct{}

	closed    bool
	closeOnce sync.Once
	stopOS    func()
}

type observer struct {
	id string
	fn func(State)
}

// New creates a Resolver. WithStore is required.
// The returned Resolver is uninitialized; call Initialize to load the persisted preference.
func New(opts ...Option) (*Resolver, error) {
	cfg := &Config{
		key:          DefaultStorageKey,
		readTimeout:  defaultReadTimeout,
		writeTimeout: defaultWriteTimeout,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.store == nil {
		return nil, fmt.Errorf("%w: store is required", ErrInvalidInput)
	}
	if cfg.key == "" {
		return nil, fmt.Errorf("%w: storage key is empty", ErrInvalidInput)
	}
	if cfg.logger == nil {
		cfg.logger = NewDefaultLogger()
	}
	if cfg.provider == nil {
		cfg.provider = staticProvider(SchemeLight)
	}

	initial := cfg.provider.Current()
	if !initial.Valid() {
		cfg.logger.Warn("Ignoring invalid OS color scheme, assuming light", "scheme", initial)
		initial = SchemeLight
	}

	r := &Resolver{
		config:   cfg,
		mode:     ModeSystem,
		osScheme: initial,
		readyCh:  make(chan struct{}),
		progress: make(chan struct{}),
		wake:     make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
	r.stopOS = cfg.provider.Subscribe(r.handleOSScheme)

	go r.writeLoop()

	return r, nil
}

// Initialize starts the asynchronous read of the persisted preference and returns
// immediately. A valid stored mode replaces the ModeSystem default; a missing,
// unrecognized or unreadable record leaves the default in place. Either way the
// Resolver becomes ready. Only the first call has any effect.
func (r *Resolver) Initialize(ctx context.Context) {
	r.initOnce.Do(func() {
		go r.load(ctx)
	})
}

// Ready returns a channel that is closed once the initial read has completed.
func (r *Resolver) Ready() <-chan struct{} {
	return r.readyCh
}

// WaitReady blocks until the Resolver is ready or ctx is done.
func (r *Resolver) WaitReady(ctx context.Context) error {
	select {
	case <-r.readyCh:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SetMode updates the mode in memory and schedules it to be persisted.
// Only ErrInvalidMode and ErrClosed are returned; write failures are logged
// and the in-memory mode is kept.
func (r *Resolver) SetMode(mode Mode) error {
	if !mode.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}

	err := r.mutate(func() error {
		return r.setModeLocked(mode)
	})
	if err != nil {
		return err
	}

	r.signalWriter()
	return nil
}

// Toggle switches to ModeLight when the effective scheme is dark and to ModeDark
// otherwise, and returns the new mode.
func (r *Resolver) Toggle() (Mode, error) {
	var next Mode
	err := r.mutate(func() error {
		next = ModeDark
		if Resolve(r.mode, r.osScheme) == SchemeDark {
			next = ModeLight
		}
		return r.setModeLocked(next)
	})
	if err != nil {
		return "", err
	}

	r.signalWriter()
	return next, nil
}

// Mode returns the current user preference.
func (r *Resolver) Mode() Mode {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.mode
}

// OSScheme returns the last scheme reported by the SchemeProvider.
func (r *Resolver) OSScheme() Scheme {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.osScheme
}

// Scheme returns the effective scheme for the current mode and OS scheme.
func (r *Resolver) Scheme() Scheme {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return Resolve(r.mode, r.osScheme)
}

// Closed reports whether Close has been called.
func (r *Resolver) Closed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.closed
}

// IsDark reports whether the effective scheme is dark.
func (r *Resolver) IsDark() bool {
	return r.Scheme() == SchemeDark
}

// EffectiveScheme returns the scheme the current mode yields for the given OS scheme.
// It has no side effects.
func (r *Resolver) EffectiveScheme(os Scheme) Scheme {
	return Resolve(r.Mode(), os)
}

// State returns a snapshot of the Resolver.
func (r *Resolver) State() State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshotLocked()
}

// OnChange registers fn to be called with the new State whenever the mode, the OS
// scheme or readiness changes. Callbacks run on the goroutine that caused the change,
// outside the Resolver's lock. The returned function removes the registration.
func (r *Resolver) OnChange(fn func(State)) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}

	id := uuid.NewString()

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return func() {}
	}
	r.observers = append(r.observers, observer{id: id, fn: fn})
	r.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			for i, o := range r.observers {
				if o.id == id {
					r.observers = append(r.observers[:i:i], r.observers[i+1:]...)
					break
				}
			}
		})
	}
}

// Flush blocks until every mode set so far has been handed to the Store,
// or until ctx is done. A write that failed still counts as handed over.
func (r *Resolver) Flush(ctx context.Context) error {
	for {
		r.mu.RLock()
		if r.attempted >= r.requested {
			r.mu.RUnlock()
			return nil
		}
		ch := r.progress
		r.mu.RUnlock()

		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Close detaches from the SchemeProvider, drops all observers and waits for the
// pending write, if any. The Store is owned by the caller and is not closed.
func (r *Resolver) Close() error {
	r.closeOnce.Do(func() {
		r.mu.Lock()
		r.closed = true
		r.observers = nil
		r.mu.Unlock()

		if r.stopOS != nil {
			r.stopOS()
		}
		r.signalWriter()
		<-r.done
	})
	return nil
}

func (r *Resolver) load(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, r.config.readTimeout)
	defer cancel()

	loaded, ok := r.readStored(ctx)

	_ = r.mutate(func() error {
		if ok && !r.userSet {
			r.mode = loaded
		}
		if !r.ready {
			r.ready = true
			close(r.readyCh)
		}
		return nil
	})
}

func (r *Resolver) readStored(ctx context.Context) (Mode, bool) {
	key := r.config.key
	raw, err := r.config.store.Get(ctx, key)
	switch {
	case errors.Is(err, ErrNotFound):
		r.config.logger.Debug("No stored theme mode, using system default", "key", key)
		return "", false
	case err != nil:
		r.config.logger.Error("Failed to load theme mode", "key", key, "error", err)
		return "", false
	}

	mode, ok := decodeStoredMode(raw)
	if !ok {
		r.config.logger.Warn("Ignoring unrecognized stored theme mode", "key", key, "value", raw)
		return "", false
	}
	return mode, true
}

func (r *Resolver) handleOSScheme(s Scheme) {
	if !s.Valid() {
		r.config.logger.Warn("Ignoring invalid OS color scheme", "scheme", s)
		return
	}
	_ = r.mutate(func() error {
		if r.closed {
			return ErrClosed
		}
		r.osScheme = s
		return nil
	})
}

// setModeLocked requires r.mu held for writing.
func (r *Resolver) setModeLocked(mode Mode) error {
	if r.closed {
		return ErrClosed
	}
	r.mode = mode
	if !r.ready {
		r.userSet = true
	}
	r.pending = mode
	r.hasPending = true
	r.requested++
	return nil
}

// mutate applies fn under the write lock and, if fn succeeded and the snapshot
// changed, notifies observers after releasing the lock.
func (r *Resolver) mutate(fn func() error) error {
	r.mu.Lock()
	before := r.snapshotLocked()
	if err := fn(); err != nil {
		r.mu.Unlock()
		return err
	}
	after := r.snapshotLocked()
	var targets []observer
	if after != before && len(r.observers) > 0 {
		targets = make([]observer, len(r.observers))
		copy(targets, r.observers)
	}
	r.mu.Unlock()

	for _, o := range targets {
		o.fn(after)
	}
	return nil
}

func (r *Resolver) snapshotLocked() State {
	return State{
		Mode:     r.mode,
		OSScheme: r.osScheme,
		Scheme:   Resolve(r.mode, r.osScheme),
		Ready:    r.ready,
	}
}

func (r *Resolver) signalWriter() {
	select {
	case r.wake <- struct{}{}:
	default:
	}
}

// writeLoop persists the most recent pending mode. Modes set while a write is in
// flight are coalesced so the last one set is the last one written.
func (r *Resolver) writeLoop() {
	defer close(r.done)

	for {
		r.mu.Lock()
		mode, seq, has := r.pending, r.requested, r.hasPending
		r.hasPending = false
		closed := r.closed
		r.mu.Unlock()

		if has {
			r.persist(mode)

			r.mu.Lock()
			r.attempted = seq
			close(r.progress)
			r.progress = make(chan struct{})
			r.mu.Unlock()
			continue
		}
		if closed {
			return
		}
		<-r.wake
	}
}

func (r *Resolver) persist(mode Mode) {
	ctx, cancel := context.WithTimeout(context.Background(), r.config.writeTimeout)
	defer cancel()

	start := time.Now()
	if err := r.config.store.Set(ctx, r.config.key, string(mode)); err != nil {
		r.config.logger.Error("Failed to save theme mode", "key", r.config.key, "mode", mode, "error", err)
		return
	}
	r.config.logger.Debug("Saved theme mode", "key", r.config.key, "mode", mode, "duration", time.Since(start))
}

// staticProvider reports a fixed scheme and never changes.
type staticProvider Scheme

func (p staticProvider) Current() Scheme { return Scheme(p) }

func (p staticProvider) Subscribe(func(Scheme)) func() { return func() {} }
