package scheme

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/CreativeUnicorns/themeprefs"
)

const (
	defaultPollInterval  = 5 * time.Second
	defaultDetectTimeout = 2 * time.Second
)

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDetectors replaces the default detectors.
func WithDetectors(detectors ...Detector) WatcherOption {
	return func(w *Watcher) {
		w.detectors = append([]Detector(nil), detectors...)
	}
}

// WithPollInterval sets how often detectors are consulted. Non-positive values are ignored.
func WithPollInterval(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.interval = d
		}
	}
}

// WithFallback sets the scheme reported when no detector succeeds.
func WithFallback(s themeprefs.Scheme) WatcherOption {
	return func(w *Watcher) {
		if s.Valid() {
			w.fallback = s
		}
	}
}

// WithWatcherLogger sets the logger.
func WithWatcherLogger(logger themeprefs.Logger) WatcherOption {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// Watcher is a SchemeProvider that polls Detectors and publishes changes.
type Watcher struct {
	detectors []Detector
	interval  time.Duration
	fallback  themeprefs.Scheme
	logger    themeprefs.Logger

	pubMu   sync.Mutex // held across commit and publish
	mu      sync.RWMutex
	current themeprefs.Scheme
	source  string
	running bool
	subs    subscribers

	startOnce sync.Once
	stopOnce  sync.Once
	stop      chan struct{}
	done      chan struct{}
}

// NewWatcher creates a Watcher and runs one detection pass so Current is
// meaningful before Start.
func NewWatcher(ctx context.Context, opts ...WatcherOption) *Watcher {
	w := &Watcher{
		detectors: DefaultDetectors(),
		interval:  defaultPollInterval,
		fallback:  themeprefs.SchemeLight,
		logger:    themeprefs.NewDefaultLogger(),
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	sort.SliceStable(w.detectors, func(i, j int) bool {
		return w.detectors[i].Priority() > w.detectors[j].Priority()
	})

	w.current, w.source = w.detect(ctx)
	return w
}

// Current returns the last detected scheme.
func (w *Watcher) Current() themeprefs.Scheme {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// Source returns the name of the detector behind Current, or "" for the fallback.
func (w *Watcher) Source() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.source
}

// Subscribe registers fn for scheme changes. The returned function removes it.
func (w *Watcher) Subscribe(fn func(themeprefs.Scheme)) func() {
	return w.subs.add(fn)
}

// Refresh runs one detection pass, publishes a change if there is one and
// returns the current scheme.
func (w *Watcher) Refresh(ctx context.Context) themeprefs.Scheme {
	s, source := w.detect(ctx)

	w.pubMu.Lock()
	defer w.pubMu.Unlock()

	w.mu.Lock()
	changed := s != w.current
	w.current, w.source = s, source
	w.mu.Unlock()

	if changed {
		w.logger.Info("OS color scheme changed", "scheme", s, "source", source)
		w.subs.publish(s)
	}
	return s
}

// Start polls in the background until ctx is done or Stop is called.
func (w *Watcher) Start(ctx context.Context) {
	w.startOnce.Do(func() {
		w.mu.Lock()
		w.running = true
		w.mu.Unlock()
		go w.run(ctx)
	})
}

// Stop ends polling and waits for the poll goroutine to exit.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stop)
	})

	w.mu.RLock()
	running := w.running
	w.mu.RUnlock()
	if running {
		<-w.done
	}
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.done)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.Refresh(ctx)
		case <-ctx.Done():
			return
		case <-w.stop:
			return
		}
	}
}

func (w *Watcher) detect(ctx context.Context) (themeprefs.Scheme, string) {
	for _, d := range w.detectors {
		if !d.Available() {
			continue
		}

		dctx, cancel := context.WithTimeout(ctx, defaultDetectTimeout)
		s, err := d.Detect(dctx)
		cancel()

		if err != nil {
			w.logger.Debug("Color scheme detector failed", "detector", d.Name(), "error", err)
			continue
		}
		if !s.Valid() {
			continue
		}
		return s, d.Name()
	}
	return w.fallback, ""
}
