package scheme

import (
	"fmt"
	"sync"

	"github.com/CreativeUnicorns/themeprefs"
)

// Manual is a SchemeProvider whose value is reported by the host, for example
// a client forwarding its device setting. Subscribers are notified only when
// the value changes, in the order the values were set.
type Manual struct {
	pubMu   sync.Mutex // held across commit and publish
	mu      sync.RWMutex
	current themeprefs.Scheme
	subs    subscribers
}

// NewManual returns a Manual reporting initial. An invalid initial scheme is treated as light.
func NewManual(initial themeprefs.Scheme) *Manual {
	if !initial.Valid() {
		initial = themeprefs.SchemeLight
	}
	return &Manual{current: initial}
}

// Current returns the last scheme set.
func (m *Manual) Current() themeprefs.Scheme {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Set records s and notifies subscribers if it differs from the current value.
// Concurrent calls are serialized, so the last value delivered is the last value set.
// Subscribers must not call Set.
func (m *Manual) Set(s themeprefs.Scheme) error {
	if !s.Valid() {
		return fmt.Errorf("%w: %q", themeprefs.ErrInvalidScheme, s)
	}

	m.pubMu.Lock()
	defer m.pubMu.Unlock()

	m.mu.Lock()
	changed := m.current != s
	m.current = s
	m.mu.Unlock()

	if changed {
		m.subs.publish(s)
	}
	return nil
}

// Subscribe registers fn for changes. The returned function removes it.
func (m *Manual) Subscribe(fn func(themeprefs.Scheme)) func() {
	return m.subs.add(fn)
}

// Subscribers returns the number of registered callbacks.
func (m *Manual) Subscribers() int {
	return m.subs.len()
}
