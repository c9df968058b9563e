// Package scheme provides themeprefs.SchemeProvider implementations: a Manual
// provider set by the host and a Watcher that polls OS detectors.
package scheme

import (
	"sync"

	"github.com/google/uuid"

	"github.com/CreativeUnicorns/themeprefs"
)

type subscriber struct {
	id string
	fn func(themeprefs.Scheme)
}

// subscribers is a set of callbacks safe for concurrent use.
type subscribers struct {
	mu   sync.Mutex
	list []subscriber
}

func (s *subscribers) add(fn func(themeprefs.Scheme)) func() {
	if fn == nil {
		return func() {}
	}
	id := uuid.NewString()

	s.mu.Lock()
	s.list = append(s.list, subscriber{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, sub := range s.list {
				if sub.id == id {
					s.list = append(s.list[:i:i], s.list[i+1:]...)
					return
				}
			}
		})
	}
}

func (s *subscribers) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.list)
}

// publish calls every callback outside the lock.
func (s *subscribers) publish(v themeprefs.Scheme) {
	s.mu.Lock()
	targets := make([]subscriber, len(s.list))
	copy(targets, s.list)
	s.mu.Unlock()

	for _, sub := range targets {
		sub.fn(v)
	}
}
