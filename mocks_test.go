package themeprefs

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// MockStore implements the Store interface for testing
type MockStore struct {
	mu       sync.Mutex
	data     map[string]string
	getErr   error
	setErr   error
	getGate  chan struct{} // when non-nil, Get waits for it to be closed
	setGate  chan struct{} // when non-nil, Set waits for it to be closed
	setCalls []string
	closed   bool
}

func NewMockStore() *MockStore {
	return &MockStore{
		data: make(map[string]string),
	}
}

func (m *MockStore) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	gate := m.getGate
	m.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return "", ErrStorageUnavailable
	}
	if m.getErr != nil {
		return "", m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *MockStore) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	gate := m.setGate
	m.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.setCalls = append(m.setCalls, value)
	if m.closed {
		return ErrStorageUnavailable
	}
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	return nil
}

func (m *MockStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *MockStore) value(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok
}

func (m *MockStore) calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.setCalls))
	copy(out, m.setCalls)
	return out
}

// MockSchemeProvider implements the SchemeProvider interface for testing
type MockSchemeProvider struct {
	mu      sync.Mutex
	current Scheme
	nextID  int
	subs    map[int]func(Scheme)
}

func NewMockSchemeProvider(initial Scheme) *MockSchemeProvider {
	return &MockSchemeProvider{
		current: initial,
		subs:    make(map[int]func(Scheme)),
	}
}

func (p *MockSchemeProvider) Current() Scheme {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

func (p *MockSchemeProvider) Subscribe(fn func(Scheme)) func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.nextID
	p.nextID++
	p.subs[id] = fn
	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.subs, id)
	}
}

func (p *MockSchemeProvider) Set(s Scheme) {
	p.mu.Lock()
	p.current = s
	subs := make([]func(Scheme), 0, len(p.subs))
	for _, fn := range p.subs {
		subs = append(subs, fn)
	}
	p.mu.Unlock()

	for _, fn := range subs {
		fn(s)
	}
}

func (p *MockSchemeProvider) subscribers() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.subs)
}

// MockEncrypter implements the Encrypter interface for testing
type MockEncrypter struct{}

func (MockEncrypter) Encrypt(plaintext, associated string) (string, error) {
	return "enc:" + associated + ":" + plaintext, nil
}

func (MockEncrypter) Decrypt(ciphertext, associated string) (string, error) {
	prefix := "enc:" + associated + ":"
	if !strings.HasPrefix(ciphertext, prefix) {
		return "", fmt.Errorf("not encrypted for %q: %q", associated, ciphertext)
	}
	return strings.TrimPrefix(ciphertext, prefix), nil
}

// MockLogger implements the Logger interface for testing
type MockLogger struct {
	mu       sync.Mutex
	Messages []string
}

func (m *MockLogger) Debug(msg string, args ...any) {
	m.record("DEBUG", msg, args...)
}

func (m *MockLogger) Info(msg string, args ...any) {
	m.record("INFO", msg, args...)
}

func (m *MockLogger) Warn(msg string, args ...any) {
	m.record("WARN", msg, args...)
}

func (m *MockLogger) Error(msg string, args ...any) {
	m.record("ERROR", msg, args...)
}

func (m *MockLogger) record(level, msg string, args ...any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Messages = append(m.Messages, formatMessage(level, msg, args...))
}

// Has reports whether a message with the given level prefix and substring was logged.
func (m *MockLogger) Has(level, substr string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, msg := range m.Messages {
		if strings.HasPrefix(msg, level+":") && strings.Contains(msg, substr) {
			return true
		}
	}
	return false
}

func formatMessage(level, msg string, args ...any) string {
	if len(args) > 0 {
		return fmt.Sprintf("%s: %s %v", level, msg, args)
	}
	return fmt.Sprintf("%s: %s", level, msg)
}
