// Package toast schedules short-lived notifications.
package toast

import (
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Kind is the severity of a toast.
type Kind string

const (
	Info    Kind = "info"
	Success Kind = "success"
	Warning Kind = "warning"
	Error   Kind = "error"
)

const (
	// MaxVisible bounds the queue; the oldest toast is evicted first.
	MaxVisible = 5
	// DefaultDuration applies when Show is given a zero duration.
	DefaultDuration = 3 * time.Second
	// Sticky disables auto-dismiss.
	Sticky time.Duration = -1
)

// Toast is one visible notification.
type Toast struct {
	ID        string        `json:"id"`
	Kind      Kind          `json:"kind"`
	Message   string        `json:"message"`
	Duration  time.Duration `json:"duration"`
	CreatedAt time.Time     `json:"createdAt"`
}

// Manager owns the visible toasts and their dismiss timers. Every timer it
// starts is stopped by Dismiss, eviction, Clear or Close.
type Manager struct {
	mu       sync.Mutex
	toasts   []Toast
	timers   map[string]*time.Timer
	onChange func([]Toast)
	closed   bool
}

// NewManager returns an empty manager. onChange, if non-nil, receives a
// snapshot after every change; it is called without the lock held.
func NewManager(onChange func([]Toast)) *Manager {
	return &Manager{timers: make(map[string]*time.Timer), onChange: onChange}
}

// Show queues a toast and returns its ID. A zero duration uses
// DefaultDuration; a negative one never expires. After Close it returns "".
func (m *Manager) Show(kind Kind, message string, d time.Duration) string {
	if d == 0 {
		d = DefaultDuration
	}
	t := Toast{ID: uuid.NewString(), Kind: kind, Message: message, Duration: d, CreatedAt: time.Now()}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ""
	}
	m.toasts = append(m.toasts, t)
	for len(m.toasts) > MaxVisible {
		m.stopLocked(m.toasts[0].ID)
		m.toasts = m.toasts[1:]
	}
	if d > 0 {
		id := t.ID
		m.timers[id] = time.AfterFunc(d, func() { m.Dismiss(id) })
	}
	snap := m.snapshotLocked()
	m.mu.Unlock()

	m.notify(snap)
	return t.ID
}

// Dismiss removes a toast and stops its timer. It reports whether the toast
// was visible.
func (m *Manager) Dismiss(id string) bool {
	m.mu.Lock()
	i := slices.IndexFunc(m.toasts, func(t Toast) bool { return t.ID == id })
	if i < 0 {
		m.mu.Unlock()
		return false
	}
	m.stopLocked(id)
	m.toasts = slices.Delete(m.toasts, i, i+1)
	snap := m.snapshotLocked()
	m.mu.Unlock()

	m.notify(snap)
	return true
}

// List returns the visible toasts, oldest first.
func (m *Manager) List() []Toast {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// Clear dismisses every toast.
func (m *Manager) Clear() {
	m.mu.Lock()
	for id := range m.timers {
		m.stopLocked(id)
	}
	m.toasts = nil
	m.mu.Unlock()

	m.notify(nil)
}

// Close stops every pending timer. The manager accepts no new toasts.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id := range m.timers {
		m.stopLocked(id)
	}
	m.toasts = nil
	m.closed = true
}

// Pending reports how many dismiss timers are scheduled.
func (m *Manager) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.timers)
}

func (m *Manager) stopLocked(id string) {
	if t, ok := m.timers[id]; ok {
		t.Stop()
		delete(m.timers, id)
	}
}

func (m *Manager) snapshotLocked() []Toast {
	return slices.Clone(m.toasts)
}

func (m *Manager) notify(snap []Toast) {
	if m.onChange != nil {
		m.onChange(snap)
	}
}
