package store

import (
	"sync"
	"time"

	"github.com/lemonberrylabs/keycalc/pkg/theme"
)

// HistoryEntry is one recorded evaluation.
type HistoryEntry struct {
	Seq        int       `json:"seq"`
	Expression string    `json:"expression"`
	Result     string    `json:"result"`
	Failed     bool      `json:"failed,omitempty"`
	Time       time.Time `json:"time"`
}

// Persister keeps theme preferences and evaluation history.
type Persister interface {
	// LoadTheme returns the stored theme for key, or theme.Default.
	LoadTheme(key string) (theme.Theme, error)
	// SaveTheme stores t under key.
	SaveTheme(key string, t theme.Theme) error
	// AppendHistory appends e to a session's history, assigning Seq.
	AppendHistory(sessionID string, e HistoryEntry) error
	// History returns a session's history, oldest first.
	History(sessionID string) ([]HistoryEntry, error)
	// DeleteSession drops a session's history.
	DeleteSession(sessionID string) error
	Close() error
}

// MemoryPersister is a Persister that forgets everything on exit.
type MemoryPersister struct {
	mu      sync.Mutex
	themes  map[string]theme.Theme
	history map[string][]HistoryEntry
}

// NewMemoryPersister creates an empty MemoryPersister.
func NewMemoryPersister() *MemoryPersister {
	return &MemoryPersister{
		themes:  make(map[string]theme.Theme),
		history: make(map[string][]HistoryEntry),
	}
}

func (m *MemoryPersister) LoadTheme(key string) (theme.Theme, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.themes[key]; ok {
		return theme.Normalize(t), nil
	}
	return theme.Default, nil
}

func (m *MemoryPersister) SaveTheme(key string, t theme.Theme) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.themes[key] = theme.Normalize(t)
	return nil
}

func (m *MemoryPersister) AppendHistory(sessionID string, e HistoryEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e.Seq = len(m.history[sessionID]) + 1
	m.history[sessionID] = append(m.history[sessionID], e)
	return nil
}

func (m *MemoryPersister) History(sessionID string) ([]HistoryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h := m.history[sessionID]
	out := make([]HistoryEntry, len(h))
	copy(out, h)
	return out, nil
}

func (m *MemoryPersister) DeleteSession(sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.history, sessionID)
	return nil
}

func (m *MemoryPersister) Close() error { return nil }
