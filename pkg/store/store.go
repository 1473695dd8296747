// Package store provides in-memory storage for calculator sessions, with
// theme preferences and evaluation history kept by a Persister.
package store

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lemonberrylabs/keycalc/pkg/calculator"
	"github.com/lemonberrylabs/keycalc/pkg/input"
	"github.com/lemonberrylabs/keycalc/pkg/theme"
)

// ErrNotFound is returned for unknown session IDs.
var ErrNotFound = errors.New("session not found")

// DefaultThemeKey is the preference key holding the theme most recently
// chosen in any session. New sessions start with it.
const DefaultThemeKey = "default"

// Session is one calculator with its theme. All access goes through the
// Store, which holds mu across a whole key cycle.
type Session struct {
	mu         sync.Mutex
	id         string
	calc       *calculator.Calculator
	theme      theme.Theme
	createTime time.Time
	updateTime time.Time
}

// Symbol is the JSON view of one expression token.
type Symbol struct {
	Value string `json:"value"`
	Kind  string `json:"kind"`
}

// Snapshot is a consistent copy of a session taken between key cycles.
type Snapshot struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Display    string    `json:"display"`
	Symbols    []Symbol  `json:"symbols"`
	Error      bool      `json:"error"`
	Theme      int       `json:"theme"`
	CreateTime time.Time `json:"createTime"`
	UpdateTime time.Time `json:"updateTime"`
}

// Store is a thread-safe registry of sessions.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	persist    Persister
	classifier *input.Classifier
}

// Option configures a Store.
type Option func(*Store)

// WithPersister sets where themes and history are kept. The default keeps
// them in memory.
func WithPersister(p Persister) Option {
	return func(s *Store) { s.persist = p }
}

// WithInputOptions sets the keyboard normalization used by every session.
func WithInputOptions(opts input.Options) Option {
	return func(s *Store) { s.classifier = input.NewClassifier(opts) }
}

// New creates a new empty store.
func New(opts ...Option) *Store {
	s := &Store{
		sessions:   make(map[string]*Session),
		persist:    NewMemoryPersister(),
		classifier: input.NewClassifier(input.DefaultOptions()),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Close releases the persister.
func (s *Store) Close() error {
	return s.persist.Close()
}

// SessionName returns the resource name of a session ID.
func SessionName(id string) string {
	return "sessions/" + id
}

// CreateSession starts a new session with an empty expression and the last
// chosen theme.
func (s *Store) CreateSession() (Snapshot, error) {
	t, err := s.persist.LoadTheme(DefaultThemeKey)
	if err != nil {
		return Snapshot{}, fmt.Errorf("loading default theme: %w", err)
	}

	id := uuid.NewString()
	now := time.Now()
	sess := &Session{
		id:         id,
		theme:      theme.Normalize(t),
		createTime: now,
		updateTime: now,
	}
	sess.calc = calculator.New(
		calculator.WithClassifier(s.classifier),
		calculator.WithRecorder(s.recorder(id)),
	)

	// Nothing else can see sess until it is in the map.
	snap := sess.snapshot()

	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()

	return snap, nil
}

func (s *Store) recorder(id string) calculator.Recorder {
	return calculator.RecorderFunc(func(ev calculator.Evaluation) {
		entry := HistoryEntry{
			Expression: ev.Expression,
			Result:     ev.Result,
			Failed:     ev.Err != nil,
			Time:       time.Now(),
		}
		if err := s.persist.AppendHistory(id, entry); err != nil {
			log.Printf("Warning: could not record history for session %s: %v", id, err)
		}
	})
}

func (s *Store) get(id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session '%s': %w", id, ErrNotFound)
	}
	return sess, nil
}

// GetSession returns a snapshot of a session.
func (s *Store) GetSession(id string) (Snapshot, error) {
	sess, err := s.get(id)
	if err != nil {
		return Snapshot{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.snapshot(), nil
}

// ListSessions returns snapshots of all sessions, oldest first.
func (s *Store) ListSessions() []Snapshot {
	s.mu.RLock()
	sessions := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	s.mu.RUnlock()

	result := make([]Snapshot, len(sessions))
	for i, sess := range sessions {
		sess.mu.Lock()
		result[i] = sess.snapshot()
		sess.mu.Unlock()
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreateTime.Equal(result[j].CreateTime) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreateTime.Before(result[j].CreateTime)
	})
	return result
}

// DeleteSession removes a session and its persisted data.
func (s *Store) DeleteSession(id string) error {
	s.mu.Lock()
	if _, ok := s.sessions[id]; !ok {
		s.mu.Unlock()
		return fmt.Errorf("session '%s': %w", id, ErrNotFound)
	}
	delete(s.sessions, id)
	s.mu.Unlock()

	if err := s.persist.DeleteSession(id); err != nil {
		return fmt.Errorf("deleting session data: %w", err)
	}
	return nil
}

// Press runs one key cycle on a session and reports whether the key was
// consumed.
func (s *Store) Press(id, raw string, src input.Source) (Snapshot, bool, error) {
	sess, err := s.get(id)
	if err != nil {
		return Snapshot{}, false, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	consumed := sess.calc.Press(raw, src)
	if consumed {
		sess.updateTime = time.Now()
	}
	return sess.snapshot(), consumed, nil
}

// PressAll runs one cycle per key, in order, and returns how many keys were
// consumed. No other press on the session interleaves.
func (s *Store) PressAll(id string, keys []string, src input.Source) (Snapshot, int, error) {
	sess, err := s.get(id)
	if err != nil {
		return Snapshot{}, 0, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	consumed := 0
	for _, k := range keys {
		if sess.calc.Press(k, src) {
			consumed++
		}
	}
	if consumed > 0 {
		sess.updateTime = time.Now()
	}
	return sess.snapshot(), consumed, nil
}

// NextTheme cycles the session's theme and stores it as the default for new
// sessions.
func (s *Store) NextTheme(id string) (Snapshot, error) {
	sess, err := s.get(id)
	if err != nil {
		return Snapshot{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	next := sess.theme.Next()
	if err := s.persist.SaveTheme(DefaultThemeKey, next); err != nil {
		return Snapshot{}, fmt.Errorf("saving theme: %w", err)
	}
	sess.theme = next
	sess.updateTime = time.Now()
	return sess.snapshot(), nil
}

// History returns the evaluations of a session, oldest first.
func (s *Store) History(id string) ([]HistoryEntry, error) {
	if _, err := s.get(id); err != nil {
		return nil, err
	}
	return s.persist.History(id)
}

// snapshot must be called with sess.mu held.
func (sess *Session) snapshot() Snapshot {
	symbols := sess.calc.Symbols()
	out := make([]Symbol, len(symbols))
	for i, sym := range symbols {
		out[i] = Symbol{Value: sym.Value, Kind: sym.Kind.String()}
	}
	return Snapshot{
		ID:         sess.id,
		Name:       SessionName(sess.id),
		Display:    sess.calc.Display(),
		Symbols:    out,
		Error:      sess.calc.HasError(),
		Theme:      int(sess.theme),
		CreateTime: sess.createTime,
		UpdateTime: sess.updateTime,
	}
}
