// Package session keeps the signed-in user and dashboard settings in process
// memory, optionally mirrored to a persistence backend so they survive
// restarts.
package session

import (
	"log/slog"
	"sync"

	"micropartner/internal/core"
)

// Settings are the display preferences editable from the dashboard.
type Settings struct {
	CompanyName string `json:"companyName"`
	LogoURL     string `json:"logoUrl"`
}

// DefaultSettings returns the branding used before anyone customizes it.
func DefaultSettings() Settings {
	return Settings{CompanyName: "Micro Partner", LogoURL: ""}
}

// State is the full snapshot handed to persistence backends and subscribers.
type State struct {
	User     *core.User `json:"user,omitempty"`
	Settings Settings   `json:"settings"`
}

// Persistence stores and restores session state across restarts.
type Persistence interface {
	Save(state State) error
	Load() (State, bool, error)
}

// Store holds session state behind a mutex. Construct with NewStore.
type Store struct {
	mu          sync.RWMutex
	state       State
	persistence Persistence
	subscribers []func(State)
}

func NewStore(p Persistence) *Store {
	s := &Store{
		state:       State{Settings: DefaultSettings()},
		persistence: p,
	}
	if p != nil {
		if loaded, ok, err := p.Load(); err != nil {
			slog.Warn("Failed to restore session state", "error", err)
		} else if ok {
			s.state = loaded
			if s.state.Settings == (Settings{}) {
				s.state.Settings = DefaultSettings()
			}
		}
	}
	return s
}

// User returns the signed-in user, or false when nobody is signed in.
func (s *Store) User() (core.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state.User == nil {
		return core.User{}, false
	}
	return *s.state.User, true
}

// SetUser records a successful login.
func (s *Store) SetUser(u core.User) {
	s.update(func(st *State) { st.User = &u })
}

// Clear signs the current user out. Settings are kept.
func (s *Store) Clear() {
	s.update(func(st *State) { st.User = nil })
}

func (s *Store) Settings() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Settings
}

func (s *Store) SetSettings(set Settings) {
	s.update(func(st *State) { st.Settings = set })
}

// OnChange registers fn to run after every state change. Subscribers are
// called outside the lock, on the mutating goroutine.
func (s *Store) OnChange(fn func(State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

func (s *Store) update(mutate func(*State)) {
	s.mu.Lock()
	mutate(&s.state)
	snapshot := s.state
	subs := make([]func(State), len(s.subscribers))
	copy(subs, s.subscribers)
	s.mu.Unlock()

	if s.persistence != nil {
		if err := s.persistence.Save(snapshot); err != nil {
			slog.Warn("Failed to persist session state", "error", err)
		}
	}
	for _, fn := range subs {
		fn(snapshot)
	}
}
