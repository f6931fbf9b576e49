package sync

import (
	stdsync "sync"
)

// SessionDeps is the external wiring a session manager needs. NewProviders
// builds the per-user presentation chain (toast, push, ...); LogProvider is
// always appended as the terminal surface.
type SessionDeps struct {
	Roster       RosterSource
	Messages     MessageSubscriber
	Users        UserFetcher
	Active       ActiveChannels
	NewProviders func(userID string) []Provider
}

// Registry owns one Manager per connected user. It replaces the original's
// process-wide singleton: same one-instance-per-active-session semantic,
// but explicit and constructible per test.
type Registry struct {
	mu       stdsync.Mutex
	deps     SessionDeps
	sessions map[string]*Manager
}

func NewRegistry(deps SessionDeps) *Registry {
	return &Registry{deps: deps, sessions: make(map[string]*Manager)}
}

// Start ensures a running session for userID. Idempotent.
func (r *Registry) Start(userID string) *Manager {
	r.mu.Lock()
	m, ok := r.sessions[userID]
	if !ok {
		providers := []Provider{}
		if r.deps.NewProviders != nil {
			providers = r.deps.NewProviders(userID)
		}
		providers = append(providers, LogProvider{})
		notifier := NewNotifier(NewChain(providers...))
		m = NewManager(r.deps.Roster, r.deps.Messages, r.deps.Users, notifier, r.deps.Active)
		r.sessions[userID] = m
	}
	r.mu.Unlock()

	m.StartSync(userID)
	return m
}

// Stop tears down and forgets the session for userID.
func (r *Registry) Stop(userID string) {
	r.mu.Lock()
	m, ok := r.sessions[userID]
	delete(r.sessions, userID)
	r.mu.Unlock()

	if ok {
		m.StopSync()
	}
}

// ClearChannel clears dispatched notification keys for the channel on the
// user's session, if one is running.
func (r *Registry) ClearChannel(userID, channelID string) {
	r.mu.Lock()
	m, ok := r.sessions[userID]
	r.mu.Unlock()

	if ok {
		m.ClearChannel(channelID)
	}
}

// WatchChannel registers an extra watcher on the user's session (new match).
func (r *Registry) WatchChannel(userID, channelID string) {
	r.mu.Lock()
	m, ok := r.sessions[userID]
	r.mu.Unlock()

	if ok {
		m.WatchChannel(channelID)
	}
}

// StopAll tears down every session (server shutdown).
func (r *Registry) StopAll() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*Manager)
	r.mu.Unlock()

	for _, m := range sessions {
		m.StopSync()
	}
}

// Status reports every running session keyed by user ID.
func (r *Registry) Status() map[string]SyncStatus {
	r.mu.Lock()
	sessions := make(map[string]*Manager, len(r.sessions))
	for id, m := range r.sessions {
		sessions[id] = m
	}
	r.mu.Unlock()

	out := make(map[string]SyncStatus, len(sessions))
	for id, m := range sessions {
		out[id] = m.Status()
	}
	return out
}
