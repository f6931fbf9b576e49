package sync

import (
	"context"
	stdsync "sync"

	"github.com/alexuswingz/Clutched/pkg/logger"
)

// watcherLimit is how many recent messages each channel subscription keeps
// in view. More than one so bursts between pushes are not missed.
const watcherLimit = 10

// Manager owns the message-sync pipeline for one user session: it
// enumerates candidate channels from the live roster, keeps exactly one
// watcher per channel, classifies observed messages, resolves senders and
// feeds the notifier.
type Manager struct {
	roster   RosterSource
	messages MessageSubscriber
	resolver *Resolver
	notifier *Notifier
	active   ActiveChannels

	mu          stdsync.Mutex
	running     bool
	userID      string
	classifier  *Classifier
	ctx         context.Context
	cancel      context.CancelFunc
	unsubRoster func()
	watchers    map[string]func()
}

func NewManager(roster RosterSource, messages MessageSubscriber, users UserFetcher, notifier *Notifier, active ActiveChannels) *Manager {
	return &Manager{
		roster:   roster,
		messages: messages,
		resolver: NewResolver(users),
		notifier: notifier,
		active:   active,
		watchers: make(map[string]func()),
	}
}

// StartSync begins watching on behalf of userID. Starting again for the same
// user is a no-op; starting for a different user tears down every prior
// subscription first so notification streams never cross users.
func (m *Manager) StartSync(userID string) {
	m.mu.Lock()
	if m.running && m.userID == userID {
		m.mu.Unlock()
		logger.Debug().Str("userId", userID).Msg("Sync already active for user, skipping")
		return
	}
	m.mu.Unlock()

	m.StopSync()

	m.mu.Lock()
	ctx, cancel := context.WithCancel(context.Background())
	m.running = true
	m.userID = userID
	m.classifier = NewClassifier(userID)
	m.ctx = ctx
	m.cancel = cancel
	m.watchers = make(map[string]func())
	m.mu.Unlock()

	logger.Info().Str("userId", userID).Msg("Starting message sync")

	unsub, err := m.roster.SubscribeRoster(ctx, func(roster []Profile) {
		m.onRoster(ctx, roster)
	})
	if err != nil {
		// No roster stream means no enumeration; the session stays up with
		// zero watchers until it is restarted.
		logger.Error().Err(err).Str("userId", userID).Msg("Roster subscription failed")
		return
	}

	m.mu.Lock()
	if !m.running {
		// Stopped while we were subscribing.
		m.mu.Unlock()
		unsub()
		return
	}
	m.unsubRoster = unsub
	m.mu.Unlock()
}

// StopSync synchronously releases the roster listener and every channel
// watcher. Safe to call when not running.
func (m *Manager) StopSync() {
	m.mu.Lock()
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	unsubRoster := m.unsubRoster
	m.unsubRoster = nil
	watchers := m.watchers
	m.watchers = make(map[string]func())
	wasRunning := m.running
	m.running = false
	userID := m.userID
	m.userID = ""
	m.classifier = nil
	m.ctx = nil
	m.mu.Unlock()

	if unsubRoster != nil {
		unsubRoster()
	}
	for _, unsub := range watchers {
		unsub()
	}

	if wasRunning {
		logger.Info().Str("userId", userID).Int("watchers", len(watchers)).Msg("Stopped message sync")
	}
}

// onRoster re-enumerates candidate channels and registers watchers for the
// ones not already watched. Registration is idempotent per channel ID.
func (m *Manager) onRoster(ctx context.Context, roster []Profile) {
	m.mu.Lock()
	if !m.running || ctx.Err() != nil {
		m.mu.Unlock()
		return
	}
	userID := m.userID
	missing := make([]string, 0)
	for _, channelID := range CandidateChannels(userID, roster) {
		if _, watched := m.watchers[channelID]; !watched {
			missing = append(missing, channelID)
		}
	}
	m.mu.Unlock()

	for _, channelID := range missing {
		m.watchChannel(ctx, channelID)
	}
}

// WatchChannel registers a watcher for one channel outside the roster cycle,
// e.g. immediately after a new match.
func (m *Manager) WatchChannel(channelID string) {
	m.mu.Lock()
	running := m.running
	ctx := m.ctx
	m.mu.Unlock()
	if !running {
		return
	}
	m.watchChannel(ctx, channelID)
}

func (m *Manager) watchChannel(ctx context.Context, channelID string) {
	if ctx == nil {
		ctx = context.Background()
	}
	unsub, err := m.messages.SubscribeChannel(ctx, channelID, watcherLimit, m.onMessage)
	if err != nil {
		logger.Error().Err(err).Str("channelId", channelID).Msg("Channel subscription failed")
		return
	}

	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		unsub()
		return
	}
	if _, dup := m.watchers[channelID]; dup {
		// Raced with another registration for the same channel.
		m.mu.Unlock()
		unsub()
		return
	}
	m.watchers[channelID] = unsub
	m.mu.Unlock()
}

// onMessage is the per-event entry point for every watcher.
func (m *Manager) onMessage(ev MessageEvent) {
	// Snapshot replays and read-flag flips arrive as non-added changes and
	// never notify.
	if ev.Type != ChangeAdded {
		return
	}

	m.mu.Lock()
	running := m.running
	classifier := m.classifier
	userID := m.userID
	m.mu.Unlock()

	if !running || classifier == nil {
		return
	}
	if !classifier.Eligible(ev) {
		return
	}

	// A message for the channel the user is already viewing is never queued.
	if m.active != nil && m.active.Active(userID) == ev.ChannelID {
		return
	}

	go m.resolveAndNotify(ev)
}

func (m *Manager) resolveAndNotify(ev MessageEvent) {
	name := m.resolver.DisplayName(context.Background(), ev.SenderID)
	content := ev.Content
	if content == "" {
		content = "New message"
	}
	m.notifier.Notify(name+": "+content, ev.ChannelID, ev.ID)
}

// ClearChannel forwards to the notifier's channel-clear. Invoked when the
// user opens a channel.
func (m *Manager) ClearChannel(channelID string) {
	m.notifier.ClearChannel(channelID)
}

// SyncStatus describes a running session for the admin/status surface.
type SyncStatus struct {
	Running      bool        `json:"running"`
	UserID       string      `json:"userId"`
	WatcherCount int         `json:"watcherCount"`
	Channels     []string    `json:"channels"`
	Queue        QueueStatus `json:"queue"`
}

func (m *Manager) Status() SyncStatus {
	m.mu.Lock()
	channels := make([]string, 0, len(m.watchers))
	for id := range m.watchers {
		channels = append(channels, id)
	}
	status := SyncStatus{
		Running:      m.running,
		UserID:       m.userID,
		WatcherCount: len(channels),
		Channels:     channels,
	}
	m.mu.Unlock()

	status.Queue = m.notifier.Status()
	return status
}
