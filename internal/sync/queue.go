package sync

import (
	"strings"
	stdsync "sync"
	"time"

	"github.com/alexuswingz/Clutched/pkg/logger"
)

const (
	// DefaultCooldown is the minimum spacing between dispatched notifications.
	DefaultCooldown = 1 * time.Second
	// DefaultMaxQueue bounds the pending queue; the oldest unprocessed
	// candidate is evicted when full so the newest always fits.
	DefaultMaxQueue = 10
)

type candidate struct {
	key       string
	text      string
	channelID string
	messageID string
	enqueued  time.Time
}

// Notifier deduplicates, rate-limits and dispatches notifications. One
// instance belongs to one active user session; tests construct fresh
// instances.
//
// All state is guarded by mu. The drain loop releases the lock across every
// sleep and re-checks pending/draining afterwards, so enqueues arriving
// mid-cooldown are handled in order.
type Notifier struct {
	mu           stdsync.Mutex
	seen         map[string]struct{}
	pending      []candidate
	lastDispatch time.Time
	draining     bool

	cooldown time.Duration
	maxQueue int
	chain    *Chain

	now   func() time.Time
	sleep func(time.Duration)
}

func NewNotifier(chain *Chain) *Notifier {
	return NewNotifierConfig(chain, DefaultCooldown, DefaultMaxQueue)
}

func NewNotifierConfig(chain *Chain, cooldown time.Duration, maxQueue int) *Notifier {
	return &Notifier{
		seen:     make(map[string]struct{}),
		cooldown: cooldown,
		maxQueue: maxQueue,
		chain:    chain,
		now:      time.Now,
		sleep:    time.Sleep,
	}
}

// notificationKey derives the dedup identity, in priority order: message ID
// if present (global per-message dedup), else channel+content, else content.
func notificationKey(messageID, channelID, text string) string {
	if messageID != "" {
		return "msg:" + messageID
	}
	if channelID != "" {
		return "chat:" + channelID + ":" + text
	}
	return "content:" + text
}

// Notify enqueues a notification unless its key was already dispatched.
// The key is marked seen before dispatch so a burst of identical candidates
// arriving ahead of the drain cannot all pass the dedup check.
func (n *Notifier) Notify(text, channelID, messageID string) {
	key := notificationKey(messageID, channelID, text)

	n.mu.Lock()
	if _, dup := n.seen[key]; dup {
		n.mu.Unlock()
		logger.Debug().Str("key", key).Msg("Skipping notification, already notified")
		return
	}
	n.seen[key] = struct{}{}

	if len(n.pending) >= n.maxQueue {
		// Bounded loss: sacrifice the oldest unprocessed candidate.
		logger.Debug().Str("evicted", n.pending[0].key).Msg("Notification queue full, evicting oldest")
		n.pending = n.pending[1:]
	}
	n.pending = append(n.pending, candidate{
		key:       key,
		text:      text,
		channelID: channelID,
		messageID: messageID,
		enqueued:  n.now(),
	})

	start := !n.draining
	if start {
		n.draining = true
	}
	n.mu.Unlock()

	if start {
		go n.drain()
	}
}

// drain dispatches pending candidates in FIFO order, holding the candidate
// at the head of the queue while the cooldown runs down.
func (n *Notifier) drain() {
	for {
		n.mu.Lock()
		if len(n.pending) == 0 {
			n.draining = false
			n.mu.Unlock()
			return
		}

		if wait := n.cooldown - n.now().Sub(n.lastDispatch); wait > 0 {
			n.mu.Unlock()
			n.sleep(wait)
			// State may have changed during the sleep; loop and re-check.
			continue
		}

		c := n.pending[0]
		n.pending = n.pending[1:]
		n.lastDispatch = n.now()
		n.mu.Unlock()

		n.chain.Deliver(Notification{Text: c.text, ChannelID: c.channelID, MessageID: c.messageID})
	}
}

// ClearChannel forgets dispatched keys for a channel so future messages in
// it can notify again. Invoked when the user opens that channel.
//
// Message-scoped keys do not identify their channel, so they are all cleared
// too. That over-clears across channels; the source behaves the same way and
// the cost is only an occasional repeat notification, never a lost one.
func (n *Notifier) ClearChannel(channelID string) {
	prefix := "chat:" + channelID + ":"

	n.mu.Lock()
	removed := 0
	for key := range n.seen {
		if strings.HasPrefix(key, prefix) || strings.HasPrefix(key, "msg:") {
			delete(n.seen, key)
			removed++
		}
	}
	n.mu.Unlock()

	logger.Debug().Str("channelId", channelID).Int("removed", removed).Msg("Cleared notified keys for channel")
}

// Reset drops all state. Pending candidates are abandoned; an in-flight
// drain exits on its next re-check.
func (n *Notifier) Reset() {
	n.mu.Lock()
	n.seen = make(map[string]struct{})
	n.pending = nil
	n.lastDispatch = time.Time{}
	n.mu.Unlock()
}

// QueueStatus is a point-in-time snapshot for the admin/status surface.
type QueueStatus struct {
	QueueLength  int       `json:"queueLength"`
	Draining     bool      `json:"draining"`
	LastDispatch time.Time `json:"lastDispatch"`
	SeenCount    int       `json:"seenCount"`
}

func (n *Notifier) Status() QueueStatus {
	n.mu.Lock()
	defer n.mu.Unlock()
	return QueueStatus{
		QueueLength:  len(n.pending),
		Draining:     n.draining,
		LastDispatch: n.lastDispatch,
		SeenCount:    len(n.seen),
	}
}
