package sync

import "time"

// DefaultRecencyWindow is the maximum message age still considered timely.
// It guards against backlog replay when a watcher is (re)established against
// historical data.
const DefaultRecencyWindow = 2 * time.Minute

// Classifier decides whether a newly appended message qualifies for
// notification. Pure and synchronous, no side effects.
type Classifier struct {
	userID string
	window time.Duration
	now    func() time.Time
}

func NewClassifier(userID string) *Classifier {
	return &Classifier{userID: userID, window: DefaultRecencyWindow, now: time.Now}
}

// Eligible applies the two gates: never notify about your own messages, and
// never notify about messages older than the recency window.
func (c *Classifier) Eligible(ev MessageEvent) bool {
	if ev.SenderID == c.userID {
		return false
	}
	if c.now().Sub(ev.CreatedAt) > c.window {
		return false
	}
	return true
}
