package sync

import (
	"fmt"

	"github.com/alexuswingz/Clutched/pkg/logger"
)

// Notification is a finished, dispatch-ready notification.
type Notification struct {
	Text      string
	ChannelID string
	MessageID string
}

// Provider is one presentation surface. TryDeliver returns true when it
// handled the notification; false hands it to the next provider in the chain.
type Provider interface {
	TryDeliver(n Notification) bool
}

// Chain walks an ordered list of providers until one delivers. A provider
// that panics counts as a failed delivery attempt; no panic escapes the
// chain. The chain is normally terminated with LogProvider so delivery is
// never silent.
type Chain struct {
	providers []Provider
}

func NewChain(providers ...Provider) *Chain {
	return &Chain{providers: providers}
}

func (c *Chain) Deliver(n Notification) {
	for _, p := range c.providers {
		if tryDeliver(p, n) {
			return
		}
	}
	logger.Warn().Str("text", n.Text).Str("channelId", n.ChannelID).Msg("Notification fell through every provider")
}

func tryDeliver(p Provider, n Notification) (delivered bool) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error().Str("panic", fmt.Sprintf("%v", r)).Msg("Notification provider panicked, falling through")
			delivered = false
		}
	}()
	return p.TryDeliver(n)
}

// LogProvider is the terminal surface: it writes the notification to the log
// and always succeeds.
type LogProvider struct{}

func (LogProvider) TryDeliver(n Notification) bool {
	logger.Warn().
		Str("channelId", n.ChannelID).
		Str("messageId", n.MessageID).
		Msg("NOTIFICATION: " + n.Text)
	return true
}
