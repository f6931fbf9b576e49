// Package sync implements the notification and message-sync pipeline: it
// watches every conversation channel a user could be part of, classifies
// newly appended messages, resolves sender names, and funnels eligible
// messages through a deduplicating, rate-limited notification queue into
// whichever presentation surface is available.
//
// The package only depends on the small interfaces below, so production
// wiring (Postgres roster, Redis pub/sub, socket.io toasts) and tests
// (in-memory fakes) plug in the same way.
package sync

import (
	"context"
	"time"
)

// Profile is the slice of a user record the pipeline needs. Defaults are
// substituted at the boundary (resolver, classifier) so code past that point
// never re-checks for missing fields.
type Profile struct {
	ID       string
	Username string
	Avatar   string
	Role     string
}

// ChangeType tags a message stream event the way snapshot listeners do.
type ChangeType string

const (
	ChangeAdded    ChangeType = "added"
	ChangeModified ChangeType = "modified"
	ChangeRemoved  ChangeType = "removed"
)

// MessageEvent is one observed change on a channel's message stream.
type MessageEvent struct {
	Type      ChangeType
	ID        string
	ChannelID string
	SenderID  string
	Content   string
	CreatedAt time.Time
	Read      bool
}

// RosterSource pushes the full user listing on every roster change.
// The returned func unsubscribes.
type RosterSource interface {
	SubscribeRoster(ctx context.Context, fn func([]Profile)) (func(), error)
}

// MessageSubscriber establishes a live subscription to one channel's
// messages, newest first, bounded to limit. The returned func unsubscribes.
type MessageSubscriber interface {
	SubscribeChannel(ctx context.Context, channelID string, limit int, fn func(MessageEvent)) (func(), error)
}

// UserFetcher resolves a user ID to a profile.
type UserFetcher interface {
	FetchUser(ctx context.Context, id string) (*Profile, error)
}

// ActiveChannels reports which channel a user is currently viewing
// (empty string when none). Messages for the active channel are never
// queued for notification.
type ActiveChannels interface {
	Active(userID string) string
}
