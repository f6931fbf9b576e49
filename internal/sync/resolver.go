package sync

import (
	"context"
	"time"

	"github.com/alexuswingz/Clutched/pkg/logger"
)

// FallbackSenderName is substituted whenever a sender cannot be resolved.
// Resolution failure must never block notification delivery.
const FallbackSenderName = "Someone"

const resolveTimeout = 5 * time.Second

// Resolver turns an author ID into a display name. Lookups are not cached:
// each resolution re-fetches, which is an accepted inefficiency.
type Resolver struct {
	users UserFetcher
}

func NewResolver(users UserFetcher) *Resolver {
	return &Resolver{users: users}
}

// DisplayName returns the sender's username, or FallbackSenderName on any
// failure (network error, missing record, blank name).
func (r *Resolver) DisplayName(ctx context.Context, senderID string) string {
	ctx, cancel := context.WithTimeout(ctx, resolveTimeout)
	defer cancel()

	profile, err := r.users.FetchUser(ctx, senderID)
	if err != nil {
		logger.Debug().Err(err).Str("senderId", senderID).Msg("Sender resolution failed, using fallback")
		return FallbackSenderName
	}
	if profile == nil || profile.Username == "" {
		return FallbackSenderName
	}
	return profile.Username
}
