package realtime

import (
	"context"
	"time"

	"github.com/alexuswingz/Clutched/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const activeKeyPrefix = "clutched:active:"

// Channels linger a day at most in case a client never sends the clear.
const activeChannelTTL = 24 * time.Hour

// ActiveChannelStore tracks which channel each user is currently viewing.
// The UI sets it when a chat opens and clears it on leave; the sync
// pipeline reads it to suppress notifications for the visible channel.
// Implements sync.ActiveChannels.
type ActiveChannelStore struct {
	rdb *redis.Client
}

func NewActiveChannelStore(rdb *redis.Client) *ActiveChannelStore {
	return &ActiveChannelStore{rdb: rdb}
}

// Set records the user's active channel; an empty channelID clears it.
func (s *ActiveChannelStore) Set(userID, channelID string) {
	if s == nil || s.rdb == nil {
		return
	}
	ctx := context.Background()
	var err error
	if channelID == "" {
		err = s.rdb.Del(ctx, activeKeyPrefix+userID).Err()
	} else {
		err = s.rdb.Set(ctx, activeKeyPrefix+userID, channelID, activeChannelTTL).Err()
	}
	if err != nil {
		logger.Error().Err(err).Str("userId", userID).Msg("Failed to update active channel")
	}
}

// Active returns the channel the user is viewing, or empty. Read failures
// count as "no active channel" so notifications still flow.
func (s *ActiveChannelStore) Active(userID string) string {
	if s == nil || s.rdb == nil {
		return ""
	}
	val, err := s.rdb.Get(context.Background(), activeKeyPrefix+userID).Result()
	if err != nil {
		return ""
	}
	return val
}
