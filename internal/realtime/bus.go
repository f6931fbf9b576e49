package realtime

import (
	"context"
	"encoding/json"

	"github.com/alexuswingz/Clutched/internal/sync"
	"github.com/alexuswingz/Clutched/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const (
	rosterTopic        = "clutched:roster"
	messageTopicPrefix = "clutched:chan:"
)

// Bus is the Redis pub/sub event bus behind the sync pipeline's live
// streams. Chat handlers publish message events as they persist them; the
// roster topic carries a ping on every profile change and subscribers
// re-load the listing from the store.
type Bus struct {
	rdb        *redis.Client
	loadRoster func(ctx context.Context) ([]sync.Profile, error)
}

func NewBus(rdb *redis.Client, loadRoster func(ctx context.Context) ([]sync.Profile, error)) *Bus {
	return &Bus{rdb: rdb, loadRoster: loadRoster}
}

// PublishMessage pushes a message change event to the channel's topic.
func (b *Bus) PublishMessage(ev sync.MessageEvent) {
	if b == nil || b.rdb == nil {
		return
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to encode message event")
		return
	}
	if err := b.rdb.Publish(context.Background(), messageTopicPrefix+ev.ChannelID, payload).Err(); err != nil {
		logger.Error().Err(err).Str("channelId", ev.ChannelID).Msg("Failed to publish message event")
	}
}

// PublishRosterChanged signals that the user listing changed.
func (b *Bus) PublishRosterChanged() {
	if b == nil || b.rdb == nil {
		return
	}
	if err := b.rdb.Publish(context.Background(), rosterTopic, "changed").Err(); err != nil {
		logger.Error().Err(err).Msg("Failed to publish roster change")
	}
}

// SubscribeRoster implements sync.RosterSource: an initial snapshot push
// followed by a re-loaded push on every roster change signal. A failed load
// pushes an empty listing; the next signal retries.
func (b *Bus) SubscribeRoster(ctx context.Context, fn func([]sync.Profile)) (func(), error) {
	ps := b.rdb.Subscribe(ctx, rosterTopic)
	if _, err := ps.Receive(ctx); err != nil {
		ps.Close()
		return nil, err
	}

	push := func() {
		users, err := b.loadRoster(ctx)
		if err != nil {
			logger.Error().Err(err).Msg("Roster load failed, pushing empty listing")
			fn(nil)
			return
		}
		fn(users)
	}

	go func() {
		push()
		for range ps.Channel() {
			push()
		}
	}()

	return func() { ps.Close() }, nil
}

// SubscribeChannel implements sync.MessageSubscriber over the channel's
// topic. Pub/sub has no replay, so a fresh subscription only observes
// messages sent after it was established; the limit exists for parity with
// snapshot-style sources and bounds nothing here.
func (b *Bus) SubscribeChannel(ctx context.Context, channelID string, limit int, fn func(sync.MessageEvent)) (func(), error) {
	ps := b.rdb.Subscribe(ctx, messageTopicPrefix+channelID)
	if _, err := ps.Receive(ctx); err != nil {
		ps.Close()
		return nil, err
	}

	go func() {
		for msg := range ps.Channel() {
			var ev sync.MessageEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				logger.Error().Err(err).Str("channelId", channelID).Msg("Malformed message event, skipping")
				continue
			}
			fn(ev)
		}
	}()

	return func() { ps.Close() }, nil
}
