package sync

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPipeline(t *testing.T, userID string) (*Manager, *fakeRoster, *fakeMessages, *fakeUsers, *fakeActive, *recordingProvider) {
	t.Helper()
	roster := &fakeRoster{}
	messages := newFakeMessages()
	users := &fakeUsers{profiles: map[string]*Profile{
		"u2": {ID: "u2", Username: "sage"},
		"u3": {ID: "u3", Username: "jett"},
	}}
	active := &fakeActive{}
	provider := newRecordingProvider()

	notifier := NewNotifierConfig(NewChain(provider, LogProvider{}), 0, DefaultMaxQueue)
	m := NewManager(roster, messages, users, notifier, active)
	m.StartSync(userID)
	t.Cleanup(m.StopSync)
	return m, roster, messages, users, active, provider
}

func fullRoster() []Profile {
	return []Profile{
		{ID: "u1", Username: "me"},
		{ID: "u2", Username: "sage"},
		{ID: "u3", Username: "jett"},
	}
}

func TestManager_WatchersFromRoster(t *testing.T) {
	_, roster, messages, _, _, _ := newTestPipeline(t, "u1")

	roster.push(fullRoster())

	watched := messages.watchedChannels()
	assert.Len(t, watched, 2)
	assert.Contains(t, watched, "direct_u1_u2")
	assert.Contains(t, watched, "direct_u1_u3")

	// Re-pushing the roster must not duplicate watchers.
	roster.push(fullRoster())
	assert.Len(t, messages.watchedChannels(), 2)
}

func TestManager_NotifiesOnNewMessage(t *testing.T) {
	_, roster, messages, _, _, provider := newTestPipeline(t, "u1")
	roster.push(fullRoster())

	messages.push("direct_u1_u2", MessageEvent{
		Type: ChangeAdded, ID: "m1", ChannelID: "direct_u1_u2",
		SenderID: "u2", Content: "hi", CreatedAt: time.Now(),
	})

	require.Eventually(t, func() bool { return provider.count() == 1 }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, "sage: hi", provider.texts()[0])
}

func TestManager_FallbackSenderName(t *testing.T) {
	_, roster, messages, users, _, provider := newTestPipeline(t, "u1")
	users.profiles = map[string]*Profile{} // resolution will fail
	roster.push(fullRoster())

	messages.push("direct_u1_u2", MessageEvent{
		Type: ChangeAdded, ID: "m1", ChannelID: "direct_u1_u2",
		SenderID: "u2", Content: "hi", CreatedAt: time.Now(),
	})

	require.Eventually(t, func() bool { return provider.count() == 1 }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, "Someone: hi", provider.texts()[0])
}

func TestManager_DuplicateSnapshotEventDispatchesOnce(t *testing.T) {
	_, roster, messages, _, _, provider := newTestPipeline(t, "u1")
	roster.push(fullRoster())

	ev := MessageEvent{
		Type: ChangeAdded, ID: "m1", ChannelID: "direct_u1_u2",
		SenderID: "u2", Content: "hi", CreatedAt: time.Now(),
	}
	messages.push("direct_u1_u2", ev)
	messages.push("direct_u1_u2", ev)

	require.Eventually(t, func() bool { return provider.count() >= 1 }, 2*time.Second, 5*time.Millisecond)
	// Give the second (deduplicated) event time to have misbehaved.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, provider.count())
}

func TestManager_IgnoresReadFlagUpdates(t *testing.T) {
	_, roster, messages, _, _, provider := newTestPipeline(t, "u1")
	roster.push(fullRoster())

	messages.push("direct_u1_u2", MessageEvent{
		Type: ChangeModified, ID: "m1", ChannelID: "direct_u1_u2",
		SenderID: "u2", Content: "hi", CreatedAt: time.Now(), Read: true,
	})
	messages.push("direct_u1_u2", MessageEvent{
		Type: ChangeRemoved, ID: "m2", ChannelID: "direct_u1_u2",
		SenderID: "u2", Content: "bye", CreatedAt: time.Now(),
	})

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, provider.count())
}

func TestManager_SuppressesActiveChannel(t *testing.T) {
	_, roster, messages, _, active, provider := newTestPipeline(t, "u1")
	roster.push(fullRoster())
	active.set("u1", "direct_u1_u2")

	messages.push("direct_u1_u2", MessageEvent{
		Type: ChangeAdded, ID: "m1", ChannelID: "direct_u1_u2",
		SenderID: "u2", Content: "hi", CreatedAt: time.Now(),
	})
	messages.push("direct_u1_u3", MessageEvent{
		Type: ChangeAdded, ID: "m2", ChannelID: "direct_u1_u3",
		SenderID: "u3", Content: "yo", CreatedAt: time.Now(),
	})

	require.Eventually(t, func() bool { return provider.count() == 1 }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, "jett: yo", provider.texts()[0], "only the non-active channel notifies")
}

func TestManager_StartSyncIdempotentForSameUser(t *testing.T) {
	m, roster, _, _, _, _ := newTestPipeline(t, "u1")

	m.StartSync("u1")
	m.StartSync("u1")

	roster.mu.Lock()
	defer roster.mu.Unlock()
	assert.Equal(t, 1, roster.subscribed, "restart for the active user must be a no-op")
}

func TestManager_SwitchingUserTearsDownFirst(t *testing.T) {
	m, roster, messages, _, _, _ := newTestPipeline(t, "u1")
	roster.push(fullRoster())
	require.Len(t, messages.watchedChannels(), 2)

	m.StartSync("u9")

	// Every prior watcher and the roster listener are released before the
	// new user's sync begins.
	messages.mu.Lock()
	unsubbed := append([]string{}, messages.unsubbed...)
	messages.mu.Unlock()
	assert.Len(t, unsubbed, 2)

	roster.mu.Lock()
	assert.Equal(t, 1, roster.unsubbed)
	assert.Equal(t, 2, roster.subscribed)
	roster.mu.Unlock()

	status := m.Status()
	assert.True(t, status.Running)
	assert.Equal(t, "u9", status.UserID)
	assert.Equal(t, 0, status.WatcherCount)
}

func TestManager_StopSyncReleasesEverything(t *testing.T) {
	m, roster, messages, _, _, provider := newTestPipeline(t, "u1")
	roster.push(fullRoster())

	m.StopSync()

	assert.Empty(t, messages.watchedChannels())
	assert.False(t, m.Status().Running)

	// Events arriving after teardown are dropped even if a stray callback
	// still fires.
	messages.push("direct_u1_u2", MessageEvent{
		Type: ChangeAdded, ID: "m1", ChannelID: "direct_u1_u2",
		SenderID: "u2", Content: "hi", CreatedAt: time.Now(),
	})
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, provider.count())
}

func TestManager_WatchChannelForNewMatch(t *testing.T) {
	m, _, messages, _, _, provider := newTestPipeline(t, "u1")

	m.WatchChannel("direct_u1_u2")
	require.Contains(t, messages.watchedChannels(), "direct_u1_u2")

	messages.push("direct_u1_u2", MessageEvent{
		Type: ChangeAdded, ID: "m1", ChannelID: "direct_u1_u2",
		SenderID: "u2", Content: "gg", CreatedAt: time.Now(),
	})
	require.Eventually(t, func() bool { return provider.count() == 1 }, 2*time.Second, 5*time.Millisecond)
}

func TestRegistry_SessionLifecycle(t *testing.T) {
	roster := &fakeRoster{}
	messages := newFakeMessages()
	users := &fakeUsers{profiles: map[string]*Profile{}}
	r := NewRegistry(SessionDeps{
		Roster:   roster,
		Messages: messages,
		Users:    users,
		Active:   &fakeActive{},
		NewProviders: func(userID string) []Provider {
			return []Provider{newRecordingProvider()}
		},
	})

	m1 := r.Start("u1")
	m2 := r.Start("u1")
	assert.Same(t, m1, m2, "one session per user")

	r.Start("u2")
	assert.Len(t, r.Status(), 2)

	r.Stop("u1")
	assert.Len(t, r.Status(), 1)
	assert.False(t, m1.Status().Running)

	r.StopAll()
	assert.Empty(t, r.Status())
}
