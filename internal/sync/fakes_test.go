package sync

import (
	"context"
	"errors"
	stdsync "sync"
	"time"
)

// In-memory stand-ins for the external primitives the pipeline consumes.

type fakeRoster struct {
	mu         stdsync.Mutex
	fns        []func([]Profile)
	subscribed int
	unsubbed   int
	subErr     error
}

func (f *fakeRoster) SubscribeRoster(ctx context.Context, fn func([]Profile)) (func(), error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.subErr != nil {
		return nil, f.subErr
	}
	f.subscribed++
	f.fns = append(f.fns, fn)
	return func() {
		f.mu.Lock()
		f.unsubbed++
		f.mu.Unlock()
	}, nil
}

func (f *fakeRoster) push(roster []Profile) {
	f.mu.Lock()
	fns := append([]func([]Profile){}, f.fns...)
	f.mu.Unlock()
	for _, fn := range fns {
		fn(roster)
	}
}

type fakeMessages struct {
	mu       stdsync.Mutex
	subs     map[string]func(MessageEvent)
	unsubbed []string
}

func newFakeMessages() *fakeMessages {
	return &fakeMessages{subs: make(map[string]func(MessageEvent))}
}

func (f *fakeMessages) SubscribeChannel(ctx context.Context, channelID string, limit int, fn func(MessageEvent)) (func(), error) {
	f.mu.Lock()
	f.subs[channelID] = fn
	f.mu.Unlock()
	return func() {
		f.mu.Lock()
		delete(f.subs, channelID)
		f.unsubbed = append(f.unsubbed, channelID)
		f.mu.Unlock()
	}, nil
}

func (f *fakeMessages) push(channelID string, ev MessageEvent) {
	f.mu.Lock()
	fn := f.subs[channelID]
	f.mu.Unlock()
	if fn != nil {
		fn(ev)
	}
}

func (f *fakeMessages) watchedChannels() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.subs))
	for id := range f.subs {
		out = append(out, id)
	}
	return out
}

type fakeUsers struct {
	profiles map[string]*Profile
	err      error
}

func (f *fakeUsers) FetchUser(ctx context.Context, id string) (*Profile, error) {
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.profiles[id]
	if !ok {
		return nil, errors.New("user not found")
	}
	return p, nil
}

type fakeActive struct {
	mu      stdsync.Mutex
	current map[string]string
}

func (f *fakeActive) Active(userID string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current[userID]
}

func (f *fakeActive) set(userID, channelID string) {
	f.mu.Lock()
	if f.current == nil {
		f.current = make(map[string]string)
	}
	f.current[userID] = channelID
	f.mu.Unlock()
}

// recordingProvider captures delivered notifications with timestamps.
type recordingProvider struct {
	mu        stdsync.Mutex
	delivered []Notification
	times     []time.Time
	accept    bool
}

func newRecordingProvider() *recordingProvider {
	return &recordingProvider{accept: true}
}

func (p *recordingProvider) TryDeliver(n Notification) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.accept {
		return false
	}
	p.delivered = append(p.delivered, n)
	p.times = append(p.times, time.Now())
	return true
}

func (p *recordingProvider) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.delivered)
}

func (p *recordingProvider) texts() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.delivered))
	for i, n := range p.delivered {
		out[i] = n.Text
	}
	return out
}

type panickyProvider struct{}

func (panickyProvider) TryDeliver(Notification) bool {
	panic("broken surface")
}
