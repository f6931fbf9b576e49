package handlers

import (
	"github.com/alexuswingz/Clutched/internal/realtime"
	"github.com/alexuswingz/Clutched/internal/sync"
)

// Package-level wiring, set once from main. Handlers tolerate nil values so
// tests can call them without the realtime stack.
var (
	EventBus       *realtime.Bus
	SyncRegistry   *sync.Registry
	ActiveChannels *realtime.ActiveChannelStore
)

// Wire connects the handlers to the event bus and the sync registry.
func Wire(bus *realtime.Bus, registry *sync.Registry, active *realtime.ActiveChannelStore) {
	EventBus = bus
	SyncRegistry = registry
	ActiveChannels = active
}
