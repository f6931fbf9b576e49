package realtime

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/alexuswingz/Clutched/internal/config"
	"github.com/alexuswingz/Clutched/internal/database"
	"github.com/alexuswingz/Clutched/internal/models"
	"github.com/alexuswingz/Clutched/internal/sync"
	"github.com/alexuswingz/Clutched/pkg/logger"
)

// Presentation surfaces for the notification fallback chain, walked in
// order: in-app toast over socket.io, then web push, then the pipeline's
// terminal log provider.

// ToastProvider delivers to the user's socket room. The toast surface
// re-applies active-channel suppression itself: a notification for the
// channel the user is looking at counts as handled without rendering.
type ToastProvider struct {
	userID string
	active *ActiveChannelStore
}

func NewToastProvider(userID string, active *ActiveChannelStore) *ToastProvider {
	return &ToastProvider{userID: userID, active: active}
}

func (p *ToastProvider) TryDeliver(n sync.Notification) bool {
	if SocketServer == nil || !IsUserOnline(p.userID) {
		return false
	}

	if n.ChannelID != "" && p.active.Active(p.userID) == n.ChannelID {
		logger.Debug().Str("channelId", n.ChannelID).Msg("Toast suppressed for active channel")
		return true
	}

	SocketServer.BroadcastToRoom("/", p.userID, "toast", map[string]interface{}{
		"message":   n.Text,
		"chatId":    n.ChannelID,
		"messageId": n.MessageID,
	})
	return true
}

const fcmEndpoint = "https://fcm.googleapis.com/fcm/send"

var pushClient = &http.Client{Timeout: 5 * time.Second}

// PushProvider sends a web push through FCM for users who registered a
// push token. Any failure falls through to the next surface.
type PushProvider struct {
	userID string
}

func NewPushProvider(userID string) *PushProvider {
	return &PushProvider{userID: userID}
}

func (p *PushProvider) TryDeliver(n sync.Notification) bool {
	if config.AppConfig == nil || config.AppConfig.FCMServerKey == "" {
		return false
	}
	serverKey := config.AppConfig.FCMServerKey

	var user models.User
	if err := database.DB.Select("push_token").First(&user, "id = ?", p.userID).Error; err != nil || user.PushToken == "" {
		return false
	}

	payload, err := json.Marshal(map[string]interface{}{
		"to": user.PushToken,
		"notification": map[string]string{
			"title": "Clutched - New Message",
			"body":  n.Text,
		},
		"data": map[string]string{
			"chatId":    n.ChannelID,
			"messageId": n.MessageID,
		},
	})
	if err != nil {
		return false
	}

	req, err := http.NewRequest(http.MethodPost, fcmEndpoint, bytes.NewReader(payload))
	if err != nil {
		return false
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "key="+serverKey)

	resp, err := pushClient.Do(req)
	if err != nil {
		logger.Warn().Err(err).Str("userId", p.userID).Msg("Web push failed, falling through")
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode < 300
}

// SessionProviders builds the per-user chain for the sync registry.
func SessionProviders(active *ActiveChannelStore) func(userID string) []sync.Provider {
	return func(userID string) []sync.Provider {
		return []sync.Provider{
			NewToastProvider(userID, active),
			NewPushProvider(userID),
		}
	}
}
