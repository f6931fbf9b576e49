package realtime

import (
	"fmt"
	"net/http"
	stdsync "sync"

	"github.com/alexuswingz/Clutched/internal/sync"
	"github.com/alexuswingz/Clutched/pkg/logger"
	"github.com/gin-gonic/gin"
	socketio "github.com/googollee/go-socket.io"
	"github.com/googollee/go-socket.io/engineio"
	"github.com/googollee/go-socket.io/engineio/transport"
	"github.com/googollee/go-socket.io/engineio/transport/polling"
	"github.com/googollee/go-socket.io/engineio/transport/websocket"
)

var SocketServer *socketio.Server

// Presence tracking
var (
	onlineUsers   = make(map[string]string) // userId -> socketId
	onlineUsersMu stdsync.RWMutex
)

// GetOnlineUsers returns the list of online user IDs.
func GetOnlineUsers() []string {
	onlineUsersMu.RLock()
	defer onlineUsersMu.RUnlock()

	users := make([]string, 0, len(onlineUsers))
	for userId := range onlineUsers {
		users = append(users, userId)
	}
	return users
}

// IsUserOnline checks if a user has a live socket.
func IsUserOnline(userId string) bool {
	onlineUsersMu.RLock()
	defer onlineUsersMu.RUnlock()
	_, exists := onlineUsers[userId]
	return exists
}

// BroadcastPresenceUpdate tells all clients a user went on/offline.
func BroadcastPresenceUpdate(userId string, isOnline bool) {
	if SocketServer != nil {
		SocketServer.BroadcastToRoom("/", "presence", "presence_update", map[string]interface{}{
			"userId":   userId,
			"isOnline": isOnline,
		})
	}
}

// BroadcastToChannel emits an event to everyone who joined a chat room.
func BroadcastToChannel(channelID, event string, data interface{}) {
	if SocketServer != nil {
		SocketServer.BroadcastToRoom("/", channelID, event, data)
	}
}

// SendToUser emits an event to a user's personal room.
func SendToUser(userId, event string, data interface{}) {
	if SocketServer != nil {
		SocketServer.BroadcastToRoom("/", userId, event, data)
	}
}

// InitSocketServer wires the socket.io server to the sync registry: a
// connection starts the user's message sync session, a disconnect stops it.
// There is no authentication; the client identifies itself by profile ID
// (identity is a locally cached profile object).
func InitSocketServer(registry *sync.Registry, active *ActiveChannelStore) *socketio.Server {
	server := socketio.NewServer(&engineio.Options{
		Transports: []transport.Transport{
			&websocket.Transport{
				CheckOrigin: func(r *http.Request) bool { return true },
			},
			&polling.Transport{
				CheckOrigin: func(r *http.Request) bool { return true },
			},
		},
	})

	server.OnConnect("/", func(s socketio.Conn) error {
		s.SetContext("")
		u := s.URL()
		userId := u.Query().Get("userId")
		if userId == "" {
			logger.Warn().Str("socket", s.ID()).Msg("Socket connection rejected: no userId")
			return fmt.Errorf("userId required")
		}

		s.SetContext(userId)

		onlineUsersMu.Lock()
		onlineUsers[userId] = s.ID()
		onlineUsersMu.Unlock()

		// Personal room for toasts and message events, shared presence room
		s.Join(userId)
		s.Join("presence")

		BroadcastPresenceUpdate(userId, true)
		s.Emit("online_users", GetOnlineUsers())

		registry.Start(userId)
		logger.Info().Str("socket", s.ID()).Str("userId", userId).Msg("Socket connected, sync started")
		return nil
	})

	server.OnEvent("/", "join_chat", func(s socketio.Conn, chatId string) {
		s.Join(chatId)
	})

	// The client reports which channel it is viewing. Opening a channel
	// clears its dispatched notification keys so future messages there can
	// notify again.
	server.OnEvent("/", "active_channel", func(s socketio.Conn, data map[string]interface{}) {
		userId, _ := s.Context().(string)
		if userId == "" {
			return
		}
		channelId, _ := data["channelId"].(string)

		active.Set(userId, channelId)
		if channelId != "" {
			registry.ClearChannel(userId, channelId)
		}
	})

	server.OnEvent("/", "get_online_users", func(s socketio.Conn, msg string) {
		s.Emit("online_users", GetOnlineUsers())
	})

	server.OnDisconnect("/", func(s socketio.Conn, reason string) {
		onlineUsersMu.Lock()
		var disconnectedUserId string
		for userId, socketId := range onlineUsers {
			if socketId == s.ID() {
				disconnectedUserId = userId
				delete(onlineUsers, userId)
				break
			}
		}
		onlineUsersMu.Unlock()

		if disconnectedUserId != "" {
			BroadcastPresenceUpdate(disconnectedUserId, false)
			registry.Stop(disconnectedUserId)
			active.Set(disconnectedUserId, "")
			logger.Info().Str("userId", disconnectedUserId).Str("reason", reason).Msg("Socket disconnected, sync stopped")
		}
	})

	server.OnError("/", func(s socketio.Conn, e error) {
		logger.Error().Err(e).Msg("Socket error")
	})

	go server.Serve()
	SocketServer = server
	return server
}

// SocketHandler wraps the socket.io server for gin.
func SocketHandler(server *socketio.Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		server.ServeHTTP(c.Writer, c.Request)
	}
}
