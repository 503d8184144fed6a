package models

import (
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
)

type SocketClient struct {
	Conn   *websocket.Conn
	UserId uint
}

// SocketHub tracks live connections per conversation. Access is serialized
// by the owning handler's mutex.
type SocketHub struct {
	Conversations map[uint][]*SocketClient
	Redis         *redis.Client
}
