package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"courseChat/internal/enums"
	"courseChat/internal/errs"
	"courseChat/internal/models"
	redisModels "courseChat/internal/models/redis"
	socketModels "courseChat/internal/models/socket"
	"courseChat/internal/msgs"
	"courseChat/internal/services"
	"courseChat/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
)

type SocketChatHandler struct {
	mu          sync.Mutex
	ctx         context.Context
	upgrader    websocket.Upgrader
	hub         *models.SocketHub
	chatService *services.ChatService
	jwtKey      []byte
}

func NewSocketChatHandler(redis *redis.Client, ctx context.Context, chatService *services.ChatService, jwtKey []byte) *SocketChatHandler {
	return &SocketChatHandler{
		ctx:         ctx,
		chatService: chatService,
		jwtKey:      jwtKey,
		hub: &models.SocketHub{
			Conversations: make(map[uint][]*models.SocketClient),
			Redis:         redis,
		},
	}
}

func (sch *SocketChatHandler) HandleSocketChatRoute(ctx *gin.Context) {
	jwtToken := ctx.Query("token")
	if jwtToken == "" {
		jwtToken = strings.TrimPrefix(ctx.GetHeader("Authorization"), "Bearer ")
	}
	if jwtToken == "" {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, models.Response{
			Success: false,
			Message: msgs.MsgYouMustLoginFirst,
			Errors:  []error{errs.ErrUnauthorized},
		})
		return
	}

	userInfo, err := utils.VerifyToken(jwtToken, sch.jwtKey)
	if err != nil || userInfo.ID == 0 {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  []error{errs.ErrUnauthorized},
		})
		return
	}

	conversationId, err := strconv.Atoi(ctx.Query("conversationId"))
	if err != nil || conversationId < 1 {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  []error{errs.ErrInvalidConversationId},
		})
		return
	}
	conversationIdUInt := uint(conversationId)

	// Membership and existence are checked together so the response does
	// not reveal whether the conversation exists at all.
	if !sch.chatService.CheckUserInConversation(userInfo.ID, conversationIdUInt) {
		ctx.AbortWithStatusJSON(http.StatusNotFound, models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  []error{errs.ErrConversationNotFound},
		})
		return
	}

	sch.HandleConnections(ctx, userInfo, conversationIdUInt)
}

func (sch *SocketChatHandler) StartSocket() {
	sch.InitializeSocketUpgrader()
	go sch.HandleRedisMessages()
}

func (sch *SocketChatHandler) InitializeSocketUpgrader() {
	sch.upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}
}

func (sch *SocketChatHandler) HandleConnections(ctx *gin.Context, userInfo *models.Claims, conversationId uint) {
	ws, err := sch.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade connection: %v", err)
		return
	}
	defer func(ws *websocket.Conn) {
		if err := ws.Close(); err != nil {
			log.Printf("Error closing connection: %v", err)
		}
	}(ws)

	ws.SetCloseHandler(func(code int, text string) error {
		sch.removeClientFromConversation(userInfo.ID, conversationId)
		return nil
	})

	sch.addClientToConversation(userInfo.ID, conversationId, ws)
	sch.handleIncomingEvents(ws, userInfo, conversationId)
}

func (sch *SocketChatHandler) addClientToConversation(userId uint, conversationId uint, ws *websocket.Conn) {
	sch.mu.Lock()
	defer sch.mu.Unlock()
	if _, ok := sch.hub.Conversations[conversationId]; !ok {
		sch.hub.Conversations[conversationId] = []*models.SocketClient{}
	}
	sch.hub.Conversations[conversationId] = append(sch.hub.Conversations[conversationId], &models.SocketClient{
		Conn:   ws,
		UserId: userId,
	})
}

func (sch *SocketChatHandler) removeClientFromConversation(userId uint, conversationId uint) {
	sch.mu.Lock()
	defer sch.mu.Unlock()
	clients := sch.hub.Conversations[conversationId]
	remaining := clients[:0]
	for _, client := range clients {
		if client.UserId != userId {
			remaining = append(remaining, client)
		}
	}
	sch.hub.Conversations[conversationId] = remaining
}

func (sch *SocketChatHandler) handleIncomingEvents(ws *websocket.Conn, userInfo *models.Claims, conversationId uint) {
	for {
		var event socketModels.SocketEvent
		if err := ws.ReadJSON(&event); err != nil {
			log.Printf("Error reading json: %v", err)
			sch.removeClientFromConversation(userInfo.ID, conversationId)
			break
		}

		event.ConversationID = conversationId

		switch event.Event {
		case enums.SOCKET_EVENT_NEW_MESSAGE:
			if err := sch.handleNewMessageEvent(event.Payload, userInfo, conversationId); err != nil {
				log.Printf("Error while handling new message event: %v", err)
			}
		case enums.SOCKET_EVENT_IS_TYPING:
			if err := sch.handleIsTypingEvent(event.Payload, conversationId); err != nil {
				log.Printf("Error while handling is typing event: %v", err)
			}
		default:
			log.Printf("Unknown event: %v", event.Event)
		}
	}
}

func (sch *SocketChatHandler) handleNewMessageEvent(payload json.RawMessage, userInfo *models.Claims, conversationId uint) error {
	var messageRequest models.MessageRequest
	if err := json.Unmarshal(payload, &messageRequest); err != nil {
		return errs.ErrInvalidRequest
	}

	message, err := sch.chatService.SendMessage(conversationId, userInfo.ID, messageRequest.Content)
	if err != nil {
		return err
	}

	return sch.publishEvent(redisModels.RedisPublishedMessage{
		Event:          enums.SOCKET_EVENT_NEW_MESSAGE,
		ConversationID: conversationId,
		Payload:        message,
	})
}

func (sch *SocketChatHandler) handleIsTypingEvent(payload json.RawMessage, conversationId uint) error {
	var isTypingPayload socketModels.IsTypingPayload
	if err := json.Unmarshal(payload, &isTypingPayload); err != nil {
		return errs.ErrInvalidRequest
	}

	return sch.publishEvent(redisModels.RedisPublishedMessage{
		Event:          enums.SOCKET_EVENT_IS_TYPING,
		ConversationID: conversationId,
		Payload:        isTypingPayload,
	})
}

func (sch *SocketChatHandler) publishEvent(event redisModels.RedisPublishedMessage) error {
	jsonEvent, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return sch.hub.Redis.Publish(sch.ctx, redisModels.REDIS_CHANNEL_CHAT, jsonEvent).Err()
}

func (sch *SocketChatHandler) HandleRedisMessages() {
	pubsub := sch.hub.Redis.Subscribe(sch.ctx, redisModels.REDIS_CHANNEL_CHAT)
	if _, err := pubsub.Receive(sch.ctx); err != nil {
		log.Fatalf("Could not subscribe to channel: %v", err)
	}

	for msg := range pubsub.Channel() {
		var event redisModels.RedisPublishedMessage
		if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
			log.Printf("Error unmarshalling event: %v", err)
			continue
		}
		sch.fanOutToConversation(event)
	}
}

func (sch *SocketChatHandler) fanOutToConversation(event redisModels.RedisPublishedMessage) {
	sch.mu.Lock()
	defer sch.mu.Unlock()

	for _, client := range sch.hub.Conversations[event.ConversationID] {
		if err := client.Conn.WriteJSON(event); err != nil {
			log.Printf("Error writing json: %v", err)
			client.Conn.Close()
		}
	}
}
