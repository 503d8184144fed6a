package models

import (
	"time"

	"gorm.io/gorm"
)

type Message struct {
	gorm.Model
	ConversationID uint         `json:"conversation_id"`
	Conversation   Conversation `json:"-"`
	SenderID       uint         `json:"sender_id"`
	Sender         User         `json:"-"`
	Content        string       `gorm:"not null" json:"content"`
	ReadAt         *time.Time   `json:"read_at"`
}

// ToMessageResponse shapes the message for the given viewer. Deterministic
// for a fixed (message, viewerID, now); the sender name comes from the
// preloaded Sender association, looked up once per row.
func (message *Message) ToMessageResponse(viewerID uint, now time.Time) MessageResponse {
	return MessageResponse{
		ID:         message.ID,
		SenderID:   message.SenderID,
		SenderName: message.Sender.FullName,
		Content:    message.Content,
		CreatedAt:  message.CreatedAt,
		ReadAt:     message.ReadAt,
		IsRead:     message.ReadAt != nil,
		TimeAgo:    FormatTimeAgo(message.CreatedAt, now),
		IsFromMe:   message.SenderID == viewerID,
	}
}
