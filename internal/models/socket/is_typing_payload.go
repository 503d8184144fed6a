package models

type IsTypingPayload struct {
	UserID   uint `json:"user_id"`
	IsTyping bool `json:"is_typing"`
}
