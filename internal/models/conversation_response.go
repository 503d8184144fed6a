package models

import "time"

type ConversationResponse struct {
	ID           uint            `json:"id"`
	Subject      string          `json:"subject"`
	Participants []*UserResponse `json:"participants"`
	LastMessage  *Message        `json:"last_message"`
	Unread       int64           `json:"unread"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
