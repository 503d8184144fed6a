package models

import "time"

type MessageResponse struct {
	ID         uint       `json:"id"`
	SenderID   uint       `json:"sender_id"`
	SenderName string     `json:"sender_name"`
	Content    string     `json:"content"`
	CreatedAt  time.Time  `json:"created_at"`
	ReadAt     *time.Time `json:"read_at"`
	IsRead     bool       `json:"is_read"`
	TimeAgo    string     `json:"time_ago"`
	IsFromMe   bool       `json:"is_from_me"`
}
