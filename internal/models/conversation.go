package models

import (
	"gorm.io/gorm"
)

// Conversation is a two-party thread. The participant pair is unordered
// and duplicate pairs are allowed; UpdatedAt is bumped whenever a message
// is appended so conversation lists sort by recency.
type Conversation struct {
	gorm.Model
	Subject        string    `gorm:"not null" json:"subject"`
	ParticipantAID uint      `gorm:"not null" json:"participant_a_id"`
	ParticipantBID uint      `gorm:"not null" json:"participant_b_id"`
	ParticipantA   User      `gorm:"foreignKey:ParticipantAID" json:"-"`
	ParticipantB   User      `gorm:"foreignKey:ParticipantBID" json:"-"`
	Messages       []Message `json:"-"`
}

func (conversation *Conversation) HasParticipant(userID uint) bool {
	return conversation.ParticipantAID == userID || conversation.ParticipantBID == userID
}

func (conversation *Conversation) ToConversationResponse(lastMessage *Message, unread int64) ConversationResponse {
	return ConversationResponse{
		ID:      conversation.ID,
		Subject: conversation.Subject,
		Participants: []*UserResponse{
			conversation.ParticipantA.ToUserResponse(),
			conversation.ParticipantB.ToUserResponse(),
		},
		LastMessage: lastMessage,
		Unread:      unread,
		UpdatedAt:   conversation.UpdatedAt,
	}
}
