package models

type CreateConversationRequestBody struct {
	Subject       string `json:"subject"`
	ParticipantID uint   `json:"participant_id"`
}
