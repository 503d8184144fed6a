package services

import (
	"errors"
	"strings"
	"time"

	"courseChat/internal/errs"
	"courseChat/internal/models"
	"courseChat/internal/repositories"

	"gorm.io/gorm"
)

type ChatService struct {
	chatRepo repositories.ChatStore
}

func NewChatService(chatRepo repositories.ChatStore) *ChatService {
	return &ChatService{
		chatRepo: chatRepo,
	}
}

// authorizeParticipant resolves the conversation and checks the viewer is
// one of its two participants. A missing conversation and a conversation
// the viewer has no access to are indistinguishable on purpose.
func (cs *ChatService) authorizeParticipant(conversationID, viewerID uint) (*models.Conversation, error) {
	conversation, err := cs.chatRepo.GetConversation(conversationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrConversationNotFound
		}
		return nil, err
	}
	if !conversation.HasParticipant(viewerID) {
		return nil, errs.ErrConversationNotFound
	}
	return conversation, nil
}

func (cs *ChatService) CreateConversation(creatorID uint, body *models.CreateConversationRequestBody) (*models.Conversation, error) {
	if body.ParticipantID == 0 {
		return nil, errs.ErrInvalidParams
	}
	if body.ParticipantID == creatorID {
		return nil, errs.ErrSameParticipants
	}

	conversation := &models.Conversation{
		Subject:        strings.TrimSpace(body.Subject),
		ParticipantAID: creatorID,
		ParticipantBID: body.ParticipantID,
	}
	if err := cs.chatRepo.CreateConversation(conversation); err != nil {
		return nil, err
	}
	return conversation, nil
}

func (cs *ChatService) GetUserConversations(userID uint, page, size int) (*models.ConversationListResponse, error) {
	conversations, total, err := cs.chatRepo.GetUserConversations(userID, page, size)
	if err != nil {
		return nil, err
	}

	conversationResponses := []models.ConversationResponse{}
	for _, conversation := range conversations {
		lastMessage, err := cs.chatRepo.GetConversationLastMessage(conversation.ID)
		if err != nil {
			// An empty thread simply has no last message; anything else is
			// a real store failure.
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, err
			}
			lastMessage = nil
		}
		unread, err := cs.chatRepo.GetConversationUnreadCount(conversation.ID, userID)
		if err != nil {
			return nil, err
		}
		conversationResponses = append(conversationResponses, conversation.ToConversationResponse(lastMessage, unread))
	}

	return &models.ConversationListResponse{
		Conversations: conversationResponses,
		Page:          page,
		Size:          size,
		Total:         total,
	}, nil
}

// GetConversationMessages returns the full, viewer-shaped history of a
// conversation. Fetching is the action that transitions the viewer's
// unread messages to read: after listing, every message from the peer
// still lacking read_at is stamped, and the response reflects the
// post-update state. A failure between listing and stamping leaves
// messages unread, which self-heals on the next view.
func (cs *ChatService) GetConversationMessages(conversationID, viewerID uint) ([]models.MessageResponse, error) {
	if _, err := cs.authorizeParticipant(conversationID, viewerID); err != nil {
		return nil, err
	}

	messages, err := cs.chatRepo.ListMessages(conversationID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if err := cs.chatRepo.MarkConversationRead(conversationID, viewerID, now); err != nil {
		return nil, err
	}

	messageResponses := make([]models.MessageResponse, 0, len(messages))
	for i := range messages {
		if messages[i].SenderID != viewerID && messages[i].ReadAt == nil {
			readAt := now
			messages[i].ReadAt = &readAt
		}
		messageResponses = append(messageResponses, messages[i].ToMessageResponse(viewerID, now))
	}

	return messageResponses, nil
}

func (cs *ChatService) SendMessage(conversationID, senderID uint, content string) (*models.MessageResponse, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errs.ErrEmptyMessageContent
	}

	if _, err := cs.authorizeParticipant(conversationID, senderID); err != nil {
		return nil, err
	}

	message := &models.Message{
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        content,
	}
	if err := cs.chatRepo.InsertMessage(message); err != nil {
		return nil, err
	}

	response := message.ToMessageResponse(senderID, time.Now())
	return &response, nil
}

func (cs *ChatService) CheckUserInConversation(userID, conversationID uint) bool {
	_, err := cs.authorizeParticipant(conversationID, userID)
	return err == nil
}
