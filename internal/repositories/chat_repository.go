package repositories

import (
	"time"

	"courseChat/internal/models"
	"courseChat/internal/utils"

	"gorm.io/gorm"
)

// ChatStore is the persistence contract for conversations and messages.
// Implementations are injected at startup; nothing in the chat path touches
// a process-wide handle.
type ChatStore interface {
	CreateConversation(conversation *models.Conversation) error
	GetConversation(conversationID uint) (*models.Conversation, error)
	GetUserConversations(userID uint, page, size int) ([]models.Conversation, int64, error)
	GetConversationLastMessage(conversationID uint) (*models.Message, error)
	GetConversationUnreadCount(conversationID, userID uint) (int64, error)
	ListMessages(conversationID uint) ([]models.Message, error)
	InsertMessage(message *models.Message) error
	MarkConversationRead(conversationID, viewerID uint, readAt time.Time) error
}

type ChatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{
		db: db,
	}
}

func (chr *ChatRepository) CreateConversation(conversation *models.Conversation) error {
	if err := chr.db.Create(conversation).Error; err != nil {
		return err
	}
	return chr.db.
		Preload("ParticipantA").
		Preload("ParticipantB").
		First(conversation, conversation.ID).Error
}

func (chr *ChatRepository) GetConversation(conversationID uint) (*models.Conversation, error) {
	var conversation models.Conversation
	if err := chr.db.First(&conversation, conversationID).Error; err != nil {
		return nil, err
	}
	return &conversation, nil
}

func (chr *ChatRepository) GetUserConversations(userID uint, page, size int) ([]models.Conversation, int64, error) {
	var conversations []models.Conversation
	var total int64

	transactionErr := chr.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Scopes(utils.Paginate(page, size)).
			Preload("ParticipantA").
			Preload("ParticipantB").
			Where("participant_a_id = ? OR participant_b_id = ?", userID, userID).
			Order("updated_at DESC").
			Find(&conversations).Error; err != nil {
			return err
		}

		if err := tx.
			Model(&models.Conversation{}).
			Where("participant_a_id = ? OR participant_b_id = ?", userID, userID).
			Count(&total).Error; err != nil {
			return err
		}

		return nil
	})
	if transactionErr != nil {
		return nil, 0, transactionErr
	}

	return conversations, total, nil
}

func (chr *ChatRepository) GetConversationLastMessage(conversationID uint) (*models.Message, error) {
	var message models.Message
	if err := chr.db.
		Where("conversation_id = ?", conversationID).
		Last(&message).Error; err != nil {
		return nil, err
	}
	return &message, nil
}

func (chr *ChatRepository) GetConversationUnreadCount(conversationID, userID uint) (int64, error) {
	var count int64
	result := chr.db.
		Model(&models.Message{}).
		Where("conversation_id = ? AND sender_id <> ? AND read_at IS NULL", conversationID, userID).
		Count(&count)
	if err := result.Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ListMessages returns the full conversation history, oldest first, ties on
// created_at broken by primary key so insertion order wins.
func (chr *ChatRepository) ListMessages(conversationID uint) ([]models.Message, error) {
	var messages []models.Message
	if err := chr.db.
		Preload("Sender").
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

// InsertMessage appends the message and bumps the parent conversation's
// updated_at in the same transaction, so recency ordering never observes
// one without the other.
func (chr *ChatRepository) InsertMessage(message *models.Message) error {
	transactionErr := chr.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(message).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Conversation{}).
			Where("id = ?", message.ConversationID).
			Update("updated_at", message.CreatedAt).Error; err != nil {
			return err
		}
		return nil
	})
	if transactionErr != nil {
		return transactionErr
	}
	return chr.db.First(&message.Sender, message.SenderID).Error
}

// MarkConversationRead stamps read_at on every message the viewer has not
// seen yet. The guard on read_at IS NULL keeps the transition monotonic:
// once set it is never re-stamped, and concurrent calls converge to the
// same state. Zero affected rows is a normal outcome, not an error.
func (chr *ChatRepository) MarkConversationRead(conversationID, viewerID uint, readAt time.Time) error {
	return chr.db.Model(&models.Message{}).
		Where("conversation_id = ? AND sender_id != ? AND read_at IS NULL", conversationID, viewerID).
		Update("read_at", readAt).Error
}
