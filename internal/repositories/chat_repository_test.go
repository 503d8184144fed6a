package repositories

import (
	"fmt"
	"testing"
	"time"

	"courseChat/internal/enums"
	"courseChat/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupRepoTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Conversation{}, &models.Message{}))
	return db
}

func seedChatFixture(t *testing.T, db *gorm.DB) (*models.User, *models.User, *models.Conversation) {
	t.Helper()
	a := &models.User{FullName: "Alice Wong", Email: "alice@example.com", PasswordHash: "x", Role: enums.ROLE_STUDENT}
	b := &models.User{FullName: "Sarah Johnson", Email: "sarah@example.com", PasswordHash: "x", Role: enums.ROLE_INSTRUCTOR}
	require.NoError(t, db.Create(a).Error)
	require.NoError(t, db.Create(b).Error)

	conversation := &models.Conversation{Subject: "Hair styling", ParticipantAID: a.ID, ParticipantBID: b.ID}
	require.NoError(t, db.Create(conversation).Error)
	return a, b, conversation
}

func TestMarkConversationReadWithNothingUnread(t *testing.T) {
	db := setupRepoTestDB(t)
	_, b, conversation := seedChatFixture(t, db)

	repo := NewChatRepository(db)
	// No messages at all; zero affected rows must not surface as an error.
	assert.NoError(t, repo.MarkConversationRead(conversation.ID, b.ID, time.Now()))
}

func TestMarkConversationReadIsMonotonic(t *testing.T) {
	db := setupRepoTestDB(t)
	a, b, conversation := seedChatFixture(t, db)

	repo := NewChatRepository(db)
	message := &models.Message{ConversationID: conversation.ID, SenderID: a.ID, Content: "hello"}
	require.NoError(t, repo.InsertMessage(message))

	firstStamp := time.Now().Add(-time.Minute)
	require.NoError(t, repo.MarkConversationRead(conversation.ID, b.ID, firstStamp))

	var afterFirst models.Message
	require.NoError(t, db.First(&afterFirst, message.ID).Error)
	require.NotNil(t, afterFirst.ReadAt)

	require.NoError(t, repo.MarkConversationRead(conversation.ID, b.ID, time.Now()))

	var afterSecond models.Message
	require.NoError(t, db.First(&afterSecond, message.ID).Error)
	require.NotNil(t, afterSecond.ReadAt)
	assert.True(t, afterFirst.ReadAt.Equal(*afterSecond.ReadAt))
}

func TestMarkConversationReadSkipsViewerOwnMessages(t *testing.T) {
	db := setupRepoTestDB(t)
	a, b, conversation := seedChatFixture(t, db)

	repo := NewChatRepository(db)
	mine := &models.Message{ConversationID: conversation.ID, SenderID: a.ID, Content: "from me"}
	theirs := &models.Message{ConversationID: conversation.ID, SenderID: b.ID, Content: "from them"}
	require.NoError(t, repo.InsertMessage(mine))
	require.NoError(t, repo.InsertMessage(theirs))

	require.NoError(t, repo.MarkConversationRead(conversation.ID, a.ID, time.Now()))

	var reloadedMine, reloadedTheirs models.Message
	require.NoError(t, db.First(&reloadedMine, mine.ID).Error)
	require.NoError(t, db.First(&reloadedTheirs, theirs.ID).Error)
	assert.Nil(t, reloadedMine.ReadAt)
	assert.NotNil(t, reloadedTheirs.ReadAt)
}

func TestListMessagesPreloadsSenderAndKeepsInsertionOrder(t *testing.T) {
	db := setupRepoTestDB(t)
	a, b, conversation := seedChatFixture(t, db)

	createdAt := time.Now().Add(-time.Hour)
	for i, sender := range []uint{a.ID, b.ID, a.ID} {
		message := &models.Message{
			ConversationID: conversation.ID,
			SenderID:       sender,
			Content:        fmt.Sprintf("message %d", i),
		}
		message.CreatedAt = createdAt
		require.NoError(t, db.Create(message).Error)
	}

	repo := NewChatRepository(db)
	messages, err := repo.ListMessages(conversation.ID)
	require.NoError(t, err)
	require.Len(t, messages, 3)
	for i, message := range messages {
		assert.Equal(t, fmt.Sprintf("message %d", i), message.Content)
		assert.NotEmpty(t, message.Sender.FullName)
	}
}

func TestInsertMessageBumpsConversationAndLoadsSender(t *testing.T) {
	db := setupRepoTestDB(t)
	a, _, conversation := seedChatFixture(t, db)

	before := conversation.UpdatedAt
	time.Sleep(20 * time.Millisecond)

	repo := NewChatRepository(db)
	message := &models.Message{ConversationID: conversation.ID, SenderID: a.ID, Content: "hello"}
	require.NoError(t, repo.InsertMessage(message))
	assert.Equal(t, "Alice Wong", message.Sender.FullName)

	var reloaded models.Conversation
	require.NoError(t, db.First(&reloaded, conversation.ID).Error)
	assert.True(t, reloaded.UpdatedAt.After(before))
}

func TestGetConversationUnreadCountIgnoresOwnAndRead(t *testing.T) {
	db := setupRepoTestDB(t)
	a, b, conversation := seedChatFixture(t, db)

	repo := NewChatRepository(db)
	require.NoError(t, repo.InsertMessage(&models.Message{ConversationID: conversation.ID, SenderID: b.ID, Content: "one"}))
	require.NoError(t, repo.InsertMessage(&models.Message{ConversationID: conversation.ID, SenderID: b.ID, Content: "two"}))
	require.NoError(t, repo.InsertMessage(&models.Message{ConversationID: conversation.ID, SenderID: a.ID, Content: "mine"}))

	unread, err := repo.GetConversationUnreadCount(conversation.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), unread)

	require.NoError(t, repo.MarkConversationRead(conversation.ID, a.ID, time.Now()))

	unread, err = repo.GetConversationUnreadCount(conversation.ID, a.ID)
	require.NoError(t, err)
	assert.Zero(t, unread)
}
