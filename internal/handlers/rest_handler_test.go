package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"courseChat/internal/enums"
	"courseChat/internal/handlers"
	"courseChat/internal/models"
	"courseChat/internal/repositories"
	"courseChat/internal/services"
	"courseChat/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testJwtKey = []byte("handler-test-signing-key")

type testEnv struct {
	router *gin.Engine
	db     *gorm.DB
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Conversation{}, &models.Message{}))

	authService := services.NewAuthenticationService(repositories.NewAuthenticationRepository(db), testJwtKey, time.Hour)
	chatService := services.NewChatService(repositories.NewChatRepository(db))
	restHandler := handlers.NewRestHandler(context.Background(), nil, testJwtKey, authService, chatService, nil)

	router := gin.New()
	authorized := router.Group("/", restHandler.MustAuthenticateMiddleware())

	admin := authorized.Group("/admin", restHandler.RequireRolesMiddleware(enums.ROLE_ADMIN))
	admin.GET("/instructors", restHandler.GetInstructors)

	messages := router.Group("/conversations", restHandler.MustAuthenticateMessagesMiddleware(
		enums.ROLE_STUDENT, enums.ROLE_INSTRUCTOR, enums.ROLE_ADMIN,
	))
	messages.GET("/:id/messages", restHandler.GetConversationMessages)
	messages.POST("/messages", restHandler.SendMessage)

	return &testEnv{router: router, db: db}
}

func (env *testEnv) seedUser(t *testing.T, name, email string, role enums.Role) *models.User {
	t.Helper()
	user := &models.User{FullName: name, Email: email, PasswordHash: "x", Role: role}
	require.NoError(t, env.db.Create(user).Error)
	return user
}

func (env *testEnv) seedConversation(t *testing.T, a, b uint) *models.Conversation {
	t.Helper()
	conversation := &models.Conversation{Subject: "Hair styling", ParticipantAID: a, ParticipantBID: b}
	require.NoError(t, env.db.Create(conversation).Error)
	return conversation
}

func tokenFor(t *testing.T, user *models.User) string {
	t.Helper()
	token, err := utils.CreateJwtToken(user.ID, user.Email, user.FullName, user.Role, testJwtKey, time.Now().Add(time.Hour))
	require.NoError(t, err)
	return token
}

func (env *testEnv) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	env.router.ServeHTTP(recorder, req)
	return recorder
}

// decodeError unpacks the flat failure body the message endpoints answer with.
func decodeError(t *testing.T, recorder *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return body
}

func TestMessagesRequireAuthentication(t *testing.T) {
	env := setupEnv(t)

	recorder := env.do(http.MethodGet, "/conversations/1/messages", "", nil)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Equal(t, "unauthorized", decodeError(t, recorder)["error"])
}

func TestMessagesRejectMalformedAuthorizationHeader(t *testing.T) {
	env := setupEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/conversations/1/messages", nil)
	req.Header.Set("Authorization", "Token abc")
	recorder := httptest.NewRecorder()
	env.router.ServeHTTP(recorder, req)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Contains(t, decodeError(t, recorder), "error")
}

func TestMessagesRejectExpiredToken(t *testing.T) {
	env := setupEnv(t)
	student := env.seedUser(t, "Alice Wong", "alice@example.com", enums.ROLE_STUDENT)

	expired, err := utils.CreateJwtToken(student.ID, student.Email, student.FullName, student.Role, testJwtKey, time.Now().Add(-time.Minute))
	require.NoError(t, err)

	recorder := env.do(http.MethodGet, "/conversations/1/messages", expired, nil)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Equal(t, "unauthorized", decodeError(t, recorder)["error"])
}

func TestMessagesRejectUnknownRoleWithFlatError(t *testing.T) {
	env := setupEnv(t)
	student := env.seedUser(t, "Alice Wong", "alice@example.com", enums.ROLE_STUDENT)

	forged, err := utils.CreateJwtToken(student.ID, student.Email, student.FullName, enums.Role("superuser"), testJwtKey, time.Now().Add(time.Hour))
	require.NoError(t, err)

	recorder := env.do(http.MethodGet, "/conversations/1/messages", forged, nil)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Equal(t, "unauthorized", decodeError(t, recorder)["error"])
}

func TestMessagesHideForeignConversations(t *testing.T) {
	env := setupEnv(t)
	student := env.seedUser(t, "Alice Wong", "alice@example.com", enums.ROLE_STUDENT)
	instructor := env.seedUser(t, "Sarah Johnson", "sarah@example.com", enums.ROLE_INSTRUCTOR)
	outsider := env.seedUser(t, "Eve Mallory", "eve@example.com", enums.ROLE_STUDENT)
	conversation := env.seedConversation(t, student.ID, instructor.ID)

	recorder := env.do(http.MethodGet, fmt.Sprintf("/conversations/%d/messages", conversation.ID), tokenFor(t, outsider), nil)
	assert.Equal(t, http.StatusNotFound, recorder.Code)

	var errorBody map[string]string
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &errorBody))
	assert.Equal(t, "conversation not found or access denied", errorBody["error"])
}

func TestMessagesReturnNotFoundForUnparsableId(t *testing.T) {
	env := setupEnv(t)
	student := env.seedUser(t, "Alice Wong", "alice@example.com", enums.ROLE_STUDENT)

	recorder := env.do(http.MethodGet, "/conversations/abc/messages", tokenFor(t, student), nil)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestSendMessageRejectsBlankContent(t *testing.T) {
	env := setupEnv(t)
	student := env.seedUser(t, "Alice Wong", "alice@example.com", enums.ROLE_STUDENT)
	instructor := env.seedUser(t, "Sarah Johnson", "sarah@example.com", enums.ROLE_INSTRUCTOR)
	conversation := env.seedConversation(t, student.ID, instructor.ID)

	recorder := env.do(http.MethodPost, "/conversations/messages", tokenFor(t, student), models.MessageRequest{
		ConversationID: conversation.ID,
		Content:        "   ",
	})
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	var count int64
	require.NoError(t, env.db.Model(&models.Message{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSendThenPeerFetchMarksRead(t *testing.T) {
	env := setupEnv(t)
	student := env.seedUser(t, "Alice Wong", "alice@example.com", enums.ROLE_STUDENT)
	instructor := env.seedUser(t, "Sarah Johnson", "sarah@example.com", enums.ROLE_INSTRUCTOR)
	conversation := env.seedConversation(t, student.ID, instructor.ID)

	sendRecorder := env.do(http.MethodPost, "/conversations/messages", tokenFor(t, student), models.MessageRequest{
		ConversationID: conversation.ID,
		Content:        "When is the next review session?",
	})
	require.Equal(t, http.StatusOK, sendRecorder.Code)

	var sent models.MessageResponse
	require.NoError(t, json.Unmarshal(sendRecorder.Body.Bytes(), &sent))
	assert.True(t, sent.IsFromMe)
	assert.False(t, sent.IsRead)
	assert.Equal(t, "Just now", sent.TimeAgo)

	fetchRecorder := env.do(http.MethodGet, fmt.Sprintf("/conversations/%d/messages", conversation.ID), tokenFor(t, instructor), nil)
	require.Equal(t, http.StatusOK, fetchRecorder.Code)

	var messages []models.MessageResponse
	require.NoError(t, json.Unmarshal(fetchRecorder.Body.Bytes(), &messages))
	require.Len(t, messages, 1)
	assert.Equal(t, "When is the next review session?", messages[0].Content)
	assert.Equal(t, "Alice Wong", messages[0].SenderName)
	assert.False(t, messages[0].IsFromMe)
	assert.True(t, messages[0].IsRead)
	assert.NotNil(t, messages[0].ReadAt)
}

func TestAdminRoutesEnforceRole(t *testing.T) {
	env := setupEnv(t)
	student := env.seedUser(t, "Alice Wong", "alice@example.com", enums.ROLE_STUDENT)
	admin := env.seedUser(t, "Olga Petrov", "olga@example.com", enums.ROLE_ADMIN)
	env.seedUser(t, "Sarah Johnson", "sarah@example.com", enums.ROLE_INSTRUCTOR)

	denied := env.do(http.MethodGet, "/admin/instructors", tokenFor(t, student), nil)
	assert.Equal(t, http.StatusUnauthorized, denied.Code)

	allowed := env.do(http.MethodGet, "/admin/instructors", tokenFor(t, admin), nil)
	require.Equal(t, http.StatusOK, allowed.Code)

	var envelope models.Response
	require.NoError(t, json.Unmarshal(allowed.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)
}
