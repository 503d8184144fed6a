package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strconv"

	"courseChat/internal/enums"
	"courseChat/internal/errs"
	"courseChat/internal/models"
	redisModels "courseChat/internal/models/redis"
	"courseChat/internal/msgs"
	"courseChat/internal/services"
	"courseChat/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type RestHandler struct {
	ctx                context.Context
	redis              *redis.Client
	jwtKey             []byte
	authService        *services.AuthenticationService
	chatService        *services.ChatService
	fileManagerService *services.FileManagerService
}

func NewRestHandler(
	ctx context.Context,
	redis *redis.Client,
	jwtKey []byte,
	authService *services.AuthenticationService,
	chatService *services.ChatService,
	fileManagerService *services.FileManagerService,
) *RestHandler {
	return &RestHandler{
		ctx:                ctx,
		redis:              redis,
		jwtKey:             jwtKey,
		authService:        authService,
		chatService:        chatService,
		fileManagerService: fileManagerService,
	}
}

func (rh *RestHandler) Health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Login godoc
// @Summary      Login user to account
// @Accept       json
// @Produce      json
// @Success      200  {object}  models.Response
// @Failure      400  {object}  models.Response
// @Router       /login [post]
func (rh *RestHandler) Login(ctx *gin.Context) {
	var loginData models.LoginRequestBody
	if err := ctx.BindJSON(&loginData); err != nil {
		log.Println("Error login data json binding:", err)
		ctx.AbortWithStatusJSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  []error{errs.ErrInvalidRequestBody},
		})
		return
	}

	loginResponse, err := rh.authService.Login(&loginData)
	if err != nil {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  []error{err},
		})
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgOperationSuccessful,
		Data:    loginResponse,
	})
}

func (rh *RestHandler) Register(ctx *gin.Context) {
	var user models.User
	if err := ctx.BindJSON(&user); err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  []error{errs.ErrInvalidRequestBody},
		})
		return
	}

	_, registerErrs := rh.authService.Register(&user)
	if len(registerErrs) > 0 {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  registerErrs,
		})
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgUserCreatedSuccessfully,
	})
}

func (rh *RestHandler) Me(ctx *gin.Context) {
	userID := utils.GetUserIdFromContext(ctx)
	if userID < 1 {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, models.Response{
			Success: false,
			Message: msgs.MsgYouMustLoginFirst,
			Errors:  []error{errs.ErrUnauthorized},
		})
		return
	}

	profile, err := rh.authService.GetProfile(userID)
	if err != nil {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  []error{err},
		})
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgOperationSuccessful,
		Data:    profile,
	})
}

func (rh *RestHandler) CreateConversation(ctx *gin.Context) {
	var body models.CreateConversationRequestBody
	if err := ctx.BindJSON(&body); err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  []error{errs.ErrInvalidRequestBody},
		})
		return
	}

	creatorID := utils.GetUserIdFromContext(ctx)
	conversation, err := rh.chatService.CreateConversation(creatorID, &body)
	if err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  []error{err},
		})
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgOperationSuccessful,
		Data:    conversation,
	})
}

func (rh *RestHandler) GetUserConversations(ctx *gin.Context) {
	page, size := paginationParams(ctx)
	userID := utils.GetUserIdFromContext(ctx)

	conversationsResponse, err := rh.chatService.GetUserConversations(userID, page, size)
	if err != nil {
		ctx.AbortWithStatusJSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  []error{err},
		})
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgOperationSuccessful,
		Data:    conversationsResponse,
	})
}

// GetConversationMessages godoc
// @Summary      List a conversation's messages for the authenticated viewer
// @Description  Viewing is what marks the viewer's unread messages as read.
// @Produce      json
// @Param        id   path      int  true  "Conversation ID"
// @Success      200  {array}   models.MessageResponse
// @Failure      401  {object}  models.ErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Failure      500  {object}  models.ErrorResponse
// @Router       /conversations/{id}/messages [get]
func (rh *RestHandler) GetConversationMessages(ctx *gin.Context) {
	conversationID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil || conversationID < 1 {
		ctx.AbortWithStatusJSON(http.StatusNotFound, models.ErrorResponse{
			Error: errs.ErrConversationNotFound.Error(),
		})
		return
	}

	viewerID := utils.GetUserIdFromContext(ctx)
	messages, err := rh.chatService.GetConversationMessages(uint(conversationID), viewerID)
	if err != nil {
		if errors.Is(err, errs.ErrConversationNotFound) {
			ctx.AbortWithStatusJSON(http.StatusNotFound, models.ErrorResponse{
				Error: err.Error(),
			})
			return
		}
		ctx.AbortWithStatusJSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to fetch messages",
			Details: err.Error(),
		})
		return
	}

	ctx.JSON(http.StatusOK, messages)
}

// SendMessage godoc
// @Summary      Append a message to a conversation
// @Accept       json
// @Produce      json
// @Success      200  {object}  models.MessageResponse
// @Failure      400  {object}  models.ErrorResponse
// @Failure      404  {object}  models.ErrorResponse
// @Router       /conversations/messages [post]
func (rh *RestHandler) SendMessage(ctx *gin.Context) {
	var body models.MessageRequest
	if err := ctx.BindJSON(&body); err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{
			Error: errs.ErrInvalidRequestBody.Error(),
		})
		return
	}

	senderID := utils.GetUserIdFromContext(ctx)
	message, err := rh.chatService.SendMessage(body.ConversationID, senderID, body.Content)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrEmptyMessageContent):
			ctx.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{
				Error: err.Error(),
			})
		case errors.Is(err, errs.ErrConversationNotFound):
			ctx.AbortWithStatusJSON(http.StatusNotFound, models.ErrorResponse{
				Error: err.Error(),
			})
		default:
			ctx.AbortWithStatusJSON(http.StatusInternalServerError, models.ErrorResponse{
				Error:   "failed to send message",
				Details: err.Error(),
			})
		}
		return
	}

	rh.publishNewMessage(body.ConversationID, message)
	RecordMessageSent()

	ctx.JSON(http.StatusOK, message)
}

// publishNewMessage fans the created message out to socket subscribers.
// Best effort: delivery is a UX feature, the message is already persisted.
func (rh *RestHandler) publishNewMessage(conversationID uint, message *models.MessageResponse) {
	if rh.redis == nil {
		return
	}
	event := redisModels.RedisPublishedMessage{
		Event:          enums.SOCKET_EVENT_NEW_MESSAGE,
		ConversationID: conversationID,
		Payload:        message,
	}
	jsonEvent, err := json.Marshal(event)
	if err != nil {
		log.Printf("Error marshalling message event: %v", err)
		return
	}
	if err := rh.redis.Publish(rh.ctx, redisModels.REDIS_CHANNEL_CHAT, jsonEvent).Err(); err != nil {
		log.Printf("Error publishing message event: %v", err)
	}
}

func (rh *RestHandler) GetInstructors(ctx *gin.Context) {
	page, size := paginationParams(ctx)
	search := ctx.Query("search")

	response, err := rh.authService.GetInstructors(search, page, size)
	if err != nil {
		ctx.AbortWithStatusJSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  []error{err},
		})
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgOperationSuccessful,
		Data:    response,
	})
}

func (rh *RestHandler) UploadUserAvatar(ctx *gin.Context) {
	userID := utils.GetUserIdFromContext(ctx)
	if userID < 1 {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  []error{errs.ErrUnauthorized},
		})
		return
	}

	file, err := ctx.FormFile("avatar")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  []error{errs.ErrNoFileUploaded},
		})
		return
	}

	src, err := file.Open()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  []error{errs.ErrUnableToOpenUploadedFile},
		})
		return
	}
	defer src.Close()

	fileExt := filepath.Ext(file.Filename)
	fileName := fmt.Sprintf("user_avatar_%s%s", strconv.Itoa(int(userID)), fileExt)

	url, err := rh.fileManagerService.UploadUserAvatar(fileName, src, file.Size, file.Header.Get("Content-Type"), enums.FILE_BUCKET_USER_AVATAR)
	if err != nil {
		ctx.AbortWithStatusJSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  []error{errs.ErrUnableToUploadFile},
		})
		return
	}

	if err := rh.authService.UpdateUserAvatar(userID, url); err != nil {
		ctx.AbortWithStatusJSON(http.StatusInternalServerError, models.Response{
			Success: false,
			Message: msgs.MsgOperationFailed,
			Errors:  []error{errs.ErrUnableToUpdateAvatar},
		})
		return
	}

	ctx.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: msgs.MsgOperationSuccessful,
		Data:    gin.H{"avatar_url": url},
	})
}

func paginationParams(ctx *gin.Context) (int, int) {
	page, err := strconv.Atoi(ctx.Query("page"))
	if err != nil || page < 1 {
		page = 1
	}
	size, err := strconv.Atoi(ctx.Query("size"))
	if err != nil || size < 1 {
		size = 10
	}
	return page, size
}
