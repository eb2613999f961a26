package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"warbler/internal/app"
	"warbler/internal/transport/http/middleware"
	"warbler/internal/transport/http/response"
)

type MessageHandler struct {
	messageService *app.MessageService
	socialService  *app.SocialService
}

type ComposeRequest struct {
	Text string `json:"text" binding:"required,min=1,max=140"`
}

func NewMessageHandler(messageService *app.MessageService, socialService *app.SocialService) *MessageHandler {
	return &MessageHandler{messageService: messageService, socialService: socialService}
}

func (h *MessageHandler) Compose(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "access unauthorized")
		return
	}

	var req ComposeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	message, err := h.messageService.Compose(c.Request.Context(), app.ComposeInput{
		UserID: userID,
		Text:   req.Text,
	})
	if err != nil {
		if errors.Is(err, app.ErrInvalidInput) {
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "compose message failed")
		return
	}

	response.OK(c, message)
}

func (h *MessageHandler) Show(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)
	messageID, ok := pathID(c, "id")
	if !ok {
		return
	}

	view, err := h.messageService.Get(userID, messageID)
	if err != nil {
		writeMessageError(c, err, "fetch message failed")
		return
	}
	response.OK(c, view)
}

func (h *MessageHandler) Delete(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "access unauthorized")
		return
	}
	messageID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.messageService.Delete(c.Request.Context(), userID, messageID); err != nil {
		writeMessageError(c, err, "delete message failed")
		return
	}
	response.OK(c, nil)
}

func (h *MessageHandler) ToggleLike(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "access unauthorized")
		return
	}
	messageID, ok := pathID(c, "id")
	if !ok {
		return
	}

	liked, err := h.socialService.ToggleLike(c.Request.Context(), userID, messageID)
	if err != nil {
		writeMessageError(c, err, "toggle like failed")
		return
	}
	response.OK(c, gin.H{"liked": liked})
}

func writeMessageError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, app.ErrInvalidInput):
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
	case errors.Is(err, app.ErrMessageNotFound):
		response.Error(c, http.StatusNotFound, response.CodeNotFound, err.Error())
	case errors.Is(err, app.ErrOwnMessage), errors.Is(err, app.ErrNotMessageOwner):
		response.Error(c, http.StatusForbidden, response.CodeForbidden, err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, fallback)
	}
}
