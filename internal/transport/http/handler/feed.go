package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"warbler/internal/app"
	"warbler/internal/transport/http/middleware"
	"warbler/internal/transport/http/response"
)

type FeedHandler struct {
	feedService *app.FeedService
}

func NewFeedHandler(feedService *app.FeedService) *FeedHandler {
	return &FeedHandler{feedService: feedService}
}

func (h *FeedHandler) Home(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "access unauthorized")
		return
	}

	messages, err := h.feedService.HomeTimeline(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "fetch timeline failed")
		return
	}
	response.OK(c, messages)
}
