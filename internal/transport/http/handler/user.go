package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"warbler/internal/app"
	"warbler/internal/transport/http/middleware"
	"warbler/internal/transport/http/response"
)

type UserHandler struct {
	userService   *app.UserService
	socialService *app.SocialService
}

type UpdateProfileRequest struct {
	Username       string `json:"username" binding:"required,min=3,max=64"`
	Email          string `json:"email" binding:"required,email,max=128"`
	ImageURL       string `json:"image_url" binding:"omitempty,max=255"`
	HeaderImageURL string `json:"header_image_url" binding:"omitempty,max=255"`
	Bio            string `json:"bio"`
	Location       string `json:"location" binding:"omitempty,max=128"`
	Password       string `json:"password" binding:"required,min=8,max=128"`
}

func NewUserHandler(userService *app.UserService, socialService *app.SocialService) *UserHandler {
	return &UserHandler{userService: userService, socialService: socialService}
}

func (h *UserHandler) Search(c *gin.Context) {
	users, err := h.userService.Search(c.Query("q"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "search users failed")
		return
	}
	response.OK(c, users)
}

func (h *UserHandler) Show(c *gin.Context) {
	viewerID, _ := middleware.CurrentUserID(c)
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	profile, err := h.userService.Profile(viewerID, id)
	if err != nil {
		writeUserError(c, err, "fetch profile failed")
		return
	}
	response.OK(c, profile)
}

func (h *UserHandler) Following(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	users, err := h.socialService.Following(id)
	if err != nil {
		writeUserError(c, err, "list following failed")
		return
	}
	response.OK(c, users)
}

func (h *UserHandler) Followers(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	users, err := h.socialService.Followers(id)
	if err != nil {
		writeUserError(c, err, "list followers failed")
		return
	}
	response.OK(c, users)
}

func (h *UserHandler) LikedMessages(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	messages, err := h.socialService.LikedMessages(id)
	if err != nil {
		writeUserError(c, err, "list liked messages failed")
		return
	}
	response.OK(c, messages)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "access unauthorized")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	user, err := h.userService.UpdateProfile(userID, app.UpdateProfileInput{
		Username:       req.Username,
		Email:          req.Email,
		ImageURL:       req.ImageURL,
		HeaderImageURL: req.HeaderImageURL,
		Bio:            req.Bio,
		Location:       req.Location,
		Password:       req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, app.ErrWrongPassword):
			response.Error(c, http.StatusForbidden, response.CodeWrongPassword, err.Error())
		case errors.Is(err, app.ErrDuplicateAccount):
			response.Error(c, http.StatusConflict, response.CodeDuplicateAccount, err.Error())
		case errors.Is(err, app.ErrUserNotFound):
			response.Error(c, http.StatusNotFound, response.CodeNotFound, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "update profile failed")
		}
		return
	}

	response.OK(c, user)
}

func (h *UserHandler) DeleteAccount(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "access unauthorized")
		return
	}

	if err := h.userService.DeleteAccount(c.Request.Context(), userID); err != nil {
		writeUserError(c, err, "delete account failed")
		return
	}
	response.OK(c, nil)
}

func (h *UserHandler) Follow(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "access unauthorized")
		return
	}
	followeeID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.socialService.Follow(c.Request.Context(), userID, followeeID); err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput), errors.Is(err, app.ErrSelfFollow):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, app.ErrUserNotFound):
			response.Error(c, http.StatusNotFound, response.CodeNotFound, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "follow failed")
		}
		return
	}
	response.OK(c, nil)
}

func (h *UserHandler) Unfollow(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "access unauthorized")
		return
	}
	followeeID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.socialService.Unfollow(c.Request.Context(), userID, followeeID); err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, app.ErrNotFollowing):
			response.Error(c, http.StatusConflict, response.CodeNotFollowing, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "unfollow failed")
		}
		return
	}
	response.OK(c, nil)
}

func pathID(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	parsed, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || parsed == 0 {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid id")
		return 0, false
	}
	return uint(parsed), true
}

func writeUserError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, app.ErrInvalidInput):
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
	case errors.Is(err, app.ErrUserNotFound):
		response.Error(c, http.StatusNotFound, response.CodeNotFound, err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, fallback)
	}
}
