package app

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"warbler/internal/event"
	"warbler/internal/model"
)

type UserService struct {
	userStore        UserStore
	messageStore     MessageStore
	followStore      FollowStore
	publisher        FeedEventPublisher
	feedCache        FeedCache
	defaultImageURL  string
	defaultHeaderURL string
}

type ProfileView struct {
	User     *model.User     `json:"user"`
	Messages []model.Message `json:"messages"`
	// Following reports whether the viewer follows the shown user;
	// always false on the viewer's own profile.
	Following bool `json:"following"`
}

type UpdateProfileInput struct {
	Username       string
	Email          string
	ImageURL       string
	HeaderImageURL string
	Bio            string
	Location       string
	Password       string
}

func NewUserService(
	userStore UserStore,
	messageStore MessageStore,
	followStore FollowStore,
	publisher FeedEventPublisher,
	feedCache FeedCache,
	defaultImageURL, defaultHeaderURL string,
) *UserService {
	if defaultImageURL == "" {
		defaultImageURL = model.DefaultImageURL
	}
	if defaultHeaderURL == "" {
		defaultHeaderURL = model.DefaultHeaderImageURL
	}
	return &UserService{
		userStore:        userStore,
		messageStore:     messageStore,
		followStore:      followStore,
		publisher:        publisher,
		feedCache:        feedCache,
		defaultImageURL:  defaultImageURL,
		defaultHeaderURL: defaultHeaderURL,
	}
}

func (s *UserService) Profile(viewerID, id uint) (*ProfileView, error) {
	if id == 0 {
		return nil, ErrInvalidInput
	}
	user, err := s.userStore.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	messages, err := s.messageStore.ListByUserID(id)
	if err != nil {
		return nil, err
	}

	following := false
	if viewerID != 0 && viewerID != id {
		following, err = s.followStore.Exists(viewerID, id)
		if err != nil {
			return nil, err
		}
	}
	return &ProfileView{User: user, Messages: messages, Following: following}, nil
}

func (s *UserService) Search(query string) ([]model.User, error) {
	return s.userStore.Search(strings.TrimSpace(query))
}

// UpdateProfile re-verifies the current password before touching any
// field; a mismatch leaves the account untouched.
func (s *UserService) UpdateProfile(userID uint, input UpdateProfileInput) (*model.User, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}

	user, err := s.userStore.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrWrongPassword
	}

	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(strings.ToLower(input.Email))
	if username == "" || email == "" {
		return nil, ErrInvalidInput
	}

	user.Username = username
	user.Email = email
	user.Bio = input.Bio
	user.Location = input.Location
	user.ImageURL = strings.TrimSpace(input.ImageURL)
	if user.ImageURL == "" {
		user.ImageURL = s.defaultImageURL
	}
	user.HeaderImageURL = strings.TrimSpace(input.HeaderImageURL)
	if user.HeaderImageURL == "" {
		user.HeaderImageURL = s.defaultHeaderURL
	}

	if err := s.userStore.Update(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateAccount
		}
		return nil, err
	}
	return user, nil
}

// DeleteAccount removes the account and all of its messages in one
// store transaction, then fans a feed invalidation out to followers.
// Follower ids are captured before the cascade erases the edges.
func (s *UserService) DeleteAccount(ctx context.Context, userID uint) error {
	if userID == 0 {
		return ErrInvalidInput
	}

	user, err := s.userStore.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	followerIDs, err := s.followStore.ListFollowerIDs(userID)
	if err != nil {
		return err
	}

	if err := s.userStore.Delete(userID); err != nil {
		return err
	}

	if s.feedCache != nil {
		_ = s.feedCache.DeleteFeed(ctx, userID)
	}
	if s.publisher != nil {
		_ = s.publisher.Publish(ctx, event.FeedEvent{
			Reason:      event.ReasonAccountDeleted,
			AuthorID:    userID,
			FollowerIDs: followerIDs,
		})
	}
	return nil
}
