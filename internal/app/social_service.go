package app

import (
	"context"

	"warbler/internal/model"
)

type SocialService struct {
	userStore    UserStore
	messageStore MessageStore
	followStore  FollowStore
	likeStore    LikeStore
	feedCache    FeedCache
}

func NewSocialService(
	userStore UserStore,
	messageStore MessageStore,
	followStore FollowStore,
	likeStore LikeStore,
	feedCache FeedCache,
) *SocialService {
	return &SocialService{
		userStore:    userStore,
		messageStore: messageStore,
		followStore:  followStore,
		likeStore:    likeStore,
		feedCache:    feedCache,
	}
}

// Follow adds the edge. Following someone already followed is a no-op;
// following yourself is rejected.
func (s *SocialService) Follow(ctx context.Context, followerID, followeeID uint) error {
	if followerID == 0 || followeeID == 0 {
		return ErrInvalidInput
	}
	if followerID == followeeID {
		return ErrSelfFollow
	}

	followee, err := s.userStore.GetByID(followeeID)
	if err != nil {
		return err
	}
	if followee == nil {
		return ErrUserNotFound
	}

	if err := s.followStore.Create(followerID, followeeID); err != nil {
		return err
	}

	s.invalidateOwnFeed(ctx, followerID)
	return nil
}

// Unfollow removes the edge; removing one that does not exist is a
// visible ErrNotFollowing, not a silent success.
func (s *SocialService) Unfollow(ctx context.Context, followerID, followeeID uint) error {
	if followerID == 0 || followeeID == 0 {
		return ErrInvalidInput
	}

	existed, err := s.followStore.Delete(followerID, followeeID)
	if err != nil {
		return err
	}
	if !existed {
		return ErrNotFollowing
	}

	s.invalidateOwnFeed(ctx, followerID)
	return nil
}

// ToggleLike flips the like state and returns the new one. Liking your
// own message is rejected regardless of prior state.
func (s *SocialService) ToggleLike(ctx context.Context, userID, messageID uint) (bool, error) {
	if userID == 0 || messageID == 0 {
		return false, ErrInvalidInput
	}

	message, err := s.messageStore.GetByID(messageID)
	if err != nil {
		return false, err
	}
	if message == nil {
		return false, ErrMessageNotFound
	}
	if message.UserID == userID {
		return false, ErrOwnMessage
	}

	return s.likeStore.Toggle(userID, messageID)
}

func (s *SocialService) Followers(userID uint) ([]model.User, error) {
	if err := s.requireUser(userID); err != nil {
		return nil, err
	}
	return s.followStore.ListFollowers(userID)
}

func (s *SocialService) Following(userID uint) ([]model.User, error) {
	if err := s.requireUser(userID); err != nil {
		return nil, err
	}
	return s.followStore.ListFollowing(userID)
}

func (s *SocialService) LikedMessages(userID uint) ([]model.Message, error) {
	if err := s.requireUser(userID); err != nil {
		return nil, err
	}
	return s.likeStore.ListLikedMessages(userID)
}

func (s *SocialService) requireUser(userID uint) error {
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
	return nil
}

func (s *SocialService) invalidateOwnFeed(ctx context.Context, viewerID uint) {
	if s.feedCache == nil {
		return
	}
	_ = s.feedCache.MarkDirty(ctx, viewerID)
	_ = s.feedCache.DeleteFeed(ctx, viewerID)
}
