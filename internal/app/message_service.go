package app

import (
	"context"
	"strings"
	"unicode/utf8"

	"warbler/internal/event"
	"warbler/internal/model"
)

type MessageService struct {
	messageStore MessageStore
	followStore  FollowStore
	likeStore    LikeStore
	publisher    FeedEventPublisher
	feedCache    FeedCache
}

type ComposeInput struct {
	UserID uint
	Text   string
}

type MessageView struct {
	Message   *model.Message `json:"message"`
	LikeCount int64          `json:"like_count"`
	Liked     bool           `json:"liked"`
}

func NewMessageService(
	messageStore MessageStore,
	followStore FollowStore,
	likeStore LikeStore,
	publisher FeedEventPublisher,
	feedCache FeedCache,
) *MessageService {
	return &MessageService{
		messageStore: messageStore,
		followStore:  followStore,
		likeStore:    likeStore,
		publisher:    publisher,
		feedCache:    feedCache,
	}
}

func (s *MessageService) Compose(ctx context.Context, input ComposeInput) (*model.Message, error) {
	if input.UserID == 0 {
		return nil, ErrInvalidInput
	}
	// The length bound counts characters, not bytes, matching the
	// column size and the transport binding.
	text := strings.TrimSpace(input.Text)
	if text == "" || utf8.RuneCountInString(text) > model.MaxMessageLength {
		return nil, ErrInvalidInput
	}

	message := &model.Message{
		UserID: input.UserID,
		Text:   text,
	}
	if err := s.messageStore.Create(message); err != nil {
		return nil, err
	}

	s.invalidateTimelines(ctx, input.UserID, event.ReasonMessagePosted)
	return message, nil
}

func (s *MessageService) Get(viewerID, messageID uint) (*MessageView, error) {
	if messageID == 0 {
		return nil, ErrInvalidInput
	}
	message, err := s.messageStore.GetByID(messageID)
	if err != nil {
		return nil, err
	}
	if message == nil {
		return nil, ErrMessageNotFound
	}

	likeCount, err := s.likeStore.CountByMessageID(messageID)
	if err != nil {
		return nil, err
	}
	liked, err := s.likeStore.Exists(viewerID, messageID)
	if err != nil {
		return nil, err
	}
	return &MessageView{Message: message, LikeCount: likeCount, Liked: liked}, nil
}

// Delete removes a message; only the author may do so.
func (s *MessageService) Delete(ctx context.Context, userID, messageID uint) error {
	if userID == 0 || messageID == 0 {
		return ErrInvalidInput
	}
	message, err := s.messageStore.GetByID(messageID)
	if err != nil {
		return err
	}
	if message == nil {
		return ErrMessageNotFound
	}
	if message.UserID != userID {
		return ErrNotMessageOwner
	}

	if err := s.messageStore.Delete(messageID); err != nil {
		return err
	}

	s.invalidateTimelines(ctx, userID, event.ReasonMessageDeleted)
	return nil
}

// invalidateTimelines drops the author's own cached feed right away and
// queues the follower fan-out for the worker. Cache and queue failures
// are not surfaced: the cache TTL bounds staleness either way.
func (s *MessageService) invalidateTimelines(ctx context.Context, authorID uint, reason string) {
	if s.feedCache != nil {
		_ = s.feedCache.MarkDirty(ctx, authorID)
		_ = s.feedCache.DeleteFeed(ctx, authorID)
	}
	if s.publisher == nil {
		return
	}
	followerIDs, err := s.followStore.ListFollowerIDs(authorID)
	if err != nil {
		return
	}
	_ = s.publisher.Publish(ctx, event.FeedEvent{
		Reason:      reason,
		AuthorID:    authorID,
		FollowerIDs: followerIDs,
	})
}
