package app

import (
	"context"

	"warbler/internal/event"
	"warbler/internal/model"
)

// Consumer-side store contracts, satisfied by internal/repository.

type UserStore interface {
	Create(user *model.User) error
	GetByID(id uint) (*model.User, error)
	GetByUsername(username string) (*model.User, error)
	Search(query string) ([]model.User, error)
	Update(user *model.User) error
	Delete(id uint) error
}

type MessageStore interface {
	Create(message *model.Message) error
	GetByID(id uint) (*model.Message, error)
	ListByUserID(userID uint) ([]model.Message, error)
	ListTimeline(viewerID uint, limit int) ([]model.Message, error)
	Delete(id uint) error
}

type FollowStore interface {
	Create(followerID, followeeID uint) error
	Delete(followerID, followeeID uint) (bool, error)
	Exists(followerID, followeeID uint) (bool, error)
	ListFollowers(userID uint) ([]model.User, error)
	ListFollowing(userID uint) ([]model.User, error)
	ListFollowerIDs(userID uint) ([]uint, error)
}

type LikeStore interface {
	Toggle(userID, messageID uint) (bool, error)
	Exists(userID, messageID uint) (bool, error)
	CountByMessageID(messageID uint) (int64, error)
	ListLikedMessages(userID uint) ([]model.Message, error)
}

// FeedEventPublisher hands feed invalidation work to the worker queue.
type FeedEventPublisher interface {
	Publish(ctx context.Context, ev event.FeedEvent) error
}

// FeedCache is the per-viewer timeline cache with dirty markers.
type FeedCache interface {
	GetFeed(ctx context.Context, viewerID uint) ([]model.Message, bool, error)
	SetFeed(ctx context.Context, viewerID uint, messages []model.Message) error
	DeleteFeed(ctx context.Context, viewerID uint) error
	MarkDirty(ctx context.Context, viewerID uint) error
	IsDirty(ctx context.Context, viewerID uint) (bool, error)
}
