package app

import (
	"context"

	"warbler/internal/model"
	"warbler/internal/repository"
)

type FeedService struct {
	messageStore MessageStore
	feedCache    FeedCache
	homeLimit    int
}

func NewFeedService(messageStore MessageStore, feedCache FeedCache, homeLimit int) *FeedService {
	// An unset limit gets the default; an oversized one is clamped to
	// the cap instead of being silently replaced.
	if homeLimit <= 0 {
		homeLimit = repository.DefaultTimelineLimit
	}
	if homeLimit > repository.MaxTimelineLimit {
		homeLimit = repository.MaxTimelineLimit
	}
	return &FeedService{
		messageStore: messageStore,
		feedCache:    feedCache,
		homeLimit:    homeLimit,
	}
}

// HomeTimeline returns the newest messages from the viewer and everyone
// the viewer follows, capped at the configured limit. The cache is
// consulted and refilled only while no dirty marker is set for the
// viewer, so a pending invalidation never gets overwritten by a stale
// read.
func (s *FeedService) HomeTimeline(ctx context.Context, viewerID uint) ([]model.Message, error) {
	if viewerID == 0 {
		return nil, ErrInvalidInput
	}

	if s.feedCache != nil {
		dirty, err := s.feedCache.IsDirty(ctx, viewerID)
		if err == nil && !dirty {
			if cached, hit, cacheErr := s.feedCache.GetFeed(ctx, viewerID); cacheErr == nil && hit {
				return cached, nil
			}
		}
	}

	messages, err := s.messageStore.ListTimeline(viewerID, s.homeLimit)
	if err != nil {
		return nil, err
	}

	if s.feedCache != nil {
		if dirty, dirtyErr := s.feedCache.IsDirty(ctx, viewerID); dirtyErr == nil && !dirty {
			_ = s.feedCache.SetFeed(ctx, viewerID, messages)
		}
	}
	return messages, nil
}
