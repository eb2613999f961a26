package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"warbler/internal/model"
)

const (
	// DefaultTimelineLimit is used when no feed limit is configured.
	DefaultTimelineLimit = 100
	// MaxTimelineLimit caps a configured feed limit.
	MaxTimelineLimit = 200
)

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(message *model.Message) error {
	if err := r.db.Create(message).Error; err != nil {
		return fmt.Errorf("create message failed: %w", err)
	}
	return nil
}

func (r *MessageRepository) GetByID(id uint) (*model.Message, error) {
	var message model.Message
	if err := r.db.First(&message, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query message by id failed: %w", err)
	}
	return &message, nil
}

func (r *MessageRepository) ListByUserID(userID uint) ([]model.Message, error) {
	var messages []model.Message
	if err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("list messages failed: %w", err)
	}
	return messages, nil
}

// ListTimeline returns the newest messages authored by the viewer or by
// anyone the viewer follows, capped at limit.
func (r *MessageRepository) ListTimeline(viewerID uint, limit int) ([]model.Message, error) {
	// A non-positive limit falls back to the default page size; anything
	// above the hard cap is clamped to it, never rewritten below it.
	if limit <= 0 {
		limit = DefaultTimelineLimit
	}
	if limit > MaxTimelineLimit {
		limit = MaxTimelineLimit
	}

	followees := r.db.Model(&model.Follow{}).Select("followee_id").Where("follower_id = ?", viewerID)

	var messages []model.Message
	if err := r.db.
		Where("user_id = ? OR user_id IN (?)", viewerID, followees).
		Order("created_at DESC").
		Limit(limit).
		Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("list timeline failed: %w", err)
	}
	return messages, nil
}

// Delete removes a message and any likes pointing at it.
func (r *MessageRepository) Delete(id uint) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("message_id = ?", id).Delete(&model.Like{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Message{}, id).Error
	})
	if err != nil {
		return fmt.Errorf("delete message failed: %w", err)
	}
	return nil
}
