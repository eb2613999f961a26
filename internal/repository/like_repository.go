package repository

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"warbler/internal/model"
)

type LikeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) *LikeRepository {
	return &LikeRepository{db: db}
}

// Toggle flips the like edge inside a single transaction: delete first,
// and only insert when nothing was deleted. Concurrent toggles on the
// same pair serialize at the store instead of racing a read-then-write,
// and the unique index backstops the insert. Returns the new state.
func (r *LikeRepository) Toggle(userID, messageID uint) (bool, error) {
	var liked bool
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND message_id = ?", userID, messageID).Delete(&model.Like{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			liked = false
			return nil
		}

		edge := model.Like{UserID: userID, MessageID: messageID}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&edge).Error; err != nil {
			return err
		}
		liked = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("toggle like failed: %w", err)
	}
	return liked, nil
}

func (r *LikeRepository) Exists(userID, messageID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&model.Like{}).
		Where("user_id = ? AND message_id = ?", userID, messageID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("check like edge failed: %w", err)
	}
	return count > 0, nil
}

func (r *LikeRepository) CountByMessageID(messageID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&model.Like{}).Where("message_id = ?", messageID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count likes failed: %w", err)
	}
	return count, nil
}

func (r *LikeRepository) ListLikedMessages(userID uint) ([]model.Message, error) {
	var messages []model.Message
	if err := r.db.Model(&model.Message{}).
		Joins("JOIN likes ON likes.message_id = messages.id").
		Where("likes.user_id = ?", userID).
		Order("messages.created_at DESC").
		Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("list liked messages failed: %w", err)
	}
	return messages, nil
}
