package repository

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"warbler/internal/model"
)

type FollowRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) *FollowRepository {
	return &FollowRepository{db: db}
}

// Create adds the follower->followee edge. Re-following is a no-op: the
// insert rides the composite unique index with ON CONFLICT DO NOTHING.
func (r *FollowRepository) Create(followerID, followeeID uint) error {
	edge := model.Follow{FollowerID: followerID, FolloweeID: followeeID}
	if err := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&edge).Error; err != nil {
		return fmt.Errorf("create follow edge failed: %w", err)
	}
	return nil
}

// Delete removes the edge and reports whether one existed.
func (r *FollowRepository) Delete(followerID, followeeID uint) (bool, error) {
	res := r.db.Where("follower_id = ? AND followee_id = ?", followerID, followeeID).Delete(&model.Follow{})
	if res.Error != nil {
		return false, fmt.Errorf("delete follow edge failed: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *FollowRepository) Exists(followerID, followeeID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&model.Follow{}).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("check follow edge failed: %w", err)
	}
	return count > 0, nil
}

func (r *FollowRepository) ListFollowers(userID uint) ([]model.User, error) {
	var users []model.User
	if err := r.db.Model(&model.User{}).
		Joins("JOIN follows ON follows.follower_id = users.id").
		Where("follows.followee_id = ?", userID).
		Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list followers failed: %w", err)
	}
	return users, nil
}

func (r *FollowRepository) ListFollowing(userID uint) ([]model.User, error) {
	var users []model.User
	if err := r.db.Model(&model.User{}).
		Joins("JOIN follows ON follows.followee_id = users.id").
		Where("follows.follower_id = ?", userID).
		Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list following failed: %w", err)
	}
	return users, nil
}

// ListFollowerIDs is used when fanning out feed invalidations.
func (r *FollowRepository) ListFollowerIDs(userID uint) ([]uint, error) {
	var ids []uint
	if err := r.db.Model(&model.Follow{}).
		Where("followee_id = ?", userID).
		Pluck("follower_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("list follower ids failed: %w", err)
	}
	return ids, nil
}
