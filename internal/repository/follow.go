package repository

import (
	"context"

	"socialfeed/internal/models"

	"gorm.io/gorm"
)

// FollowRepository stores the follow graph as follower/followee edges.
type FollowRepository interface {
	Toggle(ctx context.Context, followerID, followeeID uint) (bool, error)
	IsFollowing(ctx context.Context, followerID, followeeID uint) (bool, error)
}

type followRepository struct {
	db *gorm.DB
}

// NewFollowRepository creates a new FollowRepository
func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

// Toggle reports whether followerID follows followeeID after the transition.
func (r *followRepository) Toggle(ctx context.Context, followerID, followeeID uint) (bool, error) {
	res, err := Toggle(ctx, r.db, "follow", models.Follow{FollowerID: followerID, FolloweeID: followeeID})
	if err != nil {
		return false, err
	}
	return res == Added, nil
}

func (r *followRepository) IsFollowing(ctx context.Context, followerID, followeeID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
