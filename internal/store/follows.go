package store

import (
	"context"
	"yatube/internal/models"

	"gorm.io/gorm/clause"
)

// CreateFollow always inserts a new edge, even when the pair already exists.
func (s *Store) CreateFollow(ctx context.Context, followerID, followedID uint) (*models.Follow, error) {
	f := &models.Follow{FollowerID: followerID, FollowedID: followedID}
	if err := s.conn(ctx).Omit(clause.Associations).Create(f).Error; err != nil {
		return nil, wrap(err, "create follow")
	}
	return f, nil
}

// DeleteFollows removes every edge from follower to followed and reports how many went.
func (s *Store) DeleteFollows(ctx context.Context, followerID, followedID uint) (int64, error) {
	res := s.conn(ctx).Where("follower_id = ? AND followed_id = ?", followerID, followedID).Delete(&models.Follow{})
	return res.RowsAffected, wrap(res.Error, "delete follows")
}

func (s *Store) IsFollowing(ctx context.Context, followerID, followedID uint) (bool, error) {
	var n int64
	err := s.conn(ctx).Model(&models.Follow{}).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Count(&n).Error
	return n > 0, wrap(err, "check follow")
}

// CountFollowers counts distinct users following userID.
func (s *Store) CountFollowers(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := s.conn(ctx).Model(&models.Follow{}).
		Where("followed_id = ?", userID).
		Distinct("follower_id").
		Count(&n).Error
	return n, wrap(err, "count followers")
}

// CountFollowing counts distinct authors userID follows.
func (s *Store) CountFollowing(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := s.conn(ctx).Model(&models.Follow{}).
		Where("follower_id = ?", userID).
		Distinct("followed_id").
		Count(&n).Error
	return n, wrap(err, "count following")
}
