package store

import (
	"context"
	"yatube/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const commentOrder = "created_at DESC, id DESC"

func (s *Store) CreateComment(ctx context.Context, c *models.Comment) error {
	return wrap(s.conn(ctx).Omit(clause.Associations).Create(c).Error, "create comment")
}

// ListComments returns one page of a post's comments, newest first.
func (s *Store) ListComments(ctx context.Context, postID uint, rawPage string) (*Page[models.Comment], error) {
	base := s.conn(ctx).Model(&models.Comment{}).Where("post_id = ?", postID)
	return paginate[models.Comment](base, CommentsPerPage, rawPage, func(q *gorm.DB) *gorm.DB {
		return q.Preload("Author").Order(commentOrder)
	})
}

func (s *Store) CountComments(ctx context.Context, postID uint) (int64, error) {
	var n int64
	err := s.conn(ctx).Model(&models.Comment{}).Where("post_id = ?", postID).Count(&n).Error
	return n, wrap(err, "count comments")
}
