package store

import (
	"context"
	"yatube/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const postOrder = "created_at DESC, id DESC"

// PostFilter narrows a timeline. At most one field is expected to be set; the
// zero value selects every post.
type PostFilter struct {
	GroupID    uint
	AuthorID   uint
	FollowerID uint // posts by authors this user follows
}

func (s *Store) CreatePost(ctx context.Context, p *models.Post) error {
	return wrap(s.conn(ctx).Omit(clause.Associations).Create(p).Error, "create post")
}

// PostByID loads the post with its author and group.
func (s *Store) PostByID(ctx context.Context, id uint) (*models.Post, error) {
	var p models.Post
	err := s.conn(ctx).Preload("Author").Preload("Group").First(&p, id).Error
	if err != nil {
		return nil, wrap(err, "get post by id")
	}
	return &p, nil
}

// UpdatePost writes the editable fields only: text, group and image. The
// caller has already loaded the post; MySQL reports zero affected rows for an
// unchanged save, so RowsAffected says nothing about existence here.
func (s *Store) UpdatePost(ctx context.Context, p *models.Post) error {
	err := s.conn(ctx).Model(&models.Post{}).Where("id = ?", p.ID).Updates(map[string]interface{}{
		"text":     p.Text,
		"group_id": p.GroupID,
		"image":    p.Image,
	}).Error
	return wrap(err, "update post")
}

func (s *Store) DeletePost(ctx context.Context, id uint) error {
	res := s.conn(ctx).Delete(&models.Post{}, id)
	if res.Error != nil {
		return wrap(res.Error, "delete post")
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) CountPosts(ctx context.Context) (int64, error) {
	var n int64
	err := s.conn(ctx).Model(&models.Post{}).Count(&n).Error
	return n, wrap(err, "count posts")
}

func (s *Store) CountPostsByAuthor(ctx context.Context, authorID uint) (int64, error) {
	var n int64
	err := s.conn(ctx).Model(&models.Post{}).Where("author_id = ?", authorID).Count(&n).Error
	return n, wrap(err, "count posts by author")
}

func (s *Store) filteredPosts(ctx context.Context, f PostFilter) *gorm.DB {
	q := s.conn(ctx).Model(&models.Post{})
	switch {
	case f.GroupID != 0:
		q = q.Where("group_id = ?", f.GroupID)
	case f.AuthorID != 0:
		q = q.Where("author_id = ?", f.AuthorID)
	case f.FollowerID != 0:
		followed := s.conn(ctx).Model(&models.Follow{}).Select("followed_id").Where("follower_id = ?", f.FollowerID)
		q = q.Where("author_id IN (?)", followed)
	}
	return q
}

// ListPosts returns one page of a timeline, newest first.
func (s *Store) ListPosts(ctx context.Context, f PostFilter, rawPage string) (*Page[models.Post], error) {
	return paginate[models.Post](s.filteredPosts(ctx, f), PostsPerPage, rawPage, func(q *gorm.DB) *gorm.DB {
		return q.Preload("Author").Preload("Group").Order(postOrder)
	})
}

// RecentPosts returns the newest posts without pagination, for feeds and sitemaps.
func (s *Store) RecentPosts(ctx context.Context, limit int) ([]models.Post, error) {
	var posts []models.Post
	err := s.conn(ctx).Preload("Author").Preload("Group").Order(postOrder).Limit(limit).Find(&posts).Error
	return posts, wrap(err, "list recent posts")
}
