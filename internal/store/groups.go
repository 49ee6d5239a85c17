package store

import (
	"context"
	"yatube/internal/models"
)

func (s *Store) CreateGroup(ctx context.Context, g *models.Group) error {
	return wrap(s.conn(ctx).Create(g).Error, "create group")
}

func (s *Store) GroupBySlug(ctx context.Context, slug string) (*models.Group, error) {
	var g models.Group
	if err := s.conn(ctx).Where("slug = ?", slug).First(&g).Error; err != nil {
		return nil, wrap(err, "get group by slug")
	}
	return &g, nil
}

func (s *Store) GroupByID(ctx context.Context, id uint) (*models.Group, error) {
	var g models.Group
	if err := s.conn(ctx).First(&g, id).Error; err != nil {
		return nil, wrap(err, "get group by id")
	}
	return &g, nil
}

// ListGroups returns every group ordered by title, for the post form's select box.
func (s *Store) ListGroups(ctx context.Context) ([]models.Group, error) {
	var groups []models.Group
	err := s.conn(ctx).Order("title ASC, id ASC").Find(&groups).Error
	return groups, wrap(err, "list groups")
}

// DeleteGroup keeps the group's posts; their group reference is cleared.
func (s *Store) DeleteGroup(ctx context.Context, id uint) error {
	res := s.conn(ctx).Delete(&models.Group{}, id)
	if res.Error != nil {
		return wrap(res.Error, "delete group")
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
