package store

import (
	"context"
	"yatube/internal/models"
)

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	return wrap(s.conn(ctx).Create(u).Error, "create user")
}

func (s *Store) UserByID(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := s.conn(ctx).First(&u, id).Error; err != nil {
		return nil, wrap(err, "get user by id")
	}
	return &u, nil
}

func (s *Store) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	if err := s.conn(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return nil, wrap(err, "get user by username")
	}
	return &u, nil
}

// UsernameTaken is case-insensitive, so "Leo" and "leo" cannot both register.
func (s *Store) UsernameTaken(ctx context.Context, username string) (bool, error) {
	var n int64
	err := s.conn(ctx).Model(&models.User{}).Where("LOWER(username) = LOWER(?)", username).Count(&n).Error
	return n > 0, wrap(err, "check username")
}

// UsersByEmail returns every account registered with email; addresses are not unique.
func (s *Store) UsersByEmail(ctx context.Context, email string) ([]models.User, error) {
	var users []models.User
	err := s.conn(ctx).Where("LOWER(email) = LOWER(?)", email).Order("id").Find(&users).Error
	return users, wrap(err, "list users by email")
}

func (s *Store) SetPassword(ctx context.Context, userID uint, hash string) error {
	res := s.conn(ctx).Model(&models.User{}).Where("id = ?", userID).Update("password", hash)
	if res.Error != nil {
		return wrap(res.Error, "set password")
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteUser removes the account; posts, comments and follow edges go with it.
func (s *Store) DeleteUser(ctx context.Context, id uint) error {
	res := s.conn(ctx).Delete(&models.User{}, id)
	if res.Error != nil {
		return wrap(res.Error, "delete user")
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	err := s.conn(ctx).Model(&models.User{}).Count(&n).Error
	return n, wrap(err, "count users")
}
