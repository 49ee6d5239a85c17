// Package storetest builds throwaway SQLite-backed stores and fixtures for tests.
package storetest

import (
	"context"
	"fmt"
	"regexp"
	"testing"
	"yatube/internal/config"
	"yatube/internal/db"
	"yatube/internal/models"
	"yatube/internal/store"
	"yatube/internal/utils"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// Password is the plain-text password of every fixture user.
const Password = "Sup3r-secret"

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_]`)

// CreateTempDB opens a private in-memory database for t, migrated and empty.
// It disappears when the test finishes.
func CreateTempDB(t testing.TB) *store.Store {
	t.Helper()
	utils.PasswordHashCost = bcrypt.MinCost

	name := unsafeChars.ReplaceAllString(t.Name(), "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	gdb, err := db.Open(&config.Config{DBDriver: "sqlite", DatabaseURL: dsn})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))

	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return store.New(gdb)
}

func CreateUser(t testing.TB, st *store.Store, username string) *models.User {
	t.Helper()
	hash, err := utils.HashPassword(Password)
	require.NoError(t, err)
	u := &models.User{Username: username, Email: username + "@example.com", Password: hash}
	require.NoError(t, st.CreateUser(context.Background(), u))
	return u
}

func CreateGroup(t testing.TB, st *store.Store, slug string) *models.Group {
	t.Helper()
	g := &models.Group{Title: "Group " + slug, Slug: slug, Description: "About " + slug}
	require.NoError(t, st.CreateGroup(context.Background(), g))
	return g
}

// CreatePost stores a post by author, optionally in group (nil for none).
func CreatePost(t testing.TB, st *store.Store, author *models.User, group *models.Group, text string) *models.Post {
	t.Helper()
	p := &models.Post{Text: text, AuthorID: author.ID}
	if group != nil {
		p.GroupID = &group.ID
	}
	require.NoError(t, st.CreatePost(context.Background(), p))
	return p
}

func CreateComment(t testing.TB, st *store.Store, post *models.Post, author *models.User, text string) *models.Comment {
	t.Helper()
	c := &models.Comment{PostID: post.ID, AuthorID: author.ID, Text: text}
	require.NoError(t, st.CreateComment(context.Background(), c))
	return c
}

// GIF is a valid 2x1 GIF image.
var GIF = []byte{
	0x47, 0x49, 0x46, 0x38, 0x39, 0x61, 0x02, 0x00,
	0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0xFF, 0xFF, 0xFF, 0x21, 0xF9, 0x04, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x2C, 0x00, 0x00, 0x00, 0x00,
	0x02, 0x00, 0x01, 0x00, 0x00, 0x02, 0x02, 0x0C,
	0x0A, 0x00, 0x3B,
}
