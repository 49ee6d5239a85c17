package store

import (
	"context"
	"regexp"
	"testing"
	"yatube/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// setupMockDB creates a GORM *gorm.DB backed by sqlmock, speaking the postgres dialect.
func setupMockDB(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	require.NoError(t, err)
	return New(gormDB), mock
}

// setupMySQLMockDB is setupMockDB for the mysql dialect.
func setupMySQLMockDB(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	gormDB, err := gorm.Open(mysql.New(mysql.Config{Conn: db, SkipInitializeWithVersion: true}), &gorm.Config{})
	require.NoError(t, err)
	return New(gormDB), mock
}

func TestCreateFollowSQL(t *testing.T) {
	st, mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "follows" ("follower_id","followed_id","created_at") VALUES ($1,$2,$3) RETURNING "id"`)).
		WithArgs(1, 2, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(9))
	mock.ExpectCommit()

	f, err := st.CreateFollow(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, uint(9), f.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListPostsCountsBeforeOrdering(t *testing.T) {
	st, mock := setupMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "posts" WHERE group_id = $1`)).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	page, err := st.ListPosts(context.Background(), PostFilter{GroupID: 3}, "")
	require.NoError(t, err)
	assert.Equal(t, 1, page.NumPages)
	assert.Empty(t, page.Items)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserByUsernameNotFoundSQL(t *testing.T) {
	st, mock := setupMockDB(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE username = $1 ORDER BY "users"."id" LIMIT $2`)).
		WithArgs("ghost", 1).
		WillReturnError(gorm.ErrRecordNotFound)

	_, err := st.UserByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// MySQL counts changed rows, so saving an unchanged post affects nothing.
func TestUpdatePostUnchangedRowMySQL(t *testing.T) {
	st, mock := setupMySQLMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE `posts` SET")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	post := &models.Post{ID: 4, Text: "same text"}
	assert.NoError(t, st.UpdatePost(context.Background(), post))
	assert.NoError(t, mock.ExpectationsWereMet())
}
