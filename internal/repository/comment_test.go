package repository

import (
	"context"
	"regexp"
	"testing"

	"caseboard/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentRepository_Create(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	comment := &models.Comment{
		PostID:     1,
		AuthorID:   2,
		AuthorName: "drwilson",
		Content:    "Consider a hemiarthroplasty given the age.",
	}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "comments"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	err := repo.Create(ctx, comment)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentRepository_ListByPost(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "comments" WHERE post_id = $1 ORDER BY id ASC`)).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "post_id", "author_name", "content"}).
			AddRow(1, 1, "drwilson", "First comment").
			AddRow(2, 1, "drhouse", "Second comment"))

	comments, err := repo.ListByPost(ctx, 1)
	require.NoError(t, err)
	require.Len(t, comments, 2)

	// Submission order preserved.
	assert.Equal(t, "First comment", comments[0].Content)
	assert.Equal(t, "Second comment", comments[1].Content)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentRepository_ListByPost_Empty(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewCommentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "comments" WHERE post_id = $1 ORDER BY id ASC`)).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	comments, err := repo.ListByPost(context.Background(), 5)
	assert.NoError(t, err)
	assert.Empty(t, comments)
	assert.NoError(t, mock.ExpectationsWereMet())
}
