package repository

import (
	"context"

	"caseboard/internal/cache"
	"caseboard/internal/models"

	"gorm.io/gorm"
)

// CommentRepository defines interface for comment operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	ListByPost(ctx context.Context, postID uint) ([]*models.Comment, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.Invalidate(ctx, cache.CommentsKey(comment.PostID))
	return nil
}

// ListByPost serves reads through the comments cache; Create invalidates the
// post's entry, so a list after a publish always reflects the new comment.
func (r *commentRepository) ListByPost(ctx context.Context, postID uint) ([]*models.Comment, error) {
	var comments []*models.Comment

	err := cache.Aside(ctx, cache.CommentsKey(postID), &comments, cache.CommentsTTL, func() error {
		if err := r.db.WithContext(ctx).
			Where("post_id = ?", postID).
			Order("id ASC").
			Find(&comments).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return comments, nil
}
