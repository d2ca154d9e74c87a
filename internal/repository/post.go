package repository

import (
	"context"
	"errors"
	"time"

	"caseboard/internal/cache"
	"caseboard/internal/models"

	"gorm.io/gorm"
)

// PostRepository defines the interface for case post data operations.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	List(ctx context.Context) ([]*models.Post, error)
	Exists(ctx context.Context, id uint) (bool, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// postRecord is the cache representation of a post. models.Post excludes the
// image blob from its JSON shape, so caching the model directly would serve
// empty images on a warm cache; this record keeps every column.
type postRecord struct {
	ID          uint      `json:"id"`
	AuthorID    uint      `json:"author_id"`
	AuthorName  string    `json:"author_name"`
	Description string    `json:"description"`
	Image       []byte    `json:"image"`
	CreatedAt   time.Time `json:"created_at"`
}

func toRecord(p *models.Post) postRecord {
	return postRecord{
		ID:          p.ID,
		AuthorID:    p.AuthorID,
		AuthorName:  p.AuthorName,
		Description: p.Description,
		Image:       p.Image,
		CreatedAt:   p.CreatedAt,
	}
}

func (rec postRecord) toModel() *models.Post {
	return &models.Post{
		ID:          rec.ID,
		AuthorID:    rec.AuthorID,
		AuthorName:  rec.AuthorName,
		Description: rec.Description,
		Image:       rec.Image,
		CreatedAt:   rec.CreatedAt,
	}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateFeed(ctx)
	return nil
}

// GetByID serves reads through the post cache. Posts are immutable once
// published, so cached entries never need invalidation and can back the
// image endpoint safely.
func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var rec postRecord

	err := cache.Aside(ctx, cache.PostKey(id), &rec, cache.PostTTL, func() error {
		var post models.Post
		if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Post", id)
			}
			return models.NewInternalError(err)
		}
		rec = toRecord(&post)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rec.toModel(), nil
}

// List returns every post in publication order, oldest first. Rows carry the
// full image payload; callers that serve JSON should rely on the model
// omitting the blob. The feed is cached under FeedKey and invalidated on
// every publish, so listing after a create always reflects the new row.
func (r *postRepository) List(ctx context.Context) ([]*models.Post, error) {
	var recs []postRecord

	err := cache.Aside(ctx, cache.FeedKey, &recs, cache.FeedTTL, func() error {
		var posts []*models.Post
		if err := r.db.WithContext(ctx).Order("id ASC").Find(&posts).Error; err != nil {
			return models.NewInternalError(err)
		}
		recs = make([]postRecord, len(posts))
		for i, p := range posts {
			recs[i] = toRecord(p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	posts := make([]*models.Post, len(recs))
	for i := range recs {
		posts[i] = recs[i].toModel()
	}
	return posts, nil
}

func (r *postRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}
