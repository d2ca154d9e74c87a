package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"net/http"
	"strings"

	"caseboard/internal/models"
	"caseboard/internal/repository"

	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder

	_ "golang.org/x/image/webp" // Register WebP decoder
)

const maxDescriptionLen = 20000

type PostService struct {
	postRepo         repository.PostRepository
	maxImageSizeByte int64
}

type PublishPostInput struct {
	AuthorID    uint
	AuthorName  string
	Description string
	Image       []byte
}

func NewPostService(postRepo repository.PostRepository, maxImageSizeMB int) *PostService {
	if maxImageSizeMB <= 0 {
		maxImageSizeMB = 10
	}
	return &PostService{
		postRepo:         postRepo,
		maxImageSizeByte: int64(maxImageSizeMB) * 1024 * 1024,
	}
}

// PublishPost validates and stores a new case post. The image payload is
// decoded before it is accepted so a corrupt upload is rejected at write time
// instead of surfacing when someone views the feed.
func (s *PostService) PublishPost(ctx context.Context, in PublishPostInput) (*models.Post, error) {
	description := strings.TrimSpace(in.Description)
	if description == "" {
		return nil, models.NewValidationError("Case description is required")
	}
	if len(description) > maxDescriptionLen {
		return nil, models.NewValidationError(fmt.Sprintf("Case description too long (max %d characters)", maxDescriptionLen))
	}

	if len(in.Image) == 0 {
		return nil, models.NewValidationError("An image is required")
	}
	if int64(len(in.Image)) > s.maxImageSizeByte {
		return nil, models.NewValidationError(fmt.Sprintf("Image too large (max %dMB)", s.maxImageSizeByte/(1024*1024)))
	}

	detectedType := http.DetectContentType(in.Image)
	if !strings.HasPrefix(detectedType, "image/") {
		return nil, models.NewValidationError("Invalid image type")
	}
	if _, _, err := image.DecodeConfig(bytes.NewReader(in.Image)); err != nil {
		return nil, models.NewValidationError("Invalid image file")
	}

	post := &models.Post{
		AuthorID:    in.AuthorID,
		AuthorName:  in.AuthorName,
		Description: description,
		Image:       in.Image,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	return post, nil
}

// ListPosts returns every case post, oldest first.
func (s *PostService) ListPosts(ctx context.Context) ([]*models.Post, error) {
	return s.postRepo.List(ctx)
}

// GetPostImage returns the stored image bytes for a post together with the
// sniffed content type.
func (s *PostService) GetPostImage(ctx context.Context, postID uint) ([]byte, string, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, "", err
	}
	return post.Image, http.DetectContentType(post.Image), nil
}
