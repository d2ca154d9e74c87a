// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"fmt"
	"io"
	"time"

	"caseboard/internal/middleware"
	"caseboard/internal/models"
	"caseboard/internal/service"

	"github.com/gofiber/fiber/v2"
)

// imageURL builds the public URL under which a post's image is served.
func imageURL(postID uint) string {
	return fmt.Sprintf("/api/posts/%d/image", postID)
}

// CreatePost handles POST /api/posts. The request is a multipart form with a
// "description" field and an "image" file part.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	ctx := c.UserContext()

	userID, username, err := s.identityFromLocals(c)
	if err != nil {
		return respondServiceError(c, err)
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("An image file is required"))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Could not read uploaded image"))
	}
	defer func() { _ = file.Close() }()

	imageBytes, err := io.ReadAll(file)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Could not read uploaded image"))
	}

	post, err := s.postService.PublishPost(ctx, service.PublishPostInput{
		AuthorID:    userID,
		AuthorName:  username,
		Description: c.FormValue("description"),
		Image:       imageBytes,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	middleware.PostsPublished.Inc()
	post.ImageURL = imageURL(post.ID)

	s.publishBroadcastEvent(EventCasePublished, map[string]interface{}{
		"post_id":     post.ID,
		"author_id":   post.AuthorID,
		"author_name": post.AuthorName,
		"created_at":  time.Now().UTC().Format(time.RFC3339Nano),
	})

	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetPosts handles GET /api/posts. Posts are returned oldest first; the image
// blob stays out of the JSON and is reachable through image_url.
func (s *Server) GetPosts(c *fiber.Ctx) error {
	posts, err := s.postService.ListPosts(c.UserContext())
	if err != nil {
		return respondServiceError(c, err)
	}

	for _, p := range posts {
		p.ImageURL = imageURL(p.ID)
	}

	return c.JSON(posts)
}

// GetPostImage handles GET /api/posts/:id/image and serves the stored image
// bytes unmodified with a sniffed content type.
func (s *Server) GetPostImage(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	data, contentType, err := s.postService.GetPostImage(c.UserContext(), postID)
	if err != nil {
		return respondServiceError(c, err)
	}

	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderCacheControl, "public, max-age=86400, immutable")
	return c.Send(data)
}
