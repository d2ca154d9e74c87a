// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"time"

	"caseboard/internal/middleware"
	"caseboard/internal/models"
	"caseboard/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateComment creates a comment on a post (protected)
func (s *Server) CreateComment(c *fiber.Ctx) error {
	ctx := c.UserContext()

	userID, username, err := s.identityFromLocals(c)
	if err != nil {
		return respondServiceError(c, err)
	}

	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Content string `json:"content"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid request body"))
	}

	created, err := s.commentService.CreateComment(ctx, service.CreateCommentInput{
		AuthorID:   userID,
		AuthorName: username,
		PostID:     postID,
		Content:    req.Content,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	middleware.CommentsPublished.Inc()

	s.publishBroadcastEvent(EventCommentPublished, map[string]interface{}{
		"post_id":    postID,
		"comment":    created,
		"created_at": time.Now().UTC().Format(time.RFC3339Nano),
	})

	return c.Status(fiber.StatusCreated).JSON(created)
}

// GetComments returns all comments for a post in submission order (public)
func (s *Server) GetComments(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	comments, err := s.commentService.ListComments(c.UserContext(), postID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(comments)
}
