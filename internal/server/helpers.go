// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"errors"

	"caseboard/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper.  Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid ID"))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// respondServiceError maps an AppError code to its HTTP status and writes the
// JSON error response.
func respondServiceError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case models.CodeValidation:
			status = fiber.StatusBadRequest
		case models.CodeNotFound:
			status = fiber.StatusNotFound
		case models.CodeConflict:
			status = fiber.StatusConflict
		case models.CodeAuthFailed, models.CodeNotAuthenticated:
			status = fiber.StatusUnauthorized
		}
	}
	return models.RespondWithError(c, status, err)
}

// identityFromLocals returns the authenticated user's ID and username as set
// by AuthRequired. The username falls back to a repository lookup for tokens
// minted before the username claim existed.
func (s *Server) identityFromLocals(c *fiber.Ctx) (uint, string, error) {
	userID := c.Locals("userID").(uint)

	if username, ok := c.Locals("username").(string); ok && username != "" {
		return userID, username, nil
	}

	user, err := s.userRepo.GetByID(c.UserContext(), userID)
	if err != nil {
		return 0, "", err
	}
	return userID, user.Username, nil
}
