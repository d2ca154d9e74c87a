package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"caseboard/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreateComment(t *testing.T) {
	newApp := func(postRepo *MockPostRepository, commentRepo *MockCommentRepository) *fiber.App {
		app := fiber.New()
		s := newTestServer(new(MockUserRepository), postRepo, commentRepo)
		app.Post("/posts/:id/comments", withTestIdentity(2, "drwilson"), s.CreateComment)
		return app
	}

	postJSON := func(t *testing.T, app *fiber.App, url string, body map[string]string) *http.Response {
		t.Helper()
		raw, _ := json.Marshal(body)
		req := httptest.NewRequest(http.MethodPost, url, bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp
	}

	t.Run("Success", func(t *testing.T) {
		postRepo := new(MockPostRepository)
		postRepo.On("Exists", mock.Anything, uint(1)).Return(true, nil)

		commentRepo := new(MockCommentRepository)
		commentRepo.On("Create", mock.Anything, mock.MatchedBy(func(cm *models.Comment) bool {
			return cm.PostID == 1 && cm.AuthorID == 2 && cm.AuthorName == "drwilson"
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*models.Comment).ID = 11
		}).Return(nil)

		app := newApp(postRepo, commentRepo)
		resp := postJSON(t, app, "/posts/1/comments", map[string]string{"content": "Consider a hemiarthroplasty."})
		defer func() { _ = resp.Body.Close() }()
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var created models.Comment
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
		assert.Equal(t, uint(11), created.ID)
		assert.Equal(t, "drwilson", created.AuthorName)
		commentRepo.AssertExpectations(t)
	})

	t.Run("Empty content", func(t *testing.T) {
		postRepo := new(MockPostRepository)
		postRepo.On("Exists", mock.Anything, uint(1)).Return(true, nil)

		app := newApp(postRepo, new(MockCommentRepository))
		resp := postJSON(t, app, "/posts/1/comments", map[string]string{"content": "   "})
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("Unknown post", func(t *testing.T) {
		postRepo := new(MockPostRepository)
		postRepo.On("Exists", mock.Anything, uint(99)).Return(false, nil)

		app := newApp(postRepo, new(MockCommentRepository))
		resp := postJSON(t, app, "/posts/99/comments", map[string]string{"content": "hello"})
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("Invalid post ID", func(t *testing.T) {
		app := newApp(new(MockPostRepository), new(MockCommentRepository))
		resp := postJSON(t, app, "/posts/abc/comments", map[string]string{"content": "hello"})
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestGetComments(t *testing.T) {
	postRepo := new(MockPostRepository)
	postRepo.On("Exists", mock.Anything, uint(1)).Return(true, nil)
	postRepo.On("Exists", mock.Anything, uint(99)).Return(false, nil)

	commentRepo := new(MockCommentRepository)
	commentRepo.On("ListByPost", mock.Anything, uint(1)).Return([]*models.Comment{
		{ID: 1, PostID: 1, AuthorName: "drwilson", Content: "first"},
		{ID: 2, PostID: 1, AuthorName: "drhouse", Content: "second"},
	}, nil)

	app := fiber.New()
	s := newTestServer(new(MockUserRepository), postRepo, commentRepo)
	app.Get("/posts/:id/comments", s.GetComments)

	t.Run("Returns comments in order", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/posts/1/comments", nil))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var comments []models.Comment
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&comments))
		require.Len(t, comments, 2)
		assert.Equal(t, "first", comments[0].Content)
		assert.Equal(t, "second", comments[1].Content)
	})

	t.Run("Unknown post", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/posts/99/comments", nil))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
