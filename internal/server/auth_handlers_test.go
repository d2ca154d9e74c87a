package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"caseboard/internal/config"
	"caseboard/internal/models"
	"caseboard/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// MockUserRepository is a mock of the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// MockPostRepository is a mock of the PostRepository interface
type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) Create(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostRepository) List(ctx context.Context) ([]*models.Post, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Post), args.Error(1)
}

func (m *MockPostRepository) Exists(ctx context.Context, id uint) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockCommentRepository is a mock of the CommentRepository interface
type MockCommentRepository struct {
	mock.Mock
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *MockCommentRepository) ListByPost(ctx context.Context, postID uint) ([]*models.Comment, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Comment), args.Error(1)
}

// newTestServer wires a Server around mock repositories with real services.
func newTestServer(userRepo *MockUserRepository, postRepo *MockPostRepository, commentRepo *MockCommentRepository) *Server {
	cfg := &config.Config{
		JWTSecret:      "test_secret",
		BcryptCost:     bcrypt.MinCost,
		ImageMaxSizeMB: 10,
	}
	s := &Server{
		config:      cfg,
		userRepo:    userRepo,
		postRepo:    postRepo,
		commentRepo: commentRepo,
	}
	s.authService = service.NewAuthService(userRepo, cfg.BcryptCost)
	s.postService = service.NewPostService(postRepo, cfg.ImageMaxSizeMB)
	s.commentService = service.NewCommentService(commentRepo, postRepo)
	return s
}

func TestRegister(t *testing.T) {
	tests := []struct {
		name           string
		body           map[string]string
		mockSetup      func(repo *MockUserRepository)
		expectedStatus int
	}{
		{
			name: "Success",
			body: map[string]string{
				"username": "drhouse",
				"password": "securepass12",
			},
			mockSetup: func(repo *MockUserRepository) {
				repo.On("Create", mock.Anything, mock.Anything).Return(nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "Duplicate Username",
			body: map[string]string{
				"username": "drhouse",
				"password": "securepass12",
			},
			mockSetup: func(repo *MockUserRepository) {
				repo.On("Create", mock.Anything, mock.Anything).
					Return(models.NewConflictError("Username already taken"))
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name: "Weak Password",
			body: map[string]string{
				"username": "drhouse",
				"password": "short",
			},
			mockSetup:      func(_ *MockUserRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "Missing Fields",
			body: map[string]string{
				"username": "drhouse",
			},
			mockSetup:      func(_ *MockUserRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			mockRepo := new(MockUserRepository)
			tt.mockSetup(mockRepo)

			s := newTestServer(mockRepo, new(MockPostRepository), new(MockCommentRepository))
			app.Post("/register", s.Register)

			body, _ := json.Marshal(tt.body)
			req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.expectedStatus == http.StatusCreated {
				var payload map[string]any
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
				// Registration never authenticates.
				assert.NotContains(t, payload, "token")
				user := payload["user"].(map[string]any)
				assert.Equal(t, "drhouse", user["username"])
				assert.NotContains(t, user, "password")
			}
		})
	}
}

func TestLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("securepass12"), bcrypt.MinCost)
	require.NoError(t, err)

	newApp := func() (*fiber.App, *MockUserRepository) {
		app := fiber.New()
		mockRepo := new(MockUserRepository)
		s := newTestServer(mockRepo, new(MockPostRepository), new(MockCommentRepository))
		app.Post("/login", s.Login)
		return app, mockRepo
	}

	t.Run("Success returns token and user", func(t *testing.T) {
		app, mockRepo := newApp()
		mockRepo.On("GetByUsername", mock.Anything, "drhouse").
			Return(&models.User{ID: 1, Username: "drhouse", Password: string(hash)}, nil)

		body, _ := json.Marshal(map[string]string{"username": "drhouse", "password": "securepass12"})
		req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var payload map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
		assert.NotEmpty(t, payload["token"])
		user := payload["user"].(map[string]any)
		assert.NotContains(t, user, "password")
	})

	t.Run("Wrong password", func(t *testing.T) {
		app, mockRepo := newApp()
		mockRepo.On("GetByUsername", mock.Anything, "drhouse").
			Return(&models.User{ID: 1, Username: "drhouse", Password: string(hash)}, nil)

		body, _ := json.Marshal(map[string]string{"username": "drhouse", "password": "wrongpass99"})
		req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("Unknown username", func(t *testing.T) {
		app, mockRepo := newApp()
		mockRepo.On("GetByUsername", mock.Anything, "nobody").Return(nil, nil)

		body, _ := json.Marshal(map[string]string{"username": "nobody", "password": "securepass12"})
		req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestAuthRequired(t *testing.T) {
	s := newTestServer(new(MockUserRepository), new(MockPostRepository), new(MockCommentRepository))

	app := fiber.New()
	app.Get("/protected", s.AuthRequired(), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"user_id": c.Locals("userID")})
	})

	t.Run("Missing token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("Garbage token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer not.a.token")
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("Valid token", func(t *testing.T) {
		token, err := s.generateToken(42, "drhouse")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var payload map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
		assert.Equal(t, float64(42), payload["user_id"])
	})

	t.Run("Token via query parameter", func(t *testing.T) {
		token, err := s.generateToken(42, "drhouse")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/protected?token="+token, nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("Token signed with another secret", func(t *testing.T) {
		other := newTestServer(new(MockUserRepository), new(MockPostRepository), new(MockCommentRepository))
		other.config.JWTSecret = "another_secret"
		token, err := other.generateToken(42, "drhouse")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}
