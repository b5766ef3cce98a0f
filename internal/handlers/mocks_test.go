package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"reviewhub/internal/middleware"
	"reviewhub/internal/models"
	"reviewhub/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type mockReviewService struct {
	mock.Mock
}

func (m *mockReviewService) List(ctx context.Context, p services.ListParams) ([]models.ReviewSummary, error) {
	args := m.Called(ctx, p)
	reviews, _ := args.Get(0).([]models.ReviewSummary)
	return reviews, args.Error(1)
}

func (m *mockReviewService) Search(ctx context.Context, p services.SearchParams) ([]models.ReviewSummary, error) {
	args := m.Called(ctx, p)
	reviews, _ := args.Get(0).([]models.ReviewSummary)
	return reviews, args.Error(1)
}

func (m *mockReviewService) Get(ctx context.Context, id, viewerID uint) (*models.ReviewDetail, error) {
	args := m.Called(ctx, id, viewerID)
	review, _ := args.Get(0).(*models.ReviewDetail)
	return review, args.Error(1)
}

func (m *mockReviewService) Categories(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)
	categories, _ := args.Get(0).([]models.Category)
	return categories, args.Error(1)
}

func (m *mockReviewService) Create(ctx context.Context, userID uint, in services.CreateReviewInput) (*models.ReviewSummary, error) {
	args := m.Called(ctx, userID, in)
	review, _ := args.Get(0).(*models.ReviewSummary)
	return review, args.Error(1)
}

func (m *mockReviewService) Update(ctx context.Context, id, userID uint, in services.UpdateReviewInput) (*models.ReviewSummary, error) {
	args := m.Called(ctx, id, userID, in)
	review, _ := args.Get(0).(*models.ReviewSummary)
	return review, args.Error(1)
}

func (m *mockReviewService) Delete(ctx context.Context, id, userID uint) error {
	return m.Called(ctx, id, userID).Error(0)
}

func (m *mockReviewService) AddComment(ctx context.Context, reviewID, userID uint, in services.AddCommentInput) (*models.Comment, error) {
	args := m.Called(ctx, reviewID, userID, in)
	comment, _ := args.Get(0).(*models.Comment)
	return comment, args.Error(1)
}

func (m *mockReviewService) VoteOnComment(ctx context.Context, reviewID, commentID, userID uint, voteType models.VoteType) (services.VoteResult, error) {
	args := m.Called(ctx, reviewID, commentID, userID, voteType)
	return args.Get(0).(services.VoteResult), args.Error(1)
}

type mockUserService struct {
	mock.Mock
}

func (m *mockUserService) Register(ctx context.Context, in services.RegisterInput) (*services.AuthResult, error) {
	args := m.Called(ctx, in)
	res, _ := args.Get(0).(*services.AuthResult)
	return res, args.Error(1)
}

func (m *mockUserService) Login(ctx context.Context, in services.LoginInput) (*services.AuthResult, error) {
	args := m.Called(ctx, in)
	res, _ := args.Get(0).(*services.AuthResult)
	return res, args.Error(1)
}

func (m *mockUserService) Profile(ctx context.Context, userID uint) (*models.UserProfile, error) {
	args := m.Called(ctx, userID)
	profile, _ := args.Get(0).(*models.UserProfile)
	return profile, args.Error(1)
}

func (m *mockUserService) UpdateProfile(ctx context.Context, userID uint, in services.UpdateProfileInput) (*models.User, error) {
	args := m.Called(ctx, userID, in)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *mockUserService) ChangePassword(ctx context.Context, userID uint, in services.ChangePasswordInput) error {
	return m.Called(ctx, userID, in).Error(0)
}

func (m *mockUserService) Reviews(ctx context.Context, userID uint, limit, offset int) ([]models.UserReview, error) {
	args := m.Called(ctx, userID, limit, offset)
	reviews, _ := args.Get(0).([]models.UserReview)
	return reviews, args.Error(1)
}

func (m *mockUserService) Comments(ctx context.Context, userID uint, limit, offset int) ([]models.UserComment, error) {
	args := m.Called(ctx, userID, limit, offset)
	comments, _ := args.Get(0).([]models.UserComment)
	return comments, args.Error(1)
}

// asUser stands in for the bearer middleware.
func asUser(id uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		middleware.WithIdentity(c, middleware.Identity{UserID: id, Email: "user@example.com"})
		c.Next()
	}
}

func doRequest(t *testing.T, r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
