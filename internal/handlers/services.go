package handlers

import (
	"context"

	"reviewhub/internal/models"
	"reviewhub/internal/services"
)

type ReviewService interface {
	List(ctx context.Context, p services.ListParams) ([]models.ReviewSummary, error)
	Search(ctx context.Context, p services.SearchParams) ([]models.ReviewSummary, error)
	Get(ctx context.Context, id, viewerID uint) (*models.ReviewDetail, error)
	Categories(ctx context.Context) ([]models.Category, error)
	Create(ctx context.Context, userID uint, in services.CreateReviewInput) (*models.ReviewSummary, error)
	Update(ctx context.Context, id, userID uint, in services.UpdateReviewInput) (*models.ReviewSummary, error)
	Delete(ctx context.Context, id, userID uint) error
	AddComment(ctx context.Context, reviewID, userID uint, in services.AddCommentInput) (*models.Comment, error)
	VoteOnComment(ctx context.Context, reviewID, commentID, userID uint, voteType models.VoteType) (services.VoteResult, error)
}

type UserService interface {
	Register(ctx context.Context, in services.RegisterInput) (*services.AuthResult, error)
	Login(ctx context.Context, in services.LoginInput) (*services.AuthResult, error)
	Profile(ctx context.Context, userID uint) (*models.UserProfile, error)
	UpdateProfile(ctx context.Context, userID uint, in services.UpdateProfileInput) (*models.User, error)
	ChangePassword(ctx context.Context, userID uint, in services.ChangePasswordInput) error
	Reviews(ctx context.Context, userID uint, limit, offset int) ([]models.UserReview, error)
	Comments(ctx context.Context, userID uint, limit, offset int) ([]models.UserComment, error)
}
