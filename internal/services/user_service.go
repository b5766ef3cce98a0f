package services

import (
	"context"
	"strings"
	"sync"

	"reviewhub/internal/logging"
	"reviewhub/internal/models"
	"reviewhub/internal/utils"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	MinPasswordLength = 6
	DefaultPageSize   = 10
)

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Bio      *string
}

type LoginInput struct {
	Email    string
	Password string
}

// UpdateProfileInput holds the profile fields to change. Nil means untouched.
type UpdateProfileInput struct {
	Name  *string
	Email *string
	Bio   *string
}

type ChangePasswordInput struct {
	CurrentPassword string
	NewPassword     string
}

type AuthResult struct {
	Token string
	User  *models.User
}

type UserService struct {
	db     *gorm.DB
	tokens *TokenService
}

func NewUserService(db *gorm.DB, tokens *TokenService) *UserService {
	return &UserService{db: db, tokens: tokens}
}

// dummyHash is compared against when a login email is unknown so both
// failure paths cost one bcrypt comparison.
var dummyHash = sync.OnceValue(func() string {
	h, _ := utils.HashPassword("reviewhub-login-placeholder")
	return h
})

func checkPasswordLength(password string) error {
	switch {
	case len(password) < MinPasswordLength:
		return ErrPasswordTooShort
	case len(password) > utils.MaxPasswordBytes:
		return ErrPasswordTooLong
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	name := strings.TrimSpace(in.Name)
	email := normalizeEmail(in.Email)
	if name == "" || email == "" {
		return nil, BadRequest("Name, email and password are required")
	}
	if err := checkPasswordLength(in.Password); err != nil {
		return nil, err
	}

	tx := s.db.WithContext(ctx)
	var existing int64
	if err := tx.Model(&models.User{}).Where("email = ?", email).Count(&existing).Error; err != nil {
		return nil, Internal(err, "Server error during registration")
	}
	if existing > 0 {
		return nil, ErrUserExists
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, Internal(err, "Server error during registration")
	}

	user := models.User{Name: name, Email: email, PasswordHash: hash}
	if bio := trimmed(in.Bio); bio != nil {
		user.Bio = bio
	}
	if err := tx.Omit(clause.Associations).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUserExists
		}
		return nil, Internal(err, "Server error during registration")
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, Internal(err, "Server error during registration")
	}
	logging.Ctx(ctx).Info().Uint("user_id", user.ID).Msg("user registered")
	return &AuthResult{Token: token, User: &user}, nil
}

func (s *UserService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, ErrInvalidCredentials
	}

	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.CheckPasswordHash(in.Password, dummyHash())
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, Internal(err, "Server error during login")
	}
	if !utils.CheckPasswordHash(in.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, Internal(err, "Server error during login")
	}
	return &AuthResult{Token: token, User: &user}, nil
}

func (s *UserService) Profile(ctx context.Context, userID uint) (*models.UserProfile, error) {
	var profile models.UserProfile
	res := s.db.WithContext(ctx).Model(&models.User{}).
		Select(`users.id, users.name, users.email, users.bio, users.created_at,
			(SELECT COUNT(*) FROM reviews WHERE reviews.user_id = users.id) AS reviews_count,
			(SELECT COUNT(*) FROM comments WHERE comments.user_id = users.id) AS comments_count`).
		Where("users.id = ?", userID).
		Limit(1).
		Scan(&profile)
	if res.Error != nil {
		return nil, Internal(res.Error, "Server error fetching profile")
	}
	if res.RowsAffected == 0 {
		return nil, ErrUserNotFound
	}
	return &profile, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID uint, in UpdateProfileInput) (*models.User, error) {
	name := trimmed(in.Name)
	var email *string
	if in.Email != nil {
		if e := normalizeEmail(*in.Email); e != "" {
			email = &e
		}
	}

	cs := newChangeSet(profileColumns...)
	if name != nil {
		if err := cs.set("name", *name); err != nil {
			return nil, Internal(err, "Server error updating profile")
		}
	}
	if email != nil {
		if err := cs.set("email", *email); err != nil {
			return nil, Internal(err, "Server error updating profile")
		}
	}
	if in.Bio != nil {
		if err := cs.set("bio", strings.TrimSpace(*in.Bio)); err != nil {
			return nil, Internal(err, "Server error updating profile")
		}
	}
	if cs.empty() {
		return nil, ErrNoFieldsToUpdate
	}

	var user models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if email != nil {
			var taken int64
			err := tx.Model(&models.User{}).Where("email = ? AND id <> ?", *email, userID).Count(&taken).Error
			if err != nil {
				return err
			}
			if taken > 0 {
				return ErrEmailTaken
			}
		}

		res := tx.Model(&models.User{}).Where("id = ?", userID).Updates(cs.assignments())
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return ErrEmailTaken
		}
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrUserNotFound
		}
		return tx.Where("id = ?", userID).Take(&user).Error
	})
	if err != nil {
		return nil, passThrough(err, "Server error updating profile")
	}
	return &user, nil
}

func (s *UserService) ChangePassword(ctx context.Context, userID uint, in ChangePasswordInput) error {
	if in.CurrentPassword == "" {
		return BadRequest("Current password is required")
	}
	if err := checkPasswordLength(in.NewPassword); err != nil {
		return err
	}

	tx := s.db.WithContext(ctx)
	var user models.User
	err := tx.Select("id", "password_hash").Where("id = ?", userID).Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return Internal(err, "Server error changing password")
	}
	if !utils.CheckPasswordHash(in.CurrentPassword, user.PasswordHash) {
		return ErrWrongPassword
	}

	hash, err := utils.HashPassword(in.NewPassword)
	if err != nil {
		return Internal(err, "Server error changing password")
	}
	if err := tx.Model(&user).Update("password_hash", hash).Error; err != nil {
		return Internal(err, "Server error changing password")
	}
	logging.Ctx(ctx).Info().Uint("user_id", userID).Msg("password changed")
	return nil
}

func page(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return min(limit, MaxPageSize), offset
}

func (s *UserService) Reviews(ctx context.Context, userID uint, limit, offset int) ([]models.UserReview, error) {
	limit, offset = page(limit, offset)

	reviews := []models.UserReview{}
	err := s.db.WithContext(ctx).Table("reviews AS r").
		Select("r.id, r.title, r.content, r.rating, r.created_at, c.name AS category").
		Joins("JOIN categories c ON c.id = r.category_id").
		Where("r.user_id = ?", userID).
		Order("r.created_at DESC").
		Limit(limit).
		Offset(offset).
		Scan(&reviews).Error
	if err != nil {
		return nil, Internal(err, "Server error fetching user reviews")
	}
	return reviews, nil
}

func (s *UserService) Comments(ctx context.Context, userID uint, limit, offset int) ([]models.UserComment, error) {
	limit, offset = page(limit, offset)

	comments := []models.UserComment{}
	err := s.db.WithContext(ctx).Table("comments AS c").
		Select("c.id, c.content, c.created_at, r.title AS review_title, r.id AS review_id").
		Joins("JOIN reviews r ON r.id = c.review_id").
		Where("c.user_id = ?", userID).
		Order("c.created_at DESC").
		Limit(limit).
		Offset(offset).
		Scan(&comments).Error
	if err != nil {
		return nil, Internal(err, "Server error fetching user comments")
	}
	return comments, nil
}
