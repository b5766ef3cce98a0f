package services

import (
	"context"
	"strings"
	"time"

	"reviewhub/internal/logging"
	"reviewhub/internal/models"
	"reviewhub/internal/utils"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	SortNewest     = "newest"
	SortRatingHigh = "rating-high"
	SortRatingLow  = "rating-low"

	// MaxPageSize caps the limit accepted by the list endpoints.
	MaxPageSize = 100

	categoryCacheSize = 64
	categoryCacheTTL  = 10 * time.Minute
)

type ListParams struct {
	Category string
	SortBy   string
	Limit    *int
	Offset   *int
}

type SearchParams struct {
	Query    string
	Category string
	SortBy   string
}

type CreateReviewInput struct {
	Title    string
	Content  string
	Rating   int
	Category string
}

// UpdateReviewInput holds the fields a caller wants changed. Nil means untouched.
type UpdateReviewInput struct {
	Title    *string
	Content  *string
	Rating   *int
	Category *string
}

type AddCommentInput struct {
	Content         string
	ParentCommentID *uint
}

type VoteResult int

const (
	VoteAdded VoteResult = iota + 1
	VoteChanged
	VoteRemoved
)

func (r VoteResult) Message() string {
	switch r {
	case VoteAdded:
		return "Vote added"
	case VoteChanged:
		return "Vote updated"
	case VoteRemoved:
		return "Vote removed"
	}
	return ""
}

type ReviewService struct {
	db         *gorm.DB
	categories *utils.Cache[string, uint]
}

func NewReviewService(db *gorm.DB) (*ReviewService, error) {
	cache, err := utils.NewCache[string, uint](categoryCacheSize, categoryCacheTTL)
	if err != nil {
		return nil, errors.Wrap(err, "category cache")
	}
	return &ReviewService{db: db, categories: cache}, nil
}

func summaryQuery(tx *gorm.DB) *gorm.DB {
	return tx.Table("reviews AS r").
		Select("r.id, r.title, r.content, r.rating, r.created_at, u.name AS author, c.name AS category").
		Joins("JOIN users u ON u.id = r.user_id").
		Joins("JOIN categories c ON c.id = r.category_id")
}

// orderBy maps a sort key to its ORDER BY clause. Unknown keys sort newest first.
func orderBy(sortBy string) string {
	switch sortBy {
	case SortRatingHigh:
		return "r.rating DESC, r.created_at DESC"
	case SortRatingLow:
		return "r.rating ASC, r.created_at DESC"
	default:
		return "r.created_at DESC"
	}
}

func filterCategory(tx *gorm.DB, category string) *gorm.DB {
	category = strings.TrimSpace(category)
	if category == "" || category == "all" {
		return tx
	}
	return tx.Where("c.name = ?", strings.ToLower(category))
}

func (s *ReviewService) List(ctx context.Context, p ListParams) ([]models.ReviewSummary, error) {
	if (p.Limit != nil && *p.Limit < 0) || (p.Offset != nil && *p.Offset < 0) {
		return nil, BadRequest("limit and offset must be non-negative integers")
	}

	q := filterCategory(summaryQuery(s.db.WithContext(ctx)), p.Category).Order(orderBy(p.SortBy))
	if p.Limit != nil && *p.Limit > 0 {
		q = q.Limit(min(*p.Limit, MaxPageSize))
		if p.Offset != nil {
			q = q.Offset(*p.Offset)
		}
	}

	reviews := []models.ReviewSummary{}
	if err := q.Scan(&reviews).Error; err != nil {
		return nil, Internal(err, "Server error fetching reviews")
	}
	return reviews, nil
}

// escapeLike makes user input match literally inside a LIKE pattern.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (s *ReviewService) Search(ctx context.Context, p SearchParams) ([]models.ReviewSummary, error) {
	query := strings.TrimSpace(p.Query)
	if query == "" {
		return nil, ErrSearchQuery
	}

	pattern := "%" + escapeLike(query) + "%"
	q := summaryQuery(s.db.WithContext(ctx)).
		Where("(r.title ILIKE ? OR r.content ILIKE ?)", pattern, pattern)
	q = filterCategory(q, p.Category).Order(orderBy(p.SortBy))

	reviews := []models.ReviewSummary{}
	if err := q.Scan(&reviews).Error; err != nil {
		return nil, Internal(err, "Server error searching reviews")
	}
	return reviews, nil
}

func (s *ReviewService) summary(tx *gorm.DB, id uint) (*models.ReviewSummary, error) {
	var review models.ReviewSummary
	res := summaryQuery(tx).Where("r.id = ?", id).Limit(1).Scan(&review)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrReviewNotFound
	}
	return &review, nil
}

// Get returns a review with its comments, newest first. A non-zero viewerID
// adds the viewer's own vote to each comment.
func (s *ReviewService) Get(ctx context.Context, id, viewerID uint) (*models.ReviewDetail, error) {
	tx := s.db.WithContext(ctx)

	summary, err := s.summary(tx, id)
	if err != nil {
		return nil, passThrough(err, "Server error fetching review")
	}

	fields := "c.id, c.content, c.created_at, c.parent_comment_id, u.name AS author, " +
		"COALESCE(cv.upvotes, 0) AS upvotes, COALESCE(cv.downvotes, 0) AS downvotes"
	q := tx.Table("comments AS c").
		Joins("JOIN users u ON u.id = c.user_id").
		Joins(`LEFT JOIN (
			SELECT comment_id,
				SUM(CASE WHEN vote_type = 'up' THEN 1 ELSE 0 END) AS upvotes,
				SUM(CASE WHEN vote_type = 'down' THEN 1 ELSE 0 END) AS downvotes
			FROM comment_votes
			GROUP BY comment_id
		) cv ON cv.comment_id = c.id`)
	if viewerID != 0 {
		fields += ", mv.vote_type AS user_vote"
		q = q.Joins("LEFT JOIN comment_votes mv ON mv.comment_id = c.id AND mv.user_id = ?", viewerID)
	}

	comments := []models.CommentView{}
	err = q.Select(fields).
		Where("c.review_id = ?", id).
		Order("c.created_at DESC, c.id DESC").
		Scan(&comments).Error
	if err != nil {
		return nil, Internal(err, "Server error fetching review")
	}

	return &models.ReviewDetail{
		ReviewSummary: *summary,
		ContentHTML:   utils.RenderMarkdown(summary.Content),
		Comments:      comments,
	}, nil
}

func (s *ReviewService) Categories(ctx context.Context) ([]models.Category, error) {
	categories := []models.Category{}
	if err := s.db.WithContext(ctx).Select("id", "name").Order("name").Find(&categories).Error; err != nil {
		return nil, Internal(err, "Server error fetching categories")
	}
	return categories, nil
}

// categoryID resolves a category name. Categories are a fixed set, so hits are cached.
func (s *ReviewService) categoryID(tx *gorm.DB, name string) (uint, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return 0, ErrInvalidCategory
	}
	if id, ok := s.categories.Get(name); ok {
		return id, nil
	}

	var category models.Category
	err := tx.Select("id").Where("name = ?", name).Take(&category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, ErrInvalidCategory
	}
	if err != nil {
		return 0, err
	}
	s.categories.Set(name, category.ID)
	return category.ID, nil
}

func validRating(r int) bool {
	return r >= models.MinRating && r <= models.MaxRating
}

func (s *ReviewService) Create(ctx context.Context, userID uint, in CreateReviewInput) (*models.ReviewSummary, error) {
	title := strings.TrimSpace(in.Title)
	content := strings.TrimSpace(in.Content)
	if title == "" || content == "" {
		return nil, BadRequest("Title and content are required")
	}
	if !validRating(in.Rating) {
		return nil, ErrInvalidRating
	}

	tx := s.db.WithContext(ctx)
	categoryID, err := s.categoryID(tx, in.Category)
	if err != nil {
		return nil, passThrough(err, "Server error creating review")
	}

	review := models.Review{
		Title:      title,
		Content:    content,
		Rating:     in.Rating,
		UserID:     userID,
		CategoryID: categoryID,
	}
	if err := tx.Omit(clause.Associations).Create(&review).Error; err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, ErrUserNotFound
		}
		return nil, Internal(err, "Server error creating review")
	}

	logging.Ctx(ctx).Info().Uint("review_id", review.ID).Uint("user_id", userID).Msg("review created")

	summary, err := s.summary(tx, review.ID)
	if err != nil {
		return nil, passThrough(err, "Server error creating review")
	}
	return summary, nil
}

// lockOwned locks the review row and checks that userID wrote it.
func lockOwned(tx *gorm.DB, id, userID uint, action string) error {
	var review models.Review
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id", "user_id").
		Where("id = ?", id).
		Take(&review).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrReviewNotFound
	}
	if err != nil {
		return err
	}
	if review.UserID != userID {
		return Forbidden("Not authorized to " + action + " this review")
	}
	return nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

func (s *ReviewService) Update(ctx context.Context, id, userID uint, in UpdateReviewInput) (*models.ReviewSummary, error) {
	if in.Rating != nil && !validRating(*in.Rating) {
		return nil, ErrInvalidRating
	}
	title, content, category := trimmed(in.Title), trimmed(in.Content), trimmed(in.Category)
	if title == nil && content == nil && category == nil && in.Rating == nil {
		return nil, ErrNoFieldsToUpdate
	}

	var updated *models.ReviewSummary
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockOwned(tx, id, userID, "update"); err != nil {
			return err
		}

		cs := newChangeSet(reviewColumns...)
		if title != nil {
			if err := cs.set("title", *title); err != nil {
				return err
			}
		}
		if content != nil {
			if err := cs.set("content", *content); err != nil {
				return err
			}
		}
		if in.Rating != nil {
			if err := cs.set("rating", *in.Rating); err != nil {
				return err
			}
		}
		if category != nil {
			categoryID, err := s.categoryID(tx, *category)
			if err != nil {
				return err
			}
			if err := cs.set("category_id", categoryID); err != nil {
				return err
			}
		}

		if err := tx.Model(&models.Review{}).Where("id = ?", id).Updates(cs.assignments()).Error; err != nil {
			return err
		}

		var err error
		updated, err = s.summary(tx, id)
		return err
	})
	if err != nil {
		return nil, passThrough(err, "Server error updating review")
	}
	return updated, nil
}

func (s *ReviewService) Delete(ctx context.Context, id, userID uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockOwned(tx, id, userID, "delete"); err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.Review{}).Error
	})
	if err != nil {
		return passThrough(err, "Server error deleting review")
	}
	logging.Ctx(ctx).Info().Uint("review_id", id).Uint("user_id", userID).Msg("review deleted")
	return nil
}

func (s *ReviewService) AddComment(ctx context.Context, reviewID, userID uint, in AddCommentInput) (*models.Comment, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, BadRequest("Comment content is required")
	}
	parentID := in.ParentCommentID
	if parentID != nil && *parentID == 0 {
		parentID = nil
	}

	comment := models.Comment{
		Content:         content,
		UserID:          userID,
		ReviewID:        reviewID,
		ParentCommentID: parentID,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Share lock keeps the review from being deleted before the insert lands.
		var review models.Review
		err := tx.Clauses(clause.Locking{Strength: "SHARE"}).
			Select("id").
			Where("id = ?", reviewID).
			Take(&review).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReviewNotFound
		}
		if err != nil {
			return err
		}

		if parentID != nil {
			var parent models.Comment
			err := tx.Select("id").Where("id = ? AND review_id = ?", *parentID, reviewID).Take(&parent).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvalidParent
			}
			if err != nil {
				return err
			}
		}

		return tx.Omit(clause.Associations).Create(&comment).Error
	})
	if err != nil {
		return nil, passThrough(err, "Server error adding comment")
	}
	return &comment, nil
}

// VoteOnComment applies the toggle rule: a first vote is stored, the opposite
// direction replaces it, and repeating the same direction removes it.
func (s *ReviewService) VoteOnComment(ctx context.Context, reviewID, commentID, userID uint, voteType models.VoteType) (VoteResult, error) {
	if !voteType.Valid() {
		return 0, ErrInvalidVoteType
	}

	var result VoteResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Votes on one comment are serialised on the comment row.
		var comment models.Comment
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			Where("id = ? AND review_id = ?", commentID, reviewID).
			Take(&comment).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		if err != nil {
			return err
		}

		var vote models.CommentVote
		err = tx.Where("user_id = ? AND comment_id = ?", userID, commentID).Take(&vote).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			vote = models.CommentVote{UserID: userID, CommentID: commentID, VoteType: voteType}
			if err := tx.Omit(clause.Associations).Create(&vote).Error; err != nil {
				return err
			}
			result = VoteAdded
		case err != nil:
			return err
		case vote.VoteType == voteType:
			if err := tx.Delete(&vote).Error; err != nil {
				return err
			}
			result = VoteRemoved
		default:
			if err := tx.Model(&vote).Update("vote_type", voteType).Error; err != nil {
				return err
			}
			result = VoteChanged
		}
		return nil
	})
	if err != nil {
		return 0, passThrough(err, "Server error voting on comment")
	}
	return result, nil
}

// passThrough keeps client-facing errors and wraps everything else as internal.
func passThrough(err error, msg string) error {
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return Internal(err, msg)
}
