package handlers

import (
	"net/http"

	"reviewhub/internal/middleware"
	"reviewhub/internal/services"
	"reviewhub/internal/utils"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	base
	reviews ReviewService
}

func NewReviewHandler(reviews ReviewService, devMode bool) *ReviewHandler {
	return &ReviewHandler{base: base{devMode: devMode}, reviews: reviews}
}

type createReviewRequest struct {
	Title    string `json:"title" binding:"required,max=255"`
	Content  string `json:"content" binding:"required"`
	Rating   *int   `json:"rating" binding:"required"`
	Category string `json:"category" binding:"required"`
}

type updateReviewRequest struct {
	Title    *string `json:"title" binding:"omitempty,max=255"`
	Content  *string `json:"content"`
	Rating   *int    `json:"rating"`
	Category *string `json:"category"`
}

type createCommentRequest struct {
	Content         string `json:"content" binding:"required"`
	ParentCommentID *uint  `json:"parentCommentId"`
}

func (h *ReviewHandler) List(c *gin.Context) {
	limit, err := utils.ParseOptionalInt(c.Query("limit"))
	if err != nil {
		badRequest(c, "limit must be a non-negative integer")
		return
	}
	offset, err := utils.ParseOptionalInt(c.Query("offset"))
	if err != nil {
		badRequest(c, "offset must be a non-negative integer")
		return
	}

	reviews, err := h.reviews.List(c.Request.Context(), services.ListParams{
		Category: c.Query("category"),
		SortBy:   c.Query("sortBy"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, reviews)
}

func (h *ReviewHandler) Search(c *gin.Context) {
	reviews, err := h.reviews.Search(c.Request.Context(), services.SearchParams{
		Query:    c.Query("query"),
		Category: c.Query("category"),
		SortBy:   c.Query("sortBy"),
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, reviews)
}

// Detail serves anonymous and signed-in readers alike; signed-in readers
// also see their own vote on each comment.
func (h *ReviewHandler) Detail(c *gin.Context) {
	id, ok := pathID(c, "id", "review")
	if !ok {
		return
	}

	var viewerID uint
	if identity, ok := middleware.CurrentIdentity(c); ok {
		viewerID = identity.UserID
	}

	review, err := h.reviews.Get(c.Request.Context(), id, viewerID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, review)
}

func (h *ReviewHandler) Create(c *gin.Context) {
	var req createReviewRequest
	if !bindJSON(c, &req) {
		return
	}

	review, err := h.reviews.Create(c.Request.Context(), currentUserID(c), services.CreateReviewInput{
		Title:    req.Title,
		Content:  req.Content,
		Rating:   *req.Rating,
		Category: req.Category,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Review created successfully",
		"review":  review,
	})
}

func (h *ReviewHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id", "review")
	if !ok {
		return
	}
	var req updateReviewRequest
	if !bindJSON(c, &req) {
		return
	}

	review, err := h.reviews.Update(c.Request.Context(), id, currentUserID(c), services.UpdateReviewInput{
		Title:    req.Title,
		Content:  req.Content,
		Rating:   req.Rating,
		Category: req.Category,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Review updated successfully",
		"review":  review,
	})
}

func (h *ReviewHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id", "review")
	if !ok {
		return
	}

	if err := h.reviews.Delete(c.Request.Context(), id, currentUserID(c)); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Review deleted successfully"})
}

func (h *ReviewHandler) CreateComment(c *gin.Context) {
	reviewID, ok := pathID(c, "id", "review")
	if !ok {
		return
	}
	var req createCommentRequest
	if !bindJSON(c, &req) {
		return
	}

	comment, err := h.reviews.AddComment(c.Request.Context(), reviewID, currentUserID(c), services.AddCommentInput{
		Content:         req.Content,
		ParentCommentID: req.ParentCommentID,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Comment added successfully",
		"comment": comment,
	})
}
