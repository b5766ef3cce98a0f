package handlers

import (
	"net/http"

	"reviewhub/internal/models"

	"github.com/gin-gonic/gin"
)

type VoteHandler struct {
	base
	reviews ReviewService
}

func NewVoteHandler(reviews ReviewService, devMode bool) *VoteHandler {
	return &VoteHandler{base: base{devMode: devMode}, reviews: reviews}
}

type voteRequest struct {
	VoteType string `json:"voteType"`
}

// Vote toggles the caller's vote on a comment of the review in the path.
func (h *VoteHandler) Vote(c *gin.Context) {
	reviewID, ok := pathID(c, "id", "review")
	if !ok {
		return
	}
	commentID, ok := pathID(c, "commentId", "comment")
	if !ok {
		return
	}
	var req voteRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.reviews.VoteOnComment(c.Request.Context(), reviewID, commentID, currentUserID(c), models.VoteType(req.VoteType))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": result.Message()})
}
