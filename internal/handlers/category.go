package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	base
	reviews ReviewService
}

func NewCategoryHandler(reviews ReviewService, devMode bool) *CategoryHandler {
	return &CategoryHandler{base: base{devMode: devMode}, reviews: reviews}
}

// ListCategories returns every category, alphabetically.
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	categories, err := h.reviews.Categories(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}
