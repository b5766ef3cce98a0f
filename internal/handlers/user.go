package handlers

import (
	"net/http"

	"reviewhub/internal/services"
	"reviewhub/internal/utils"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	base
	users UserService
}

func NewUserHandler(users UserService, devMode bool) *UserHandler {
	return &UserHandler{base: base{devMode: devMode}, users: users}
}

type updateProfileRequest struct {
	Name  *string `json:"name" binding:"omitempty,max=100"`
	Email *string `json:"email" binding:"omitempty,email,max=255"`
	Bio   *string `json:"bio"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

func (h *UserHandler) Profile(c *gin.Context) {
	profile, err := h.users.Profile(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": profile})
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.users.UpdateProfile(c.Request.Context(), currentUserID(c), services.UpdateProfileInput{
		Name:  req.Name,
		Email: req.Email,
		Bio:   req.Bio,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"user":    user,
	})
}

func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	err := h.users.ChangePassword(c.Request.Context(), currentUserID(c), services.ChangePasswordInput{
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}

// pageParams reads limit and offset, defaulting to the first page.
func pageParams(c *gin.Context) (limit, offset int, ok bool) {
	l, err := utils.ParseOptionalInt(c.Query("limit"))
	if err != nil {
		badRequest(c, "limit must be a non-negative integer")
		return 0, 0, false
	}
	o, err := utils.ParseOptionalInt(c.Query("offset"))
	if err != nil {
		badRequest(c, "offset must be a non-negative integer")
		return 0, 0, false
	}

	limit = services.DefaultPageSize
	if l != nil && *l > 0 {
		limit = *l
	}
	if o != nil {
		offset = *o
	}
	return limit, offset, true
}

func (h *UserHandler) Reviews(c *gin.Context) {
	limit, offset, ok := pageParams(c)
	if !ok {
		return
	}
	reviews, err := h.users.Reviews(c.Request.Context(), currentUserID(c), limit, offset)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, reviews)
}

func (h *UserHandler) Comments(c *gin.Context) {
	limit, offset, ok := pageParams(c)
	if !ok {
		return
	}
	comments, err := h.users.Comments(c.Request.Context(), currentUserID(c), limit, offset)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}
