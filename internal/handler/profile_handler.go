package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"tutor-marketplace-api/internal/middleware"
	"tutor-marketplace-api/internal/store"
)

type updateProfileRequest struct {
	Name      string `json:"name" binding:"required,max=100"`
	Avatar    string `json:"avatar" binding:"omitempty,url"`
	Bio       string `json:"bio" binding:"max=1000"`
	Whatsapp  string `json:"whatsapp" binding:"max=32"`
	IsTeacher *bool  `json:"is_teacher"`
}

func (h *Handler) Profile(c *gin.Context) {
	u, err := h.store.UserByID(c.Request.Context(), middleware.UserID(c))
	if errors.Is(err, store.ErrNotFound) {
		fail(c, http.StatusNotFound, "user not found")
		return
	}
	if err != nil {
		h.internal(c, http.StatusInternalServerError, "internal error", err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// UpdateProfile replaces the public fields. is_teacher is left alone when
// omitted.
func (h *Handler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, bindMessage(err))
		return
	}
	ctx := c.Request.Context()

	u, err := h.store.UserByID(ctx, middleware.UserID(c))
	if errors.Is(err, store.ErrNotFound) {
		fail(c, http.StatusNotFound, "user not found")
		return
	}
	if err != nil {
		h.internal(c, http.StatusInternalServerError, "internal error", err)
		return
	}

	u.Name = strings.TrimSpace(req.Name)
	u.Avatar = req.Avatar
	u.Bio = req.Bio
	u.Whatsapp = req.Whatsapp
	if req.IsTeacher != nil {
		u.IsTeacher = *req.IsTeacher
	}

	if err := h.store.UpdateProfile(ctx, u); err != nil {
		h.internal(c, http.StatusInternalServerError, "internal error", err)
		return
	}
	c.JSON(http.StatusOK, u)
}
