package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tutor-marketplace-api/internal/auth"
	"tutor-marketplace-api/internal/model"
	"tutor-marketplace-api/internal/store"
)

type registerRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Avatar   string `json:"avatar" binding:"omitempty,url"`
	Bio      string `json:"bio" binding:"max=1000"`
	Whatsapp string `json:"whatsapp" binding:"max=32"`
}

func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, bindMessage(err))
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.internal(c, http.StatusInternalServerError, "internal error", err)
		return
	}

	u := &model.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        normalizeEmail(req.Email),
		PasswordHash: hash,
		Avatar:       req.Avatar,
		Bio:          req.Bio,
		Whatsapp:     req.Whatsapp,
	}
	if err := h.store.CreateUser(c.Request.Context(), u); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			// don't say which part failed
			fail(c, http.StatusConflict, "registration failed")
			return
		}
		h.internal(c, http.StatusInternalServerError, "internal error", err)
		return
	}

	h.log.Info("user registered", zap.Int64("user_id", u.ID))
	c.JSON(http.StatusCreated, u)
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
