package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tutor-marketplace-api/internal/auth"
	"tutor-marketplace-api/internal/recovery"
	"tutor-marketplace-api/internal/store"
)

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type resetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// ForgotPassword answers 204 whether or not the account exists.
func (h *Handler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, bindMessage(err))
		return
	}
	ctx := c.Request.Context()

	u, err := h.store.UserByEmail(ctx, normalizeEmail(req.Email))
	if errors.Is(err, store.ErrNotFound) {
		c.Status(http.StatusNoContent)
		return
	}
	if err != nil {
		h.internal(c, http.StatusInternalServerError, "internal error", err)
		return
	}

	tok, err := h.resets.Issue(ctx, u.ID)
	if err != nil {
		h.internal(c, http.StatusInternalServerError, "internal error", err)
		return
	}
	if err := h.mailer.SendPasswordReset(ctx, u.Email, tok); err != nil {
		h.internal(c, http.StatusInternalServerError, "internal error", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, bindMessage(err))
		return
	}
	ctx := c.Request.Context()

	userID, err := h.resets.Consume(ctx, req.Token)
	if errors.Is(err, recovery.ErrTokenNotFound) {
		fail(c, http.StatusBadRequest, "invalid or expired token")
		return
	}
	if err != nil {
		h.internal(c, http.StatusInternalServerError, "internal error", err)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.internal(c, http.StatusInternalServerError, "internal error", err)
		return
	}
	if err := h.store.UpdatePassword(ctx, userID, hash); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			fail(c, http.StatusBadRequest, "invalid or expired token")
			return
		}
		h.internal(c, http.StatusInternalServerError, "internal error", err)
		return
	}
	// existing sessions die with the old password
	h.revokeAll(ctx, userID, "password reset")

	h.log.Info("password reset", zap.Int64("user_id", userID))
	c.Status(http.StatusNoContent)
}
