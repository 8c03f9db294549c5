package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tutor-marketplace-api/internal/auth"
	"tutor-marketplace-api/internal/middleware"
	"tutor-marketplace-api/internal/model"
	"tutor-marketplace-api/internal/store"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type sessionResponse struct {
	User         *model.User `json:"user,omitempty"`
	Token        string      `json:"token"`
	RefreshToken string      `json:"refresh_token"`
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "email and password required")
		return
	}

	u, err := h.store.UserByEmail(c.Request.Context(), normalizeEmail(req.Email))
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		h.internal(c, http.StatusInternalServerError, "internal error", err)
		return
	}
	if u == nil || !auth.CheckPassword(u.PasswordHash, req.Password) {
		fail(c, http.StatusUnauthorized, "invalid credentials")
		return
	}

	tok, refresh, err := h.issueTokens(c.Request.Context(), u.ID)
	if err != nil {
		h.internal(c, http.StatusInternalServerError, "internal error", err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse{User: u, Token: tok, RefreshToken: refresh})
}

func (h *Handler) issueTokens(ctx context.Context, userID int64) (access, refresh string, err error) {
	access, err = auth.MakeToken(userID, h.secret)
	if err != nil {
		return "", "", err
	}
	refresh, hash, err := auth.GenerateOpaqueToken()
	if err != nil {
		return "", "", err
	}
	if _, err := h.store.CreateRefreshToken(ctx, userID, hash, time.Now().Add(auth.RefreshTTL)); err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// Refresh rotates a refresh token. Presenting a token that was already
// rotated revokes every session of its owner.
func (h *Handler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "refresh_token required")
		return
	}
	ctx := c.Request.Context()

	rt, err := h.store.GetRefreshTokenByHash(ctx, auth.HashOpaqueToken(req.RefreshToken))
	if errors.Is(err, store.ErrNotFound) {
		fail(c, http.StatusUnauthorized, "invalid refresh token")
		return
	}
	if err != nil {
		h.internal(c, http.StatusInternalServerError, "internal error", err)
		return
	}

	if rt.Revoked {
		h.revokeAll(ctx, rt.UserID, "refresh token reuse")
		fail(c, http.StatusUnauthorized, "invalid refresh token")
		return
	}
	if time.Now().After(rt.ExpiresAt) {
		fail(c, http.StatusUnauthorized, "refresh token expired")
		return
	}

	raw, hash, err := auth.GenerateOpaqueToken()
	if err != nil {
		h.internal(c, http.StatusInternalServerError, "internal error", err)
		return
	}
	if _, err := h.store.RotateRefreshToken(ctx, rt.ID, rt.UserID, hash, time.Now().Add(auth.RefreshTTL)); err != nil {
		if errors.Is(err, store.ErrTokenReused) {
			h.revokeAll(ctx, rt.UserID, "concurrent refresh token reuse")
			fail(c, http.StatusUnauthorized, "invalid refresh token")
			return
		}
		h.internal(c, http.StatusInternalServerError, "internal error", err)
		return
	}

	tok, err := auth.MakeToken(rt.UserID, h.secret)
	if err != nil {
		h.internal(c, http.StatusInternalServerError, "internal error", err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse{Token: tok, RefreshToken: raw})
}

func (h *Handler) revokeAll(ctx context.Context, userID int64, reason string) {
	h.log.Warn("revoking all refresh tokens", zap.Int64("user_id", userID), zap.String("reason", reason))
	if err := h.store.RevokeAllRefreshTokens(ctx, userID); err != nil {
		h.log.Error("revoke refresh tokens", zap.Int64("user_id", userID), zap.Error(err))
	}
}

func (h *Handler) Logout(c *gin.Context) {
	if err := h.store.RevokeAllRefreshTokens(c.Request.Context(), middleware.UserID(c)); err != nil {
		h.internal(c, http.StatusInternalServerError, "internal error", err)
		return
	}
	c.Status(http.StatusNoContent)
}
