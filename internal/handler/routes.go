package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tutor-marketplace-api/internal/middleware"
)

type RouterConfig struct {
	CORSOrigin   string
	QueryTimeout time.Duration
	Limiter      *middleware.RateLimiter
}

// NewRouter builds the engine with the global middleware chain and every
// route mounted.
func NewRouter(h *Handler, cfg RouterConfig, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.Recovery(log),
		middleware.Logger(log),
		middleware.CORS(cfg.CORSOrigin),
		middleware.Timeout(cfg.QueryTimeout),
	)
	h.Routes(r, cfg.Limiter)
	return r
}

func (h *Handler) Routes(r gin.IRouter, rl *middleware.RateLimiter) {
	limited := middleware.RateLimit(rl)
	authed := middleware.Auth(h.secret)

	r.GET("/health", h.Health)

	r.GET("/classes", h.ListClasses)
	r.POST("/classes", authed, h.CreateClass)

	r.POST("/users", limited, h.Register)

	sessions := r.Group("/sessions")
	{
		sessions.POST("", limited, h.Login)
		sessions.POST("/refresh", limited, h.Refresh)
		sessions.DELETE("", authed, h.Logout)
	}

	password := r.Group("/password", limited)
	{
		password.POST("/forgot", h.ForgotPassword)
		password.POST("/reset", h.ResetPassword)
	}

	profile := r.Group("/profile", authed)
	{
		profile.GET("", h.Profile)
		profile.PUT("", h.UpdateProfile)
		profile.GET("/classes", h.MyClasses)
	}
}

func (h *Handler) Health(c *gin.Context) {
	if err := h.store.Ping(c.Request.Context()); err != nil {
		h.internal(c, http.StatusServiceUnavailable, "database unavailable", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
