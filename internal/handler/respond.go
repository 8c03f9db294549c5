package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func fail(c *gin.Context, code int, msg string) {
	c.AbortWithStatusJSON(code, gin.H{"error": msg})
}

// internal logs err and answers with a generic message.
func (h *Handler) internal(c *gin.Context, code int, msg string, err error) {
	h.log.Error(msg,
		zap.String("path", c.FullPath()),
		zap.Error(err))
	_ = c.Error(err)
	fail(c, code, msg)
}
