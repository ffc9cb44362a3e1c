package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/supermercado/api-supermercado/pkg/logger"
)

// A request gets exactly one response. Every write goes through these helpers,
// which drop (and log) any write attempted after the response went out.

func responded(c *gin.Context) bool {
	if c.Writer.Written() {
		logger.Warnf("%s %s: response already sent (status %d), dropping late write",
			c.Request.Method, c.Request.URL.Path, c.Writer.Status())
		return true
	}
	return false
}

func sendText(c *gin.Context, status int, msg string) {
	if responded(c) {
		return
	}
	c.String(status, msg)
}

func sendJSON(c *gin.Context, status int, body interface{}) {
	if responded(c) {
		return
	}
	c.JSON(status, body)
}

func sendEmpty(c *gin.Context, status int) {
	if responded(c) {
		return
	}
	c.Status(status)
	c.Writer.WriteHeaderNow()
}
