package analytics

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// untracked paths never produce visitor records.
var untracked = []string{
	"/static/",
	"/images/",
	"/admin",
	"/favicon",
	"/privacy",
	"/healthz",
	"/metrics",
	"/contact",
}

// Middleware tracks page views with hashed IPs in the background.
func (t *Tracker) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, prefix := range untracked {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		// Respect Do Not Track header
		if c.GetHeader("DNT") == "1" || c.Request.Method != "GET" {
			c.Next()
			return
		}

		t.recordAsync(c.ClientIP(), c.GetHeader("User-Agent"), path)
		c.Next()
	}
}
