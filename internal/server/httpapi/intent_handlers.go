package httpapi

import (
	"io"
	"net/http"

	"github.com/dmitrijs2005/fitlog/internal/intent"
	"github.com/gin-gonic/gin"
)

const maxIntentBody = 64 << 10

// parseIntent always answers 200; anything it cannot read comes back as the
// unknown intent. The user's original text may be passed as ?text=.
func (s *Server) parseIntent(c *gin.Context) {
	original := c.Query("text")
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxIntentBody))
	if err != nil {
		c.JSON(http.StatusOK, intent.Unknown(original, "unreadable body"))
		return
	}
	c.JSON(http.StatusOK, intent.Parse(raw, original))
}
