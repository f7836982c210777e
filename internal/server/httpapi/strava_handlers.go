package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/fitlog/internal/common"
	"github.com/gin-gonic/gin"
)

type exchangeRequest struct {
	Code string `json:"code"`
}

func (s *Server) stravaAuth(c *gin.Context) {
	u, err := s.svc.Integrations.AuthURL()
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.Redirect(http.StatusFound, u)
}

// stravaExchange answers 400 for a missing code and 500 for anything that
// goes wrong afterwards, provider failures included.
func (s *Server) stravaExchange(c *gin.Context) {
	var req exchangeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing code"})
		return
	}

	if err := s.svc.Integrations.Connect(c.Request.Context(), currentUser(c), req.Code); err != nil {
		if errors.Is(err, common.ErrorValidation) {
			badRequest(c, err)
			return
		}
		s.logger.Error(c.Request.Context(), "strava exchange", "user_id", currentUser(c), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to connect Strava"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) stravaSync(c *gin.Context) {
	res, err := s.svc.Sync.Sync(c.Request.Context(), currentUser(c))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": res.Count, "added": res.Added})
}

func (s *Server) stravaDisconnect(c *gin.Context) {
	if err := s.svc.Integrations.Disconnect(c.Request.Context(), currentUser(c)); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
