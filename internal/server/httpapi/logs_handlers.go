package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/fitlog/internal/server/models"
	"github.com/gin-gonic/gin"
)

type rangeQuery struct {
	From string `form:"from" binding:"required"`
	To   string `form:"to" binding:"required"`
}

func (s *Server) getLog(c *gin.Context) {
	l, err := s.svc.Logs.GetDailyLog(c.Request.Context(), currentUser(c), c.Param("date"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, l)
}

func (s *Server) saveLog(c *gin.Context) {
	var patch models.DailyLogPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, err)
		return
	}

	res, err := s.svc.Logs.SaveDailyLog(c.Request.Context(), currentUser(c), c.Param("date"), &patch)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) listLogs(c *gin.Context) {
	var q rangeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}

	logs, err := s.svc.Logs.ListLogs(c.Request.Context(), currentUser(c), q.From, q.To)
	if err != nil {
		s.writeError(c, err)
		return
	}
	if logs == nil {
		logs = []*models.DailyLog{}
	}
	c.JSON(http.StatusOK, logs)
}

func (s *Server) xpHistory(c *gin.Context) {
	days, err := s.svc.Logs.XPHistory(c.Request.Context(), currentUser(c))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, days)
}

func (s *Server) dashboard(c *gin.Context) {
	d, err := s.svc.Logs.Dashboard(c.Request.Context(), currentUser(c))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}
