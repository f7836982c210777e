package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/fitlog/internal/server/models"
	"github.com/gin-gonic/gin"
)

type workoutRequest struct {
	Date         string  `json:"date" binding:"required"`
	ActivityType string  `json:"activity_type" binding:"required"`
	Duration     int     `json:"duration" binding:"required,gt=0"`
	Intensity    string  `json:"intensity" binding:"omitempty,oneof=Light Moderate Hard"`
	Notes        *string `json:"notes"`
}

func (s *Server) listWorkouts(c *gin.Context) {
	date := c.Query("date")
	list, err := s.svc.Workouts.ListByDate(c.Request.Context(), currentUser(c), date)
	if err != nil {
		s.writeError(c, err)
		return
	}
	if list == nil {
		list = []*models.Workout{}
	}
	c.JSON(http.StatusOK, list)
}

func (s *Server) createWorkout(c *gin.Context) {
	var req workoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	w, err := s.svc.Workouts.Create(c.Request.Context(), currentUser(c), &models.Workout{
		Date:         req.Date,
		ActivityType: req.ActivityType,
		Duration:     req.Duration,
		Intensity:    req.Intensity,
		Notes:        req.Notes,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, w)
}

func (s *Server) deleteWorkout(c *gin.Context) {
	if err := s.svc.Workouts.Delete(c.Request.Context(), currentUser(c), c.Param("id")); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) getMetrics(c *gin.Context) {
	m, err := s.svc.Metrics.Get(c.Request.Context(), currentUser(c), c.Param("date"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (s *Server) saveMetrics(c *gin.Context) {
	var patch models.BodyMetricsPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, err)
		return
	}

	m, err := s.svc.Metrics.Save(c.Request.Context(), currentUser(c), c.Param("date"), &patch)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (s *Server) photoUploadURL(c *gin.Context) {
	up, err := s.svc.Photos.UploadURL(c.Request.Context(), currentUser(c), c.Param("date"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, up)
}

func (s *Server) photoDownloadURL(c *gin.Context) {
	u, err := s.svc.Photos.DownloadURL(c.Request.Context(), currentUser(c), c.Param("date"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": u})
}

func (s *Server) getSettings(c *gin.Context) {
	st, err := s.svc.Settings.Get(c.Request.Context(), currentUser(c))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (s *Server) updateSettings(c *gin.Context) {
	var patch models.SettingsPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, err)
		return
	}

	st, err := s.svc.Settings.Update(c.Request.Context(), currentUser(c), &patch)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}
