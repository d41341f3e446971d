package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	. "noteflow/internal/adapter/http/helper"
	"noteflow/internal/adapter/http/middleware"
	"noteflow/internal/core/service"
)

type StatsHandler struct {
	svc *service.StatsService
}

func NewStatsHandler(svc *service.StatsService) *StatsHandler {
	return &StatsHandler{svc: svc}
}

// GetStats answers the dashboard counters for the signed-in user.
func (s *StatsHandler) GetStats(c *gin.Context) {
	ctx := c.Request.Context()

	owner := middleware.CurrentUID(c)

	stats, err := s.svc.Summary(ctx, owner)

	if err != nil {
		SendDomainError(c, err)
		return
	}

	SendSuccess(c, http.StatusOK, stats)
}
