package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/smart-alarm/internal/middleware"
	"github.com/iliyamo/smart-alarm/internal/repository"
)

// statsWindow is the rolling number of entries summarized per user.
const statsWindow = 7

// StatsHandler exposes the rolling wake-up statistics.
type StatsHandler struct {
	Stats *repository.StatisticsRepo
}

func NewStatsHandler(s *repository.StatisticsRepo) *StatsHandler {
	return &StatsHandler{Stats: s}
}

// Get returns the last-7 outcome summary for the authenticated user.
func (h *StatsHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	summary, err := h.Stats.Summary(ctx, middleware.UserID(c), statsWindow)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load statistics failed"})
	}
	return c.JSON(http.StatusOK, summary)
}
