package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/smart-alarm/internal/middleware"
	"github.com/iliyamo/smart-alarm/internal/model"
	"github.com/iliyamo/smart-alarm/internal/repository"
)

// AlarmHandler manages a user's wake-up window.
type AlarmHandler struct {
	Alarms *repository.AlarmRepo
}

func NewAlarmHandler(a *repository.AlarmRepo) *AlarmHandler {
	return &AlarmHandler{Alarms: a}
}

type setAlarmReq struct {
	WindowStart string `json:"window_start"`
	WindowEnd   string `json:"window_end"`
}

type alarmResp struct {
	WindowStart string `json:"window_start"`
	WindowEnd   string `json:"window_end"`
	IsActive    bool   `json:"is_active"`
}

// Set installs a new alarm window, replacing any previous one. Input is
// validated here so the core can assume well-formed windows: both
// bounds must parse as HH:MM and the window may not wrap past midnight.
func (h *AlarmHandler) Set(c echo.Context) error {
	var req setAlarmReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	start, err := model.ParseTimeOfDay(req.WindowStart)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "window_start must be HH:MM"})
	}
	end, err := model.ParseTimeOfDay(req.WindowEnd)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "window_end must be HH:MM"})
	}
	if end < start {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "window must not cross midnight"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	uid := middleware.UserID(c)
	if err := h.Alarms.Upsert(ctx, uid, start, end); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save alarm failed"})
	}
	return c.JSON(http.StatusOK, alarmResp{
		WindowStart: start.String(),
		WindowEnd:   end.String(),
		IsActive:    true,
	})
}

// Get returns the user's current alarm. The chosen wake instant is
// deliberately not exposed: the whole point is that the user does not
// know the exact minute inside the window.
func (h *AlarmHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	a, err := h.Alarms.GetByUser(ctx, middleware.UserID(c))
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no alarm set"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load alarm failed"})
	}
	return c.JSON(http.StatusOK, alarmResp{
		WindowStart: a.WindowStart.String(),
		WindowEnd:   a.WindowEnd.String(),
		IsActive:    a.IsActive,
	})
}
