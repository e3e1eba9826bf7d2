package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/smart-alarm/internal/middleware"
	"github.com/iliyamo/smart-alarm/internal/puzzle"
	"github.com/iliyamo/smart-alarm/internal/session"
)

// AnswerHandler routes inbound answers the way the chat bot did:
// an active puzzle session gets first claim on any text; a pending
// example puzzle comes second; anything else is "no active challenge".
type AnswerHandler struct {
	Engine   *session.Engine
	Puzzles  puzzle.Provider
	Examples *puzzle.ExampleStore
}

func NewAnswerHandler(e *session.Engine, p puzzle.Provider, ex *puzzle.ExampleStore) *AnswerHandler {
	return &AnswerHandler{Engine: e, Puzzles: p, Examples: ex}
}

type answerReq struct {
	Text string `json:"text"`
}

type answerResp struct {
	Result  string `json:"result"`
	Message string `json:"message"`
}

// Submit processes one answer.
func (h *AnswerHandler) Submit(c echo.Context) error {
	var req answerReq
	if err := c.Bind(&req); err != nil || req.Text == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "text required"})
	}
	ctx := c.Request().Context()
	uid := middleware.UserID(c)

	res, err := h.Engine.HandleAnswer(ctx, uid, req.Text)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "answer processing failed"})
	}
	switch res {
	case session.ResultIncorrect:
		return c.JSON(http.StatusOK, answerResp{Result: "incorrect", Message: "Wrong answer. Try again:"})
	case session.ResultAdvanced:
		return c.JSON(http.StatusOK, answerResp{Result: "advanced", Message: "Correct! The second puzzle is on its way."})
	case session.ResultSuccess:
		return c.JSON(http.StatusOK, answerResp{Result: "success", Message: "Congratulations, you are officially awake!"})
	}

	// No session claimed the answer; maybe an example puzzle is pending.
	return h.answerExample(c, uid, req.Text)
}

func (h *AnswerHandler) answerExample(c echo.Context, uid uint64, text string) error {
	ctx := c.Request().Context()
	p, err := h.Examples.Get(ctx, uid)
	if errors.Is(err, puzzle.ErrNoExample) || errors.Is(err, puzzle.ErrUnavailable) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "no active challenge"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "example lookup failed"})
	}
	// One shot either way: the entry goes away after any answer.
	_ = h.Examples.Remove(ctx, uid)

	if h.Puzzles.Match(text, p.Answer) {
		return c.JSON(http.StatusOK, answerResp{
			Result:  "example_correct",
			Message: "Correct! That is exactly how the morning puzzles work.",
		})
	}
	return c.JSON(http.StatusOK, answerResp{
		Result:  "example_incorrect",
		Message: fmt.Sprintf("Wrong! The answer was: %s. Ask for another example any time.", p.Answer),
	})
}

// Example issues a sample puzzle outside of any alarm cycle.
func (h *AnswerHandler) Example(c echo.Context) error {
	ctx := c.Request().Context()
	uid := middleware.UserID(c)

	p := h.Puzzles.Next()
	if err := h.Examples.Put(ctx, uid, p); err != nil {
		if errors.Is(err, puzzle.ErrUnavailable) {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "example puzzles unavailable"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "example issue failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"question": p.Question})
}
