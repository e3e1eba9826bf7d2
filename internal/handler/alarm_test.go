package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

// Malformed windows must be rejected before any store access, so these
// run against a handler with no repository at all.
func TestSetAlarmRejectsBadWindows(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"not json", `window_start=07:00`},
		{"unparseable start", `{"window_start":"seven","window_end":"07:30"}`},
		{"unparseable end", `{"window_start":"07:00","window_end":"7.30"}`},
		{"out of range", `{"window_start":"25:00","window_end":"26:00"}`},
		{"crosses midnight", `{"window_start":"23:30","window_end":"00:30"}`},
	}

	h := NewAlarmHandler(nil)
	e := echo.New()
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPut, "/v1/alarm", strings.NewReader(c.body))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			rec := httptest.NewRecorder()
			if err := h.Set(e.NewContext(req, rec)); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400 (body %s)", rec.Code, rec.Body.String())
			}
		})
	}
}
