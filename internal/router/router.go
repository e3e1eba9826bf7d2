// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/smart-alarm/internal/handler"
	"github.com/iliyamo/smart-alarm/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the register/login endpoints under /v1/auth.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
}

// RegisterAlarm registers the protected alarm surface: window
// management, answer submission, statistics and example puzzles. All
// routes require a valid access token; the JWTAuth middleware injects
// the user id the handlers act on.
func RegisterAlarm(e *echo.Echo, al *handler.AlarmHandler, an *handler.AnswerHandler, st *handler.StatsHandler, jwtSecret string) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))

	g.PUT("/alarm", al.Set)
	g.GET("/alarm", al.Get)
	g.POST("/answers", an.Submit)
	g.POST("/puzzles/example", an.Example)
	g.GET("/stats", st.Get)
}
