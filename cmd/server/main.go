package main

import (
	"context"
	"log"
	"math/rand"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/smart-alarm/internal/clock"
	"github.com/iliyamo/smart-alarm/internal/config"
	"github.com/iliyamo/smart-alarm/internal/database"
	"github.com/iliyamo/smart-alarm/internal/handler"
	"github.com/iliyamo/smart-alarm/internal/puzzle"
	"github.com/iliyamo/smart-alarm/internal/queue"
	"github.com/iliyamo/smart-alarm/internal/repository"
	"github.com/iliyamo/smart-alarm/internal/router"
	"github.com/iliyamo/smart-alarm/internal/scheduler"
	notifier "github.com/iliyamo/smart-alarm/internal/service"
	"github.com/iliyamo/smart-alarm/internal/session"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()
	if err := database.EnsureSchema(context.Background(), db); err != nil {
		log.Fatalf("ensure schema: %v", err)
	}

	users := repository.NewUserRepo(db)
	alarms := repository.NewAlarmRepo(db)
	states := repository.NewStateRepo(db)
	stats := repository.NewStatisticsRepo(db)

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable, example puzzles disabled")
	}
	examples := puzzle.NewExampleStore(rdb)

	clk := clock.New()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	puzzles := puzzle.NewArithmetic(rand.New(rand.NewSource(time.Now().UnixNano() + 1)))
	msgr := notifier.NewAMQP()

	engine := session.NewEngine(states, stats, puzzles, msgr, clk, session.Timings{
		FirstTimeout:  cfg.FirstPuzzleTimeout,
		SecondTimeout: cfg.SecondPuzzleTimeout,
		SecondDelay:   cfg.DelayBetweenPuzzles,
	})
	sched := scheduler.New(alarms, engine, msgr, clk, rng, scheduler.Config{
		SweepInterval: cfg.SweepInterval,
		ResetAt:       cfg.DailyResetAt,
	})
	stop := sched.Start()
	defer stop()

	// Drain the notify queue into logs/notify.log; a real chat gateway
	// replaces this consumer in production.
	go func() {
		if err := queue.StartNotifyConsumer(); err != nil {
			log.Printf("notify consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users))
	router.RegisterAlarm(e,
		handler.NewAlarmHandler(alarms),
		handler.NewAnswerHandler(engine, puzzles, examples),
		handler.NewStatsHandler(stats),
		cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
