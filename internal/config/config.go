package config // package config loads application configuration from environment variables

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/iliyamo/smart-alarm/internal/model"
)

// Config holds all runtime configuration values. Each field corresponds
// to an environment variable. Database and JWT settings are required;
// the alarm timing knobs default to the classic tuning (10 minutes for
// the first puzzle, 7 for the second, 10 between them, a 60 second
// sweep and a reset just after midnight).
type Config struct {
	Env          string // application environment (e.g. "dev", "prod")
	Port         string // HTTP port to listen on
	DBUser       string // database username
	DBPass       string // database password (optional)
	DBHost       string // database host address
	DBPort       string // database port number
	DBName       string // database name
	JWTSecret    string // secret used to sign JWTs
	AccessTTLMin int    // access token time-to-live in minutes
	BcryptCost   int    // bcrypt cost for password hashing

	FirstPuzzleTimeout  time.Duration   // T1: deadline for the first puzzle
	SecondPuzzleTimeout time.Duration   // T2: deadline for the second puzzle
	DelayBetweenPuzzles time.Duration   // D: pause before the second puzzle
	SweepInterval       time.Duration   // alarm scheduler period
	DailyResetAt        model.TimeOfDay // local time of the daily re-arm
}

// Load reads configuration values from environment variables and
// returns a Config. Required variables are enforced by must() and
// missing values cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:          must("APP_ENV"),
		Port:         must("APP_PORT"),
		DBUser:       must("DB_USER"),
		DBPass:       os.Getenv("DB_PASS"), // empty allowed
		DBHost:       must("DB_HOST"),
		DBPort:       must("DB_PORT"),
		DBName:       must("DB_NAME"),
		JWTSecret:    must("JWT_SECRET"),
		AccessTTLMin: mustInt("ACCESS_TOKEN_TTL_MIN"),
		BcryptCost:   mustInt("BCRYPT_COST"),

		FirstPuzzleTimeout:  envDur("FIRST_PUZZLE_TIMEOUT", 10*time.Minute),
		SecondPuzzleTimeout: envDur("SECOND_PUZZLE_TIMEOUT", 7*time.Minute),
		DelayBetweenPuzzles: envDur("DELAY_BETWEEN_PUZZLES", 10*time.Minute),
		SweepInterval:       envDur("ALARM_SWEEP_INTERVAL", time.Minute),
		DailyResetAt:        envTimeOfDay("DAILY_RESET_AT", model.TimeOfDay(1)), // 00:01
	}
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an integer.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

func envDur(key string, d time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return d
	}
	dur, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("invalid duration for %s: %q", key, v)
	}
	return dur
}

func envTimeOfDay(key string, d model.TimeOfDay) model.TimeOfDay {
	v := os.Getenv(key)
	if v == "" {
		return d
	}
	tod, err := model.ParseTimeOfDay(v)
	if err != nil {
		log.Fatalf("invalid time of day for %s: %q", key, v)
	}
	return tod
}
