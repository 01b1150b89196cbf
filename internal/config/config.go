package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// HTTP
	Port            string
	GinMode         string
	CORSAllowOrigin string
	LogLevel        string

	// Recommender
	RecommenderURL         string
	RecommenderTimeout     time.Duration // 0 = no timeout
	RecommenderMaxAttempts int           // 1 = no retry
	CourseSplitMode        string        // "comma" | "punctuation"

	// Form sessions
	SessionTTL    time.Duration
	SubmitLockTTL time.Duration
	RedisURL      string

	// Submission history (disabled when empty)
	PostgresURL string
}

const (
	SplitModeComma       = "comma"
	SplitModePunctuation = "punctuation"
)

// LoadWithDotEnv reads .env files (if present) into the process env and then calls Load.
// Variables already set in the environment win.
func LoadWithDotEnv(files ...string) (Config, bool) {
	loaded := godotenv.Load(files...) == nil
	return Load(), loaded
}

func Load() Config {
	return Config{
		Port:            getenv("PORT", "8080"),
		GinMode:         getenv("GIN_MODE", "release"),
		CORSAllowOrigin: getenv("CORS_ALLOW_ORIGIN", "*"),
		LogLevel:        getenv("LOG_LEVEL", "info"),

		RecommenderURL:         getenv("RECOMMENDER_URL", "http://localhost:5000/recommend"),
		RecommenderTimeout:     getenvDuration("RECOMMENDER_TIMEOUT", 0),
		RecommenderMaxAttempts: getenvInt("RECOMMENDER_MAX_ATTEMPTS", 1),
		CourseSplitMode:        ParseSplitMode(getenv("COURSE_SPLIT_MODE", SplitModePunctuation)),

		SessionTTL:    getenvDuration("SESSION_TTL", 24*time.Hour),
		SubmitLockTTL: getenvDuration("SUBMIT_LOCK_TTL", 5*time.Minute),
		RedisURL:      os.Getenv("REDIS_URL"),

		PostgresURL: os.Getenv("POSTGRES_URL"),
	}
}

// ParseSplitMode maps anything other than "comma" to the punctuation split.
func ParseSplitMode(v string) string {
	if strings.EqualFold(strings.TrimSpace(v), SplitModeComma) {
		return SplitModeComma
	}
	return SplitModePunctuation
}

func getenv(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func getenvInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return n
}

func getenvBool(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return b
}

// getenvDuration accepts Go durations ("30s") or a bare number of seconds.
func getenvDuration(k string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	return def
}

// Debug reports whether gin should run in debug mode.
func (c Config) Debug() bool {
	return strings.EqualFold(c.GinMode, "debug") || getenvBool("DEBUG", false)
}
