package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds process settings read from the environment
type Config struct {
	// HTTPAddr is the listen address for HTTP and websocket traffic
	HTTPAddr string

	// AllowedOrigins lists CORS origins; "*" allows any
	AllowedOrigins []string

	// Redis connection for the round ledger
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// MaxPlayers caps RoomOptions.MaxPlayers
	MaxPlayers int

	// RoomCodeLength is the number of characters in a room code (3-6)
	RoomCodeLength int

	// SpinDelay is how long the wheel animates before the reward applies
	SpinDelay time.Duration

	// PhrasesFile is an optional CSV of phrase,category rows
	PhrasesFile string

	// EventRate is the sustained client events per second per connection,
	// EventBurst the number allowed at once
	EventRate  float64
	EventBurst int

	LogLevel  string
	LogFormat string
}

// Load reads a .env file when present and then the environment
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}

	maxPlayers, err := getEnvInt("MAX_PLAYERS", 10)
	if err != nil {
		return nil, err
	}

	codeLength, err := getEnvInt("ROOM_CODE_LENGTH", 6)
	if err != nil {
		return nil, err
	}
	if codeLength < 3 || codeLength > 6 {
		return nil, fmt.Errorf("ROOM_CODE_LENGTH must be between 3 and 6, got %d", codeLength)
	}

	eventRate, err := strconv.ParseFloat(getEnv("EVENT_RATE", "5"), 64)
	if err != nil || eventRate <= 0 {
		return nil, fmt.Errorf("invalid EVENT_RATE: %q", getEnv("EVENT_RATE", "5"))
	}

	eventBurst, err := getEnvInt("EVENT_BURST", 10)
	if err != nil {
		return nil, err
	}

	spinDelay, err := time.ParseDuration(getEnv("SPIN_DELAY", "2s"))
	if err != nil {
		return nil, fmt.Errorf("invalid SPIN_DELAY: %w", err)
	}

	return &Config{
		HTTPAddr:       getEnv("HTTP_ADDR", ":3000"),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "*")),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		RedisDB:        redisDB,
		MaxPlayers:     maxPlayers,
		RoomCodeLength: codeLength,
		SpinDelay:      spinDelay,
		PhrasesFile:    getEnv("PHRASES_FILE", ""),
		EventRate:      eventRate,
		EventBurst:     eventBurst,
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "console"),
	}, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
