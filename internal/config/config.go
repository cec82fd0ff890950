package config

import (
	"errors"
	"os"
	"strings"
)

// Config contains runtime configuration required by the service.
type Config struct {
	DBURL       string
	RedisAddr   string
	StreamTopic string
	Port        string
}

// Load reads required values from environment variables. Only DB_URL is
// mandatory; the stream is optional infrastructure and defaults suffice for
// local development.
func Load() (Config, error) {
	dbURL := strings.TrimSpace(os.Getenv("DB_URL"))
	if dbURL == "" {
		return Config{}, errors.New("DB_URL required")
	}

	redisAddr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}

	topic := strings.TrimSpace(os.Getenv("STREAM_TOPIC"))
	if topic == "" {
		topic = "calendar-events"
	}

	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "3001"
	}

	return Config{
		DBURL:       dbURL,
		RedisAddr:   redisAddr,
		StreamTopic: topic,
		Port:        port,
	}, nil
}
