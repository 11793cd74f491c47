package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all server configuration
type Config struct {
	Server  ServerConfig
	Game    GameConfig
	Storage StorageConfig
	Auth    AuthConfig
	Logging LoggingConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// GameConfig holds gameplay settings
type GameConfig struct {
	DictionaryPath string
	TurnDuration   time.Duration
}

// StorageConfig selects the word-list cache backend
type StorageConfig struct {
	Type           string // "memory" or "redis"
	RedisURL       string
	RedisKeyPrefix string
}

// AuthConfig holds handshake authentication settings
type AuthConfig struct {
	// JWTSecret enables token checks on /ws when non-empty
	JWTSecret string
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string
	Format string // "json" or "text"
}

// LoadDotEnv reads a .env file into the environment if one exists.
// Variables already set in the environment win.
func LoadDotEnv(paths ...string) error {
	err := godotenv.Load(paths...)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// Load loads configuration from environment variables with defaults
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            getEnv("HOST", ""),
			Port:            getEnvInt("PORT", 8080),
			ReadTimeout:     getEnvSeconds("READ_TIMEOUT_SECONDS", 15),
			WriteTimeout:    getEnvSeconds("WRITE_TIMEOUT_SECONDS", 60),
			ShutdownTimeout: getEnvSeconds("SHUTDOWN_TIMEOUT_SECONDS", 30),
		},
		Game: GameConfig{
			DictionaryPath: getEnv("DICTIONARY_PATH", "data/words.txt"),
			TurnDuration:   getEnvSeconds("TURN_DURATION_SECONDS", 30),
		},
		Storage: StorageConfig{
			Type:           getEnv("STORAGE_TYPE", "memory"),
			RedisURL:       getEnv("REDIS_URL", "redis://localhost:6379"),
			RedisKeyPrefix: getEnv("REDIS_KEY_PREFIX", "wordchain"),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}
}

// Addr returns the server address in host:port format
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// NewLogger builds the application logger described by the logging config
func NewLogger(cfg LoggingConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLogLevel(cfg.Level)}
	if strings.EqualFold(cfg.Format, "text") {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// ParseLogLevel maps a level name to a slog.Level, defaulting to info
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// getEnv returns an environment variable or a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvInt returns an environment variable as an integer or a default value
func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvSeconds(key string, defaultValue int) time.Duration {
	return time.Duration(getEnvInt(key, defaultValue)) * time.Second
}
