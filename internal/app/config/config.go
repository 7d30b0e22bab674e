// Package config resolves service settings from flags, environment
// variables and an optional .env file, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	BackendFile     = "file"
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

type Config struct {
	Port            int
	Backend         string
	File            string
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	RedisKey        string
	DatabaseDSN     string
	ShutdownTimeout time.Duration
}

func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

var envKeys = map[string]string{
	"port":             "PORT",
	"backend":          "BACKEND",
	"file":             "LINKS_FILE",
	"redis-addr":       "REDIS_ADDR",
	"redis-password":   "REDIS_PASSWORD",
	"redis-db":         "REDIS_DB",
	"redis-key":        "REDIS_KEY",
	"database-dsn":     "DATABASE_DSN",
	"shutdown-timeout": "SHUTDOWN_TIMEOUT",
}

// RegisterFlags declares every setting on fs with its default and binds
// flags and environment variables into v.
func RegisterFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	fs.Int("port", 3002, "HTTP listen port")
	fs.String("backend", BackendFile, "links record backend: file, memory, redis or postgres")
	fs.String("file", "links.json", "links record file (file backend)")
	fs.String("redis-addr", "localhost:6379", "redis address (redis backend)")
	fs.String("redis-password", "", "redis password (redis backend)")
	fs.Int("redis-db", 0, "redis database (redis backend)")
	fs.String("redis-key", "shortener:links", "redis key holding the links record")
	fs.String("database-dsn", "", "postgres DSN (postgres backend)")
	fs.Duration("shutdown-timeout", 10*time.Second, "graceful shutdown timeout")

	if err := v.BindPFlags(fs); err != nil {
		return fmt.Errorf("bind flags: %w", err)
	}
	for key, env := range envKeys {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("bind env %s: %w", env, err)
		}
	}

	return nil
}

// LoadDotEnv loads variables from path into the process environment
// without overriding ones already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}

	return nil
}

func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		Port:            v.GetInt("port"),
		Backend:         strings.ToLower(strings.TrimSpace(v.GetString("backend"))),
		File:            strings.TrimSpace(v.GetString("file")),
		RedisAddr:       v.GetString("redis-addr"),
		RedisPassword:   v.GetString("redis-password"),
		RedisDB:         v.GetInt("redis-db"),
		RedisKey:        v.GetString("redis-key"),
		DatabaseDSN:     v.GetString("database-dsn"),
		ShutdownTimeout: v.GetDuration("shutdown-timeout"),
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("PORT must be in 1..65535, got %d", cfg.Port)
	}
	switch cfg.Backend {
	case BackendFile:
		if cfg.File == "" {
			return Config{}, errors.New("LINKS_FILE is required when BACKEND=file")
		}
	case BackendMemory:
	case BackendRedis:
		if strings.TrimSpace(cfg.RedisAddr) == "" {
			return Config{}, errors.New("REDIS_ADDR is required when BACKEND=redis")
		}
	case BackendPostgres:
		if strings.TrimSpace(cfg.DatabaseDSN) == "" {
			return Config{}, errors.New("DATABASE_DSN is required when BACKEND=postgres")
		}
	default:
		return Config{}, fmt.Errorf("unknown BACKEND %q", cfg.Backend)
	}
	if cfg.ShutdownTimeout <= 0 {
		return Config{}, errors.New("SHUTDOWN_TIMEOUT must be > 0")
	}

	return cfg, nil
}
