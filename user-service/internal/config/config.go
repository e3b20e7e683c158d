// Package config loads the user-service settings from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/Juan181803/ecommerce-microservice-backend-app2/shared/database"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// DriverMemory keeps users in process memory instead of a database.
const DriverMemory = "memory"

type Config struct {
	HTTP   HTTPConfig
	DB     DBConfig
	Redis  RedisConfig
	Auth   AuthConfig
	Log    LogConfig
	Events EventsConfig
	CORS   CORSConfig
}

type HTTPConfig struct {
	Port            string        `env:"PORT" env-default:"8082"`
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"10s"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"15s"`
}

type DBConfig struct {
	Driver          string        `env:"DB_DRIVER" env-default:"postgres"`
	URL             string        `env:"DATABASE_URL"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" env-default:"10"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" env-default:"5"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" env-default:"30m"`
}

// Database converts the section into the shared connection settings.
func (c DBConfig) Database() database.Config {
	return database.Config{
		Driver:          c.Driver,
		DSN:             c.URL,
		MaxOpenConns:    c.MaxOpenConns,
		MaxIdleConns:    c.MaxIdleConns,
		ConnMaxLifetime: c.ConnMaxLifetime,
	}
}

type RedisConfig struct {
	Enabled  bool          `env:"REDIS_ENABLED" env-default:"true"`
	Addr     string        `env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB" env-default:"0"`
	CacheTTL time.Duration `env:"REDIS_CACHE_TTL" env-default:"5m"`
}

type AuthConfig struct {
	// JWTSecret enables the bearer token guard on mutating routes.
	JWTSecret string `env:"JWT_SECRET"`
}

type LogConfig struct {
	Level string `env:"LOG_LEVEL" env-default:"info"`
	Dev   bool   `env:"LOG_DEV" env-default:"false"`
}

type EventsConfig struct {
	NodeID int64 `env:"NODE_ID" env-default:"1"`
}

type CORSConfig struct {
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" env-default:"*" env-separator:","`
}

// Load reads an optional .env file and then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.DB.Driver {
	case DriverMemory:
	case database.DriverPostgres, database.DriverSQLite:
		if c.DB.URL == "" {
			return fmt.Errorf("DATABASE_URL is required for DB_DRIVER=%s", c.DB.Driver)
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DB.Driver)
	}
	if c.Events.NodeID < 0 || c.Events.NodeID > 1023 {
		return fmt.Errorf("NODE_ID must be between 0 and 1023, got %d", c.Events.NodeID)
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("REDIS_ADDR is required when REDIS_ENABLED is set")
	}
	return nil
}
