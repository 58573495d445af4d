// Package config handles configuration for the todokeeper server: defaults,
// an optional JSON file, a .env file plus environment variables, and finally
// command-line flags, applied in that order.
package config

import "time"

// Config holds runtime settings for the server.
//
// Fields:
//   - HTTPAddr: bind address of the web UI.
//   - GRPCHealthAddr: bind address of the gRPC health endpoint; empty disables it.
//   - DatabaseDSN: postgres:// URL (pgx) or SQLite file/URI (modernc).
//   - SecretKey: HMAC secret signing session and flash cookies.
//   - SessionValidityDuration: lifetime of a login session.
//   - LoginRatePerMinute / LoginBurst: per-IP throttle for POST /login and /signup.
//   - HashIterations: pbkdf2 iterations for new access-code hashes.
//   - LogLevel / LogFormat: slog level and handler ("json" or "text").
//   - CookieSecure: mark cookies Secure (set behind TLS).
//   - ShutdownTimeout: grace period for in-flight requests on shutdown.
type Config struct {
	HTTPAddr                string        `env:"HTTP_ADDR"`
	GRPCHealthAddr          string        `env:"GRPC_HEALTH_ADDR"`
	DatabaseDSN             string        `env:"DATABASE_DSN"`
	SecretKey               string        `env:"SECRET_KEY"`
	SessionValidityDuration time.Duration `env:"SESSION_TTL"`
	LoginRatePerMinute      int           `env:"LOGIN_RATE_PER_MINUTE"`
	LoginBurst              int           `env:"LOGIN_BURST"`
	HashIterations          int           `env:"HASH_ITERATIONS"`
	LogLevel                string        `env:"LOG_LEVEL"`
	LogFormat               string        `env:"LOG_FORMAT"`
	CookieSecure            bool          `env:"COOKIE_SECURE"`
	ShutdownTimeout         time.Duration `env:"SHUTDOWN_TIMEOUT"`
}

// LoadDefaults populates Config with development defaults.
// NOTE: SecretKey must be overridden in production.
func (c *Config) LoadDefaults() {
	c.HTTPAddr = ":5000"
	c.GRPCHealthAddr = ":50051"
	c.DatabaseDSN = "file:task.db"
	c.SecretKey = "secretKey"
	c.SessionValidityDuration = 24 * time.Hour
	c.LoginRatePerMinute = 10
	c.LoginBurst = 5
	c.HashIterations = 600000
	c.LogLevel = "info"
	c.LogFormat = "json"
	c.CookieSecure = false
	c.ShutdownTimeout = 10 * time.Second
}

// LoadConfig builds a Config from defaults, then the JSON file, then the
// environment, then command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
