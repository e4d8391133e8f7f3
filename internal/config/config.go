// Package config loads application configuration from environment variables.
package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds process-wide settings. Database fields are required; auth
// and broker fields are optional so a single-node dev setup can run with
// nothing but MySQL.
type Config struct {
	Env  string // application environment (dev/test/prod)
	Port string // HTTP port to listen on

	DBUser string
	DBPass string // optional, empty allowed
	DBHost string
	DBPort string
	DBName string

	AMQPURL string // RabbitMQ URL for invalidation fanout; empty disables it

	JWTSecret         string // secret for admin tokens; empty disables admin auth
	AdminPasswordHash string // bcrypt hash of the admin password
	TokenTTLMin       int    // admin token time-to-live in minutes

	ResolvePolicy    string // "strict" (default) or "permissive"
	SeedDefaultEvent bool   // create a default active event on startup
}

// Load reads configuration from the environment. Missing required
// variables abort startup with a fatal log message.
func Load() Config {
	return Config{
		Env:               must("APP_ENV"),
		Port:              must("APP_PORT"),
		DBUser:            must("DB_USER"),
		DBPass:            os.Getenv("DB_PASS"),
		DBHost:            must("DB_HOST"),
		DBPort:            must("DB_PORT"),
		DBName:            must("DB_NAME"),
		AMQPURL:           envStr("RABBITMQ_URL", os.Getenv("AMQP_URL")),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		TokenTTLMin:       envInt("ADMIN_TOKEN_TTL_MIN", 60),
		ResolvePolicy:     envStr("RESOLVE_POLICY", "strict"),
		SeedDefaultEvent:  envBool("SEED_DEFAULT_EVENT", false),
	}
}

// AuthEnabled reports whether admin routes require a bearer token. Both the
// signing secret and a password hash must be configured; otherwise the
// server runs open, matching the venue-LAN MVP deployment.
func (c Config) AuthEnabled() bool {
	return c.JWTSecret != "" && c.AdminPasswordHash != ""
}

// must retrieves a required environment variable or exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envBool(k string, d bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	switch v {
	case "1", "true", "TRUE", "True", "yes", "on":
		return true
	case "0", "false", "FALSE", "False", "no", "off":
		return false
	}
	return d
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if dur, err := time.ParseDuration(v); err == nil {
		return dur
	}
	return d
}
