// Package config loads application configuration from environment variables.
// A .env file in the working directory, when present, seeds variables that
// are not already set.
package config

import (
	"net"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the runtime settings of the HTTP server. None of them affect
// how achievements behave; they only decide where and how the process runs.
type Config struct {
	Env             string        // application environment (e.g. "dev", "prod")
	Host            string        // interface to bind
	Port            string        // HTTP port to listen on
	Debug           bool          // echo debug mode and development logging
	ShutdownTimeout time.Duration // grace period for in-flight requests
}

// Load reads a .env file if one exists and returns the server Config.
// Every value has a default so the service starts with no environment at all.
func Load() Config {
	_ = godotenv.Load()
	return Config{
		Env:             envStr("APP_ENV", "dev"),
		Host:            envStr("APP_HOST", "0.0.0.0"),
		Port:            envStr("APP_PORT", "5000"),
		Debug:           envBool("APP_DEBUG", false),
		ShutdownTimeout: envDur("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

// Addr returns the host:port pair to bind.
func (c Config) Addr() string { return net.JoinHostPort(c.Host, c.Port) }

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
	case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF":
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
