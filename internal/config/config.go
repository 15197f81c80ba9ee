// Package config loads runtime settings from the environment.
//
// A .env file in the working directory is read first (development), then
// the process environment is decoded into Config with envconfig.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds every setting the server and terminal client read.
type Config struct {
	Port           string        `envconfig:"PORT" default:"5175"`
	LogLevel       string        `envconfig:"LOG_LEVEL" default:"info"`
	LogPretty      bool          `envconfig:"LOG_PRETTY" default:"false"`
	LogFile        string        `envconfig:"LOG_FILE"`
	ClientOrigin   string        `envconfig:"CLIENT_ORIGIN" default:"http://localhost:5173"`
	SessionSecret  string        `envconfig:"SESSION_SECRET" default:"dev_secret_change_me"`
	SessionTTL     time.Duration `envconfig:"SESSION_TTL" default:"24h"`
	SweepInterval  time.Duration `envconfig:"SWEEP_INTERVAL" default:"1m"`
	MaxSessions    int           `envconfig:"MAX_SESSIONS" default:"1024"`
	DailySalt      string        `envconfig:"DAILY_SALT" default:"local_dev_salt"`
	GameSeconds    int           `envconfig:"GAME_SECONDS" default:"30"`
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"10s"`
}

// Load reads .env (if present) and the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv decodes the process environment without touching .env.
func FromEnv() (*Config, error) {
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return nil, fmt.Errorf("processing the config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate rejects settings the game cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.GameSeconds <= 0:
		return errors.New("config: GAME_SECONDS must be positive")
	case c.MaxSessions <= 0:
		return errors.New("config: MAX_SESSIONS must be positive")
	case c.SweepInterval <= 0:
		return errors.New("config: SWEEP_INTERVAL must be positive")
	case c.SessionSecret == "":
		return errors.New("config: SESSION_SECRET must not be empty")
	}
	return nil
}
