package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Server holds process settings read from the environment.
type Server struct {
	Port        string        `env:"API_PORT" envDefault:"8080"`
	Env         string        `env:"API_ENV" envDefault:"development"`
	StaticDir   string        `env:"STATIC_DIR"`
	ConfigPath  string        `env:"CONFIG_PATH"`
	DataDir     string        `env:"DATA_DIR"`
	SessionTTL  time.Duration `env:"SESSION_TTL" envDefault:"2h"`
	CORSOrigins []string      `env:"CORS_ORIGINS" envSeparator:"," envDefault:"*"`
}

func (s Server) Production() bool { return s.Env == "production" }

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadServer parses the server settings.
func LoadServer() (Server, error) {
	var s Server
	if err := ParseEnv(&s); err != nil {
		return Server{}, err
	}
	if s.SessionTTL <= 0 {
		return Server{}, fmt.Errorf("SESSION_TTL must be positive, got %s", s.SessionTTL)
	}
	return s, nil
}
