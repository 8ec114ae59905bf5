package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Storage backends
const (
	BackendSupabase = "supabase"
	BackendSQLite   = "sqlite"
	BackendRemote   = "remote"
)

// Auth providers
const (
	AuthSupabase = "supabase"
	AuthHeader   = "header"
)

// Config holds the application configuration
type Config struct {
	Server     ServerConfig     `json:"server"`
	Database   DatabaseConfig   `json:"database"`
	Auth       AuthConfig       `json:"auth"`
	Client     ClientConfig     `json:"client"`
	Monitoring MonitoringConfig `json:"monitoring"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            int           `json:"port"`
	ReadTimeout     time.Duration `json:"read_timeout"`
	WriteTimeout    time.Duration `json:"write_timeout"`
	IdleTimeout     time.Duration `json:"idle_timeout"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`
	AllowedOrigins  []string      `json:"allowed_origins"`
	UnsaveRateLimit int           `json:"unsave_rate_limit"` // per user, per minute
	JobsBaseURL     string        `json:"jobs_base_url"`     // prefix for /jobs links; empty means same origin
}

// DatabaseConfig selects and configures the saved-job backend
type DatabaseConfig struct {
	Backend     string `json:"backend"`
	SupabaseURL string `json:"supabase_url"`
	SupabaseKey string `json:"supabase_key"`
	SQLitePath  string `json:"sqlite_path"`
	RemoteURL   string `json:"remote_url"`
}

// AuthConfig selects how the signed-in user is resolved
type AuthConfig struct {
	Provider   string `json:"provider"`
	UserHeader string `json:"user_header"`
	CookieName string `json:"cookie_name"`
}

// ClientConfig holds outbound HTTP settings for the remote backend
type ClientConfig struct {
	RequestTimeout time.Duration `json:"request_timeout"`
}

// MonitoringConfig holds logging configuration
type MonitoringConfig struct {
	LogLevel string `json:"log_level"`
	LogFile  string `json:"log_file"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	cfg := &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			AllowedOrigins:  []string{"http://localhost:3000"},
			UnsaveRateLimit: 30,
		},
		Database: DatabaseConfig{
			Backend:     BackendSupabase,
			SupabaseURL: os.Getenv("SUPABASE_URL"),
			SupabaseKey: os.Getenv("SUPABASE_KEY"),
			SQLitePath:  "data/saved_jobs.db",
		},
		Auth: AuthConfig{
			Provider:   AuthSupabase,
			UserHeader: "X-User-ID",
			CookieName: "sb-access-token",
		},
		Client: ClientConfig{
			RequestTimeout: 30 * time.Second,
		},
		Monitoring: MonitoringConfig{
			LogLevel: "info",
		},
	}

	if port, err := strconv.Atoi(os.Getenv("SERVER_PORT")); err == nil {
		cfg.Server.Port = port
	}

	return cfg
}

// LoadConfig loads configuration from a JSON file
func LoadConfig(filename string) (*Config, error) {
	// Start with default config
	config := DefaultConfig()

	// If file doesn't exist, return default config
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return config, nil
	}

	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	return config, nil
}

// SaveConfig saves configuration to a JSON file
func (c *Config) SaveConfig(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535")
	}

	if c.Server.UnsaveRateLimit < 0 {
		return fmt.Errorf("unsave rate limit cannot be negative")
	}

	switch c.Database.Backend {
	case BackendSupabase:
		if c.Database.SupabaseURL == "" {
			return fmt.Errorf("supabase URL is required")
		}
		if c.Database.SupabaseKey == "" {
			return fmt.Errorf("supabase key is required")
		}
	case BackendSQLite:
		if c.Database.SQLitePath == "" {
			return fmt.Errorf("sqlite path is required")
		}
	case BackendRemote:
		if c.Database.RemoteURL == "" {
			return fmt.Errorf("remote URL is required")
		}
		if c.Client.RequestTimeout <= 0 {
			return fmt.Errorf("client request timeout must be positive")
		}
	default:
		return fmt.Errorf("unknown database backend %q", c.Database.Backend)
	}

	switch c.Auth.Provider {
	case AuthSupabase:
		if c.Database.SupabaseURL == "" || c.Database.SupabaseKey == "" {
			return fmt.Errorf("supabase auth requires supabase URL and key")
		}
	case AuthHeader:
		if c.Auth.UserHeader == "" {
			return fmt.Errorf("user header is required for header auth")
		}
	default:
		return fmt.Errorf("unknown auth provider %q", c.Auth.Provider)
	}

	return nil
}
