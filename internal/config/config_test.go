package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, BackendSupabase, cfg.Database.Backend)
	assert.Equal(t, AuthSupabase, cfg.Auth.Provider)
	assert.Equal(t, 30*time.Second, cfg.Client.RequestTimeout)
}

func TestLoadConfig_OverlaysFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := `{"server":{"port":9090,"jobs_base_url":"https://jobs.example"},"database":{"backend":"sqlite","sqlite_path":"x.db"},"auth":{"provider":"header"}}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "https://jobs.example", cfg.Server.JobsBaseURL)
	assert.Equal(t, BackendSQLite, cfg.Database.Backend)
	assert.Equal(t, "x.db", cfg.Database.SQLitePath)
	// untouched sections keep their defaults
	assert.Equal(t, "X-User-ID", cfg.Auth.UserHeader)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfig_BadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o600))

	_, err := LoadConfig(path)
	require.Error(t, err)
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	cfg := DefaultConfig()
	cfg.Database.Backend = BackendRemote
	cfg.Database.RemoteURL = "http://upstream:8080"
	require.NoError(t, cfg.SaveConfig(path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Database, loaded.Database)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := DefaultConfig()
		cfg.Database.SupabaseURL = "https://example.supabase.co"
		cfg.Database.SupabaseKey = "anon"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid supabase", func(c *Config) {}, ""},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "server port"},
		{"negative rate limit", func(c *Config) { c.Server.UnsaveRateLimit = -1 }, "rate limit"},
		{"missing supabase url", func(c *Config) { c.Database.SupabaseURL = "" }, "supabase URL"},
		{"unknown backend", func(c *Config) { c.Database.Backend = "mongo" }, "unknown database backend"},
		{"remote without url", func(c *Config) { c.Database.Backend = BackendRemote }, "remote URL"},
		{"sqlite without path", func(c *Config) {
			c.Database.Backend = BackendSQLite
			c.Database.SQLitePath = ""
		}, "sqlite path"},
		{"header auth without header", func(c *Config) {
			c.Auth.Provider = AuthHeader
			c.Auth.UserHeader = ""
		}, "user header"},
		{"unknown auth", func(c *Config) { c.Auth.Provider = "saml" }, "unknown auth provider"},
		{"supabase auth on sqlite without keys", func(c *Config) {
			c.Database.Backend = BackendSQLite
			c.Database.SupabaseKey = ""
		}, "supabase auth"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
