package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "./coursebook.db" {
			t.Errorf("expected database path ./coursebook.db, got %s", config.Database.Path)
		}

		if config.Service.Endpoint != "http://127.0.0.1:8080/exec" {
			t.Errorf("expected endpoint http://127.0.0.1:8080/exec, got %s", config.Service.Endpoint)
		}

		if config.Service.Timeout != 30*time.Second {
			t.Errorf("expected timeout 30s, got %v", config.Service.Timeout)
		}

		if config.Export.Workers != 4 {
			t.Errorf("expected 4 export workers, got %d", config.Export.Workers)
		}

		if err := config.Validate(); err != nil {
			t.Errorf("default config should be valid: %v", err)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Database.Path != defaultConfig.Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[service]
endpoint = "https://script.example.com/macros/s/abc/exec"
timeout = "5s"
rate_limit = 2.5

[database]
path = "/custom/path.db"
max_open_conns = 2

[export]
workers = 8
format = "csv"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Service.Endpoint != "https://script.example.com/macros/s/abc/exec" {
			t.Errorf("unexpected endpoint %s", config.Service.Endpoint)
		}
		if config.Service.Timeout != 5*time.Second {
			t.Errorf("expected timeout 5s, got %v", config.Service.Timeout)
		}
		if config.Service.RateLimit != 2.5 {
			t.Errorf("expected rate limit 2.5, got %v", config.Service.RateLimit)
		}
		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected database path /custom/path.db, got %s", config.Database.Path)
		}
		if config.Export.Format != "csv" {
			t.Errorf("expected export format csv, got %s", config.Export.Format)
		}
		if config.Log.Level != "info" {
			t.Errorf("sections missing from the file should keep defaults, got log level %q", config.Log.Level)
		}
	})

	t.Run("LoadConfig Missing File", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
			t.Error("expected error for missing config file")
		}
	})

	t.Run("ApplyEnv", func(t *testing.T) {
		t.Setenv("COURSEBOOK_ENDPOINT", "https://env.example.com/exec")
		t.Setenv("COURSEBOOK_RATE_LIMIT", "1.5")
		t.Setenv("COURSEBOOK_DB_PATH", "/env/receipts.db")
		t.Setenv("COURSEBOOK_LOG_LEVEL", "debug")

		config := DefaultConfig()
		if err := config.ApplyEnv(""); err != nil {
			t.Fatalf("ApplyEnv failed: %v", err)
		}

		if config.Service.Endpoint != "https://env.example.com/exec" {
			t.Errorf("expected env endpoint, got %s", config.Service.Endpoint)
		}
		if config.Service.RateLimit != 1.5 {
			t.Errorf("expected env rate limit 1.5, got %v", config.Service.RateLimit)
		}
		if config.Database.Path != "/env/receipts.db" {
			t.Errorf("expected env db path, got %s", config.Database.Path)
		}
		if config.Log.Level != "debug" {
			t.Errorf("expected env log level debug, got %s", config.Log.Level)
		}
		if config.Service.Timeout != 30*time.Second {
			t.Errorf("unset variables should keep file values, got timeout %v", config.Service.Timeout)
		}
	})

	t.Run("ApplyEnv With Dotenv File", func(t *testing.T) {
		dotenv := filepath.Join(t.TempDir(), ".env")
		if err := os.WriteFile(dotenv, []byte("COURSEBOOK_EXPORT_WORKERS=7\n"), 0644); err != nil {
			t.Fatalf("failed to write dotenv: %v", err)
		}
		t.Cleanup(func() { os.Unsetenv("COURSEBOOK_EXPORT_WORKERS") })

		config := DefaultConfig()
		if err := config.ApplyEnv(dotenv); err != nil {
			t.Fatalf("ApplyEnv failed: %v", err)
		}
		if config.Export.Workers != 7 {
			t.Errorf("expected 7 workers from dotenv, got %d", config.Export.Workers)
		}
	})

	t.Run("ApplyEnv Invalid Value", func(t *testing.T) {
		t.Setenv("COURSEBOOK_TIMEOUT", "soon")

		config := DefaultConfig()
		err := config.ApplyEnv("")
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("Validate", func(t *testing.T) {
		tt := []struct {
			name   string
			mutate func(c *Config)
		}{
			{"empty endpoint", func(c *Config) { c.Service.Endpoint = "" }},
			{"non http endpoint", func(c *Config) { c.Service.Endpoint = "ftp://example.com/exec" }},
			{"negative rate limit", func(c *Config) { c.Service.RateLimit = -1 }},
			{"too many workers", func(c *Config) { c.Export.Workers = 50 }},
			{"unknown format", func(c *Config) { c.Export.Format = "xlsx" }},
			{"unknown log level", func(c *Config) { c.Log.Level = "loud" }},
		}

		for _, tc := range tt {
			t.Run(tc.name, func(t *testing.T) {
				config := DefaultConfig()
				tc.mutate(config)
				if err := config.Validate(); !errors.Is(err, ErrInvalidConfig) {
					t.Errorf("expected ErrInvalidConfig, got %v", err)
				}
			})
		}
	})
}
