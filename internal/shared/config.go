package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix prefixes every environment override, e.g. COURSEBOOK_ENDPOINT.
const EnvPrefix = "COURSEBOOK"

//go:embed config.example.toml
var exampleConf []byte

var validate = validator.New()

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Service  ServiceConfig  `toml:"service"`
	Database DatabaseConfig `toml:"database"`
	Log      LogConfig      `toml:"log"`
	Export   ExportConfig   `toml:"export"`
}

// ServiceConfig locates the remote booking service.
type ServiceConfig struct {
	Endpoint  string        `toml:"endpoint" validate:"required,http_url"`
	Timeout   time.Duration `toml:"timeout" validate:"gte=0"`
	RateLimit float64       `toml:"rate_limit" split_words:"true" validate:"gte=0"`
}

// DatabaseConfig contains settings for the local receipt journal.
type DatabaseConfig struct {
	Path         string `toml:"path" validate:"required"`
	MaxOpenConns int    `toml:"max_open_conns" split_words:"true" validate:"gte=0"`
	MaxIdleConns int    `toml:"max_idle_conns" split_words:"true" validate:"gte=0"`
}

// LogConfig controls the level and, for the TUI, the destination file.
type LogConfig struct {
	Level string `toml:"level" validate:"omitempty,oneof=debug info warn error fatal"`
	File  string `toml:"file"`
}

// ExportConfig holds defaults for the availability export.
type ExportConfig struct {
	Workers   int    `toml:"workers" validate:"gte=0,lte=10"`
	Format    string `toml:"format" validate:"omitempty,oneof=json csv markdown txt"`
	OutputDir string `toml:"output_dir" split_words:"true"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ApplyEnv loads the optional dotenv file and then overlays COURSEBOOK_* environment variables.
//
// Variables already present in the environment win over the dotenv file.
func (c *Config) ApplyEnv(dotenv string) error {
	if dotenv != "" {
		if _, err := os.Stat(dotenv); err == nil {
			if err := godotenv.Load(dotenv); err != nil {
				return fmt.Errorf("failed to load %s: %w", dotenv, err)
			}
		}
	}

	sections := []struct {
		prefix string
		spec   any
	}{
		{EnvPrefix, &c.Service},
		{EnvPrefix + "_DB", &c.Database},
		{EnvPrefix + "_LOG", &c.Log},
		{EnvPrefix + "_EXPORT", &c.Export},
	}
	for _, s := range sections {
		if err := envconfig.Process(s.prefix, s.spec); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	}
	return nil
}

// Validate checks the loaded values against their declared constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}
