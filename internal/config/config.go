package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/mcncl/nestedcsv/internal/formatter"
)

// Config represents the complete configuration for nestedcsv
type Config struct {
	Headers HeadersConfig `yaml:"headers"`
	Output  OutputConfig  `yaml:"output"`
	Dev     DevConfig     `yaml:"dev"`
}

// HeadersConfig controls how CSV headers are presented
type HeadersConfig struct {
	// Case is one of none, snake, camel, lower-camel, kebab
	Case string `yaml:"case"`
}

// OutputConfig controls output generation options
type OutputConfig struct {
	WarnNested      bool `yaml:"warn_nested"`
	TrailingNewline bool `yaml:"trailing_newline"`
}

// DevConfig contains development/debug options
type DevConfig struct {
	Debug bool `yaml:"debug"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Headers: HeadersConfig{
			Case: string(formatter.HeaderCaseNone),
		},
		Output: OutputConfig{
			WarnNested:      true,
			TrailingNewline: false,
		},
		Dev: DevConfig{
			Debug: false,
		},
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults
	cfg := NewConfig()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file: %w", err)
	}

	return cfg, nil
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}
	return findConfigFileFrom(currentDir)
}

func findConfigFileFrom(dir string) string {
	configNames := []string{".nestedcsv.yml", ".nestedcsv.yaml", "nestedcsv.yml", "nestedcsv.yaml"}

	currentDir := dir
	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root directory
			break
		}
		currentDir = parentDir
	}

	return ""
}

// Validate checks option values that YAML cannot constrain
func (c *Config) Validate() error {
	_, err := formatter.ParseHeaderCase(c.Headers.Case)
	return err
}

// HeaderCase returns the validated header case, falling back to none
func (c *Config) HeaderCase() formatter.HeaderCase {
	hc, err := formatter.ParseHeaderCase(c.Headers.Case)
	if err != nil {
		return formatter.HeaderCaseNone
	}
	return hc
}

// LoadConfigWithCLI loads config with CLI argument precedence.
// An empty configPath uses defaults; empty CLI values keep the file values.
func LoadConfigWithCLI(configPath, cliHeaderCase string, cliDebug bool) (*Config, error) {
	cfg := NewConfig()

	if configPath != "" {
		fileConfig, err := LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileConfig
	}

	if cliHeaderCase != "" {
		cfg.Headers.Case = cliHeaderCase
	}
	// Debug can only be switched on from the command line
	if cliDebug {
		cfg.Dev.Debug = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
