package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Loader provides configuration loading capabilities.
type Loader interface {
	// Load loads configuration from file and environment variables.
	// Priority: defaults → config file → environment variables (env wins)
	Load() (*Config, error)
}

type loader struct {
	rootDir  string
	filePath string
}

// NewLoader creates a new configuration loader for the given root directory.
// It searches for .repowhisperer/config.yml under the root.
func NewLoader(rootDir string) Loader {
	return &loader{rootDir: rootDir}
}

// NewFileLoader creates a loader that reads an explicit config file path.
func NewFileLoader(filePath string) Loader {
	return &loader{filePath: filePath}
}

// Load loads configuration with the following priority (highest to lowest):
// 1. Environment variables (REPOWHISPERER_*)
// 2. Config file (.repowhisperer/config.yml or the explicit path)
// 3. Default values
func (l *loader) Load() (*Config, error) {
	v := viper.New()

	if l.filePath != "" {
		v.SetConfigFile(l.filePath)
	} else {
		configDir := filepath.Join(l.rootDir, ".repowhisperer")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(configDir)
	}

	// Enable environment variable overrides
	// (e.g., REPOWHISPERER_MODEL_PROVIDER)
	v.SetEnvPrefix("REPOWHISPERER")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.BindEnv("model.provider")
	v.BindEnv("model.name")
	v.BindEnv("model.max_tokens")
	v.BindEnv("model.temperature")
	v.BindEnv("model.top_p")
	v.BindEnv("prompts.max_chunk_size")
	v.BindEnv("prompts.context_lines")
	v.BindEnv("output.path")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is acceptable - defaults + env vars apply.
		// An explicit --config path that cannot be read is not.
		_, notFound := err.(viper.ConfigFileNotFoundError)
		if !notFound || l.filePath != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setDefaults configures viper with default values.
func setDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("model.provider", defaults.Model.Provider)
	v.SetDefault("model.name", defaults.Model.Name)
	v.SetDefault("model.max_tokens", defaults.Model.MaxTokens)
	v.SetDefault("model.temperature", defaults.Model.Temperature)
	v.SetDefault("model.top_p", defaults.Model.TopP)

	v.SetDefault("parsing.exclude_dirs", defaults.Parsing.ExcludeDirs)
	v.SetDefault("parsing.exclude_files", defaults.Parsing.ExcludeFiles)
	v.SetDefault("parsing.supported_extensions", defaults.Parsing.SupportedExtensions)

	v.SetDefault("prompts.max_chunk_size", defaults.Prompts.MaxChunkSize)
	v.SetDefault("prompts.context_lines", defaults.Prompts.ContextLines)

	v.SetDefault("output.path", defaults.Output.Path)
}

// LoadConfigFromDir loads configuration from a specific repository directory.
func LoadConfigFromDir(rootDir string) (*Config, error) {
	return NewLoader(rootDir).Load()
}
