package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for config:
// - Defaults load without any config file
// - YAML file values override defaults
// - Environment variables override the file
// - Explicit --config path that cannot be read is an error
// - Validate rejects bad providers, token counts, sampling params

func TestLoader_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := LoadConfigFromDir(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "openai", cfg.Model.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.Model.Name)
	assert.Equal(t, 4096, cfg.Model.MaxTokens)
	assert.Equal(t, 3000, cfg.Prompts.MaxChunkSize)
	assert.Equal(t, 5, cfg.Prompts.ContextLines)
	assert.Contains(t, cfg.Parsing.ExcludeDirs, "node_modules")
	assert.Contains(t, cfg.Parsing.SupportedExtensions, ".py")
}

func TestLoader_FileOverrides(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	configDir := filepath.Join(root, ".repowhisperer")
	require.NoError(t, os.MkdirAll(configDir, 0o755))

	yaml := `model:
  provider: gemini
  name: gemini-2.0-flash
prompts:
  max_chunk_size: 1500
`
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.yml"), []byte(yaml), 0o644))

	cfg, err := LoadConfigFromDir(root)
	require.NoError(t, err)

	assert.Equal(t, "gemini", cfg.Model.Provider)
	assert.Equal(t, "gemini-2.0-flash", cfg.Model.Name)
	assert.Equal(t, 1500, cfg.Prompts.MaxChunkSize)
	// Untouched keys keep defaults.
	assert.Equal(t, 4096, cfg.Model.MaxTokens)
}

func TestLoader_EnvOverridesFile(t *testing.T) {
	// Not parallel: mutates process environment.
	t.Setenv("REPOWHISPERER_MODEL_NAME", "gpt-4.1")

	root := t.TempDir()
	configDir := filepath.Join(root, ".repowhisperer")
	require.NoError(t, os.MkdirAll(configDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.yml"),
		[]byte("model:\n  name: from-file\n"), 0o644))

	cfg, err := LoadConfigFromDir(root)
	require.NoError(t, err)
	assert.Equal(t, "gpt-4.1", cfg.Model.Name)
}

func TestLoader_ExplicitFileMissing(t *testing.T) {
	t.Parallel()

	_, err := NewFileLoader(filepath.Join(t.TempDir(), "nope.yml")).Load()
	assert.Error(t, err)
}

func TestLoader_InvalidValuesRejected(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	configDir := filepath.Join(root, ".repowhisperer")
	require.NoError(t, os.MkdirAll(configDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.yml"),
		[]byte("model:\n  provider: anthropic\n"), 0o644))

	_, err := LoadConfigFromDir(root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model.provider")
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid defaults", func(c *Config) {}, ""},
		{"bad provider", func(c *Config) { c.Model.Provider = "llama" }, "model.provider"},
		{"zero max tokens", func(c *Config) { c.Model.MaxTokens = 0 }, "model.max_tokens"},
		{"temperature too high", func(c *Config) { c.Model.Temperature = 3 }, "model.temperature"},
		{"top_p zero", func(c *Config) { c.Model.TopP = 0 }, "model.top_p"},
		{"top_p above one", func(c *Config) { c.Model.TopP = 1.5 }, "model.top_p"},
		{"zero chunk size", func(c *Config) { c.Prompts.MaxChunkSize = 0 }, "prompts.max_chunk_size"},
		{"negative context lines", func(c *Config) { c.Prompts.ContextLines = -1 }, "prompts.context_lines"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			tt.mutate(cfg)

			err := Validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestValidate_NilConfig(t *testing.T) {
	t.Parallel()

	assert.Error(t, Validate(nil))
}
