package config

// Config represents the complete repowhisperer configuration.
// It can be loaded from .repowhisperer/config.yml with environment variable
// overrides. Components receive it as an immutable value; nothing mutates it
// after loading.
type Config struct {
	Model   ModelConfig   `yaml:"model" mapstructure:"model"`
	Parsing ParsingConfig `yaml:"parsing" mapstructure:"parsing"`
	Prompts PromptsConfig `yaml:"prompts" mapstructure:"prompts"`
	Output  OutputConfig  `yaml:"output" mapstructure:"output"`
}

// ModelConfig configures the inference provider.
type ModelConfig struct {
	Provider    string  `yaml:"provider" mapstructure:"provider"`       // "openai" or "gemini"
	Name        string  `yaml:"name" mapstructure:"name"`               // e.g., "gpt-4o-mini"
	MaxTokens   int     `yaml:"max_tokens" mapstructure:"max_tokens"`   // max tokens per completion
	Temperature float64 `yaml:"temperature" mapstructure:"temperature"` // sampling temperature
	TopP        float64 `yaml:"top_p" mapstructure:"top_p"`             // nucleus sampling cutoff
}

// ParsingConfig defines which files the extractor scans.
type ParsingConfig struct {
	ExcludeDirs         []string `yaml:"exclude_dirs" mapstructure:"exclude_dirs"`                 // directory names to skip
	ExcludeFiles        []string `yaml:"exclude_files" mapstructure:"exclude_files"`               // basename globs to skip
	SupportedExtensions []string `yaml:"supported_extensions" mapstructure:"supported_extensions"` // extensions with leading dot
}

// PromptsConfig defines how extracted structure is packed into prompts.
type PromptsConfig struct {
	MaxChunkSize int `yaml:"max_chunk_size" mapstructure:"max_chunk_size"` // max estimated tokens per chunk
	ContextLines int `yaml:"context_lines" mapstructure:"context_lines"`   // snippet lines captured per declaration, 0 disables
}

// OutputConfig defines where the assembled document is written.
type OutputConfig struct {
	Path string `yaml:"path" mapstructure:"path"` // empty means <repo>/README.md
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Model: ModelConfig{
			Provider:    "openai",
			Name:        "gpt-4o-mini",
			MaxTokens:   4096,
			Temperature: 0.1,
			TopP:        0.95,
		},
		Parsing: ParsingConfig{
			ExcludeDirs: []string{
				".git",
				"__pycache__",
				"node_modules",
				"venv",
				"vendor",
				"dist",
				"build",
				"target",
			},
			ExcludeFiles: []string{
				"*.pyc",
				"*.log",
				"*.min.js",
			},
			SupportedExtensions: []string{
				".py",
				".js",
				".jsx",
				".ts",
				".tsx",
				".java",
				".c",
				".h",
				".cpp",
				".hpp",
				".go",
				".rs",
			},
		},
		Prompts: PromptsConfig{
			MaxChunkSize: 3000,
			ContextLines: 5,
		},
		Output: OutputConfig{
			Path: "",
		},
	}
}
