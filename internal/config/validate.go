package config

import "fmt"

// Validate checks a loaded configuration for values the pipeline cannot
// work with. It does not fill in missing values; defaults are the loader's
// responsibility.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	if err := validateModel(&cfg.Model); err != nil {
		return err
	}
	if err := validatePrompts(&cfg.Prompts); err != nil {
		return err
	}

	return nil
}

func validateModel(cfg *ModelConfig) error {
	switch cfg.Provider {
	case "openai", "gemini":
	default:
		return fmt.Errorf("model.provider must be \"openai\" or \"gemini\", got %q", cfg.Provider)
	}

	if cfg.MaxTokens <= 0 {
		return fmt.Errorf("model.max_tokens must be positive, got %d", cfg.MaxTokens)
	}
	if cfg.Temperature < 0 || cfg.Temperature > 2 {
		return fmt.Errorf("model.temperature must be in [0, 2], got %g", cfg.Temperature)
	}
	if cfg.TopP <= 0 || cfg.TopP > 1 {
		return fmt.Errorf("model.top_p must be in (0, 1], got %g", cfg.TopP)
	}

	return nil
}

func validatePrompts(cfg *PromptsConfig) error {
	if cfg.MaxChunkSize <= 0 {
		return fmt.Errorf("prompts.max_chunk_size must be positive, got %d", cfg.MaxChunkSize)
	}
	if cfg.ContextLines < 0 {
		return fmt.Errorf("prompts.context_lines must not be negative, got %d", cfg.ContextLines)
	}

	return nil
}
