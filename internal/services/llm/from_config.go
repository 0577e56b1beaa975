package llm

import "moviecat/internal/config"

// FromConfig maps the [llm] config section onto a client Config. Replies are
// always requested as JSON objects, and llm.max_attempts bounds retries.
func FromConfig(cfg *config.Config) Config {
	return Config{
		Provider:       cfg.LLM.Provider,
		APIKey:         cfg.LLM.APIKey,
		BaseURL:        cfg.LLM.BaseURL,
		Model:          cfg.LLM.Model,
		Referer:        cfg.LLM.Referer,
		Title:          cfg.LLM.Title,
		TimeoutSeconds: cfg.LLM.TimeoutSeconds,
		MaxAttempts:    cfg.LLM.MaxAttempts,
		JSON:           true,
	}
}
