package testsupport

import (
	"path/filepath"
	"testing"

	"moviecat/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t   testing.TB
	cfg *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// The language model points at an address nothing listens on.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataFile = filepath.Join(base, "data", "imdb.json")
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.LogDir = ""
	cfgVal.Chat.JournalPath = filepath.Join(base, "state", "chat.db")
	cfgVal.API.Bind = "127.0.0.1:0"
	cfgVal.LLM.BaseURL = "http://127.0.0.1:1"
	cfgVal.LLM.TimeoutSeconds = 2
	cfgVal.Logging.Level = "error"

	builder := &configBuilder{
		t:   t,
		cfg: &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithLLMBaseURL points the language model client at url.
func WithLLMBaseURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.LLM.BaseURL = url
	}
}

// WithSeededCatalog writes the sample catalog to the configured data file.
func WithSeededCatalog() ConfigOption {
	return func(b *configBuilder) {
		WriteCatalog(b.t, b.cfg.Paths.DataFile, SampleMovies())
	}
}
