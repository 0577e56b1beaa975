package config

const (
	defaultDataFile           = "~/.local/share/moviecat/imdb.json"
	defaultStateDir           = "~/.local/share/moviecat"
	defaultLogDir             = "~/.local/share/moviecat/logs"
	defaultAPIBind            = "127.0.0.1:5000"
	defaultLLMProvider        = ProviderOllama
	defaultOllamaBaseURL      = "http://127.0.0.1:11434"
	defaultOpenAIBaseURL      = "https://api.openai.com/v1"
	defaultOllamaModel        = "qwen2.5:1.5b"
	defaultOpenAIModel        = "gpt-4o-mini"
	defaultLLMTimeoutSeconds  = 60
	defaultLLMMaxAttempts     = 1
	maxLLMAttempts            = 5
	defaultLLMReferer         = "https://github.com/moviecat/moviecat"
	defaultLLMTitle           = "moviecat"
	defaultJournalFile        = "chat.db"
	defaultChatHistoryLimit   = 20
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	defaultConfigRelativePath = "~/.config/moviecat/config.toml"
	projectConfigFile         = "moviecat.toml"
)

// Provider names accepted by llm.provider.
const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataFile: defaultDataFile,
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		API: API{
			Bind: defaultAPIBind,
		},
		LLM: LLM{
			Provider:       defaultLLMProvider,
			BaseURL:        defaultOllamaBaseURL,
			Model:          defaultOllamaModel,
			Referer:        defaultLLMReferer,
			Title:          defaultLLMTitle,
			TimeoutSeconds: defaultLLMTimeoutSeconds,
			MaxAttempts:    defaultLLMMaxAttempts,
		},
		Chat: Chat{
			Journal:      true,
			HistoryLimit: defaultChatHistoryLimit,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
