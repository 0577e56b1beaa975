package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeAPI()
	c.normalizeLLM()
	if err := c.normalizeChat(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataFile) == "" {
		c.Paths.DataFile = defaultDataFile
	}
	if c.Paths.DataFile, err = expandPath(strings.TrimSpace(c.Paths.DataFile)); err != nil {
		return fmt.Errorf("paths.data_file: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = filepath.Dir(c.Paths.DataFile)
	}
	if c.Paths.StateDir, err = expandPath(strings.TrimSpace(c.Paths.StateDir)); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	// An empty log_dir disables the file log.
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeAPI() {
	c.API.Bind = strings.TrimSpace(c.API.Bind)
	if c.API.Bind == "" {
		c.API.Bind = defaultAPIBind
	}
	c.API.Token = strings.TrimSpace(c.API.Token)
	if c.API.Token == "" {
		if value, ok := os.LookupEnv("MOVIECAT_API_TOKEN"); ok {
			c.API.Token = strings.TrimSpace(value)
		}
	}
}

func (c *Config) normalizeLLM() {
	c.LLM.Provider = strings.ToLower(strings.TrimSpace(c.LLM.Provider))
	if c.LLM.Provider == "" {
		c.LLM.Provider = defaultLLMProvider
	}
	c.LLM.BaseURL = strings.TrimRight(strings.TrimSpace(c.LLM.BaseURL), "/")
	c.LLM.Model = strings.TrimSpace(c.LLM.Model)
	c.LLM.APIKey = strings.TrimSpace(c.LLM.APIKey)

	switch c.LLM.Provider {
	case ProviderOllama:
		if host, ok := os.LookupEnv("OLLAMA_HOST"); ok && strings.TrimSpace(host) != "" {
			if c.LLM.BaseURL == "" || c.LLM.BaseURL == defaultOllamaBaseURL {
				c.LLM.BaseURL = ollamaHostURL(host)
			}
		}
		if c.LLM.BaseURL == "" {
			c.LLM.BaseURL = defaultOllamaBaseURL
		}
		if c.LLM.Model == "" {
			c.LLM.Model = defaultOllamaModel
		}
	case ProviderOpenAI:
		// The ollama defaults stay in place when only the provider is changed.
		if c.LLM.BaseURL == "" || c.LLM.BaseURL == defaultOllamaBaseURL {
			c.LLM.BaseURL = defaultOpenAIBaseURL
		}
		if c.LLM.Model == "" || c.LLM.Model == defaultOllamaModel {
			c.LLM.Model = defaultOpenAIModel
		}
		if c.LLM.APIKey == "" {
			if value, ok := os.LookupEnv("OPENAI_API_KEY"); ok {
				c.LLM.APIKey = strings.TrimSpace(value)
			} else if value, ok := os.LookupEnv("OPENROUTER_API_KEY"); ok {
				c.LLM.APIKey = strings.TrimSpace(value)
			}
		}
	}

	c.LLM.Referer = strings.TrimSpace(c.LLM.Referer)
	if c.LLM.Referer == "" {
		c.LLM.Referer = defaultLLMReferer
	}
	c.LLM.Title = strings.TrimSpace(c.LLM.Title)
	if c.LLM.Title == "" {
		c.LLM.Title = defaultLLMTitle
	}
	if c.LLM.TimeoutSeconds <= 0 {
		c.LLM.TimeoutSeconds = defaultLLMTimeoutSeconds
	}
	if c.LLM.MaxAttempts <= 0 {
		c.LLM.MaxAttempts = defaultLLMMaxAttempts
	}
}

// ollamaHostURL accepts the OLLAMA_HOST forms "host:port" and "http://host:port".
func ollamaHostURL(host string) string {
	host = strings.TrimRight(strings.TrimSpace(host), "/")
	if strings.HasPrefix(host, "http://") || strings.HasPrefix(host, "https://") {
		return host
	}
	return "http://" + host
}

func (c *Config) normalizeChat() error {
	var err error
	c.Chat.JournalPath = strings.TrimSpace(c.Chat.JournalPath)
	if c.Chat.JournalPath == "" {
		c.Chat.JournalPath = filepath.Join(c.Paths.StateDir, defaultJournalFile)
	}
	if c.Chat.JournalPath, err = expandPath(c.Chat.JournalPath); err != nil {
		return fmt.Errorf("chat.journal_path: %w", err)
	}
	if c.Chat.HistoryLimit <= 0 {
		c.Chat.HistoryLimit = defaultChatHistoryLimit
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
