package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"moviecat/internal/testsupport"
)

type cliTestEnv struct {
	baseDir    string
	configPath string
	dataFile   string
	journal    string
	llm        *llmStub
}

// llmStub mimics the Ollama chat and tags endpoints.
type llmStub struct {
	mu      sync.Mutex
	replies []string
	server  *httptest.Server
}

func (s *llmStub) reply(content ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replies = append(s.replies, content...)
}

func (s *llmStub) next() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.replies) == 0 {
		return ""
	}
	r := s.replies[0]
	s.replies = s.replies[1:]
	return r
}

func newLLMStub(t *testing.T) *llmStub {
	t.Helper()
	stub := &llmStub{}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/tags", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"models":[{"name":"qwen2.5:1.5b","model":"qwen2.5:1.5b"}]}`))
	})
	mux.HandleFunc("/api/chat", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"message": map[string]string{"role": "assistant", "content": stub.next()},
			"done":    true,
		})
	})
	stub.server = httptest.NewServer(mux)
	t.Cleanup(stub.server.Close)
	return stub
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	t.Setenv("HOME", filepath.Join(base, "home"))
	for _, key := range []string{"MOVIECAT_API_TOKEN", "OPENAI_API_KEY", "OPENROUTER_API_KEY", "OLLAMA_HOST"} {
		t.Setenv(key, "")
	}
	t.Setenv("NO_COLOR", "1")

	stub := newLLMStub(t)
	env := &cliTestEnv{
		baseDir:    base,
		configPath: filepath.Join(base, "config.toml"),
		dataFile:   filepath.Join(base, "data", "imdb.json"),
		journal:    filepath.Join(base, "state", "chat.db"),
		llm:        stub,
	}
	testsupport.WriteCatalog(t, env.dataFile, testsupport.SampleMovies())

	content := fmt.Sprintf(`[paths]
data_file = %q
state_dir = %q
log_dir = ""

[llm]
provider = "ollama"
base_url = %q
model = "qwen2.5:1.5b"
timeout_seconds = 5

[chat]
journal = true
journal_path = %q

[logging]
level = "error"
`, env.dataFile, filepath.Join(base, "state"), stub.server.URL, env.journal)
	if err := os.WriteFile(env.configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return env
}

func (e *cliTestEnv) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	return e.runWithInput(t, "", args...)
}

func (e *cliTestEnv) runWithInput(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--config", e.configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func (e *cliTestEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, stderr, err := e.run(t, args...)
	if err != nil {
		t.Fatalf("moviecat %s: %v (stderr: %s)", strings.Join(args, " "), err, stderr)
	}
	return out
}

func decodeJSON(t *testing.T, data string, target any) {
	t.Helper()
	if err := json.Unmarshal([]byte(data), target); err != nil {
		t.Fatalf("decode %q: %v", data, err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
