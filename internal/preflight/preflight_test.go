package preflight

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"moviecat/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if !strings.Contains(result.Detail, "does not exist") {
		t.Fatalf("unexpected detail %q", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckCatalogFile(t *testing.T) {
	dir := t.TempDir()

	missing := CheckCatalogFile(filepath.Join(dir, "missing.json"))
	if !missing.Passed || !strings.Contains(missing.Detail, "not created yet") {
		t.Fatalf("missing file should pass, got %+v", missing)
	}

	good := filepath.Join(dir, "imdb.json")
	testsupport.WriteCatalog(t, good, testsupport.SampleMovies())
	result := CheckCatalogFile(good)
	if !result.Passed || !strings.Contains(result.Detail, "9 records") {
		t.Fatalf("expected 9 records, got %+v", result)
	}

	bad := filepath.Join(dir, "bad.json")
	testsupport.WriteFile(t, bad, []byte("not json"))
	if r := CheckCatalogFile(bad); r.Passed {
		t.Fatalf("expected failure for garbage, got %+v", r)
	}
}

func ollamaStub(t *testing.T, models string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(models))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCheckLLM_OllamaModelPresent(t *testing.T) {
	srv := ollamaStub(t, `{"models":[{"name":"qwen2.5:1.5b","model":"qwen2.5:1.5b"}]}`)
	cfg := testsupport.NewConfig(t, testsupport.WithLLMBaseURL(srv.URL))

	result := CheckLLM(context.Background(), cfg)
	if !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
}

func TestCheckLLM_OllamaModelMissing(t *testing.T) {
	srv := ollamaStub(t, `{"models":[{"name":"llama3:latest","model":"llama3:latest"}]}`)
	cfg := testsupport.NewConfig(t, testsupport.WithLLMBaseURL(srv.URL))

	result := CheckLLM(context.Background(), cfg)
	if result.Passed {
		t.Fatal("expected failure for missing model")
	}
	if !strings.Contains(result.Detail, "ollama pull") {
		t.Fatalf("expected pull hint, got %q", result.Detail)
	}
}

func TestCheckLLM_OpenAIWithoutKey(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.LLM.Provider = "openai"
	cfg.LLM.APIKey = ""

	result := CheckLLM(context.Background(), cfg)
	if result.Passed || result.Detail != "API key missing" {
		t.Fatalf("expected missing key failure, got %+v", result)
	}
}

func TestRunAll(t *testing.T) {
	srv := ollamaStub(t, `{"models":[{"name":"qwen2.5:1.5b"}]}`)
	cfg := testsupport.NewConfig(t, testsupport.WithLLMBaseURL(srv.URL), testsupport.WithSeededCatalog())
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}

	results := RunAll(context.Background(), cfg)
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d: %+v", len(results), results)
	}
	if failed := Failed(results); len(failed) != 0 {
		t.Fatalf("unexpected failures: %+v", failed)
	}
}
