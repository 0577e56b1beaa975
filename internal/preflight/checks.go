package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"golang.org/x/sys/unix"

	"moviecat/internal/config"
	"moviecat/internal/services/llm"
	"moviecat/internal/store"
)

const llmCheckTimeout = 30 * time.Second

// CheckLLM verifies that the language model endpoint is reachable and serves
// the configured model. It makes a single attempt.
func CheckLLM(ctx context.Context, cfg *config.Config) Result {
	name := fmt.Sprintf("Language model (%s)", cfg.LLM.Provider)
	if cfg.LLM.Provider == config.ProviderOpenAI && cfg.LLM.APIKey == "" {
		return Result{Name: name, Detail: "API key missing"}
	}

	gen, err := llm.New(llm.FromConfig(cfg), llm.WithRetryMaxAttempts(1))
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	checker, ok := gen.(llm.HealthChecker)
	if !ok {
		return Result{Name: name, Passed: true, Detail: "health check not supported"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, llmCheckTimeout)
	defer cancel()
	if err := checker.HealthCheck(checkCtx); err != nil {
		return Result{Name: name, Detail: summarizeLLMError(err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s reachable, model %s", cfg.LLM.BaseURL, cfg.LLM.Model)}
}

// CheckCatalogFile verifies that the catalog file parses. A missing file
// passes because the store creates it on first write.
func CheckCatalogFile(path string) Result {
	const name = "Catalog file"
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (not created yet)", path)}
	}
	state, reassigned, err := store.Load(path)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	detail := fmt.Sprintf("%s (%d records)", path, len(state.Movies))
	if reassigned > 0 {
		detail = fmt.Sprintf("%s (%d records, %d ids will be reassigned on next write)", path, len(state.Movies), reassigned)
	}
	return Result{Name: name, Passed: true, Detail: detail}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// summarizeLLMError produces a human-readable summary for health check failures.
func summarizeLLMError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "health check timed out (language model unresponsive)"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "health check timed out (language model unreachable)"
	}
	return err.Error()
}
