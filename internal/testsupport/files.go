package testsupport

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"moviecat/internal/catalog"
)

// WriteCatalog writes movies to path as a bare JSON array, the legacy
// imdb.json layout.
func WriteCatalog(t testing.TB, path string, movies []catalog.Movie) {
	t.Helper()
	data, err := json.MarshalIndent(movies, "", "  ")
	if err != nil {
		t.Fatalf("encode catalog: %v", err)
	}
	WriteFile(t, path, data)
}

// WriteFile writes data to path, creating parent directories.
func WriteFile(t testing.TB, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
