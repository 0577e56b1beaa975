package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out := env.mustRun(t, "config", "validate")
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, env.dataFile)

	target := filepath.Join(t.TempDir(), "config.toml")
	out = env.mustRun(t, "config", "init", "--path", target)
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := env.run(t, "config", "init", "--path", target); err == nil {
		t.Fatal("expected error when config already exists")
	}
}

func TestInvalidConfigFails(t *testing.T) {
	env := setupCLITestEnv(t)
	if err := os.WriteFile(env.configPath, []byte("[paths]\nunknown_key = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, _, err := env.run(t, "list")
	if err == nil || !strings.Contains(err.Error(), "configuration error") {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestListTable(t *testing.T) {
	env := setupCLITestEnv(t)
	out := env.mustRun(t, "list", "--min-rating", "8.5", "--sort", "rating", "--order", "desc")
	requireContains(t, out, "The Dark Knight")
	requireContains(t, out, "Inception")
	requireContains(t, out, "2 movie(s)")
	if strings.Index(out, "The Dark Knight") > strings.Index(out, "Inception") {
		t.Fatalf("expected descending rating order:\n%s", out)
	}
	if strings.Contains(out, "Split") {
		t.Fatalf("filter leaked Split:\n%s", out)
	}
}

func TestListJSON(t *testing.T) {
	env := setupCLITestEnv(t)
	out := env.mustRun(t, "--json", "list", "--director", "nolan", "--fields", "Title,Year")
	var res struct {
		Count  int              `json:"count"`
		Movies []map[string]any `json:"movies"`
	}
	decodeJSON(t, out, &res)
	if res.Count != 2 || len(res.Movies) != 2 {
		t.Fatalf("expected two Nolan films, got %+v", res)
	}
	if _, ok := res.Movies[0]["Rating"]; ok {
		t.Fatalf("projection leaked Rating: %v", res.Movies[0])
	}
}

func TestListNoResultsAndBadFlags(t *testing.T) {
	env := setupCLITestEnv(t)
	out := env.mustRun(t, "list", "--year", "1950")
	requireContains(t, out, "No result found.")

	if _, _, err := env.run(t, "list", "--limit", "0"); err == nil {
		t.Fatal("expected validation error for limit 0")
	}
	if _, _, err := env.run(t, "list", "--sort", "title"); err == nil {
		t.Fatal("expected validation error for non-numeric sort field")
	}
}

func TestGet(t *testing.T) {
	env := setupCLITestEnv(t)
	out := env.mustRun(t, "get", "the revenant")
	requireContains(t, out, "Alejandro González Iñárritu")

	out = env.mustRun(t, "get", "Nope")
	requireContains(t, out, "not found")
}

func TestMovieLifecycle(t *testing.T) {
	env := setupCLITestEnv(t)

	out := env.mustRun(t, "add", "--title", "Tenet", "--year", "2020", "--rating", "7.4", "--director", "Christopher Nolan")
	requireContains(t, out, "Movie added.")

	var got struct {
		Found bool           `json:"found"`
		Movie map[string]any `json:"movie"`
	}
	decodeJSON(t, env.mustRun(t, "--json", "get", "tenet"), &got)
	if !got.Found || got.Movie["Ids"] != float64(10) || got.Movie["Runtime"] != nil {
		t.Fatalf("unexpected created movie %+v", got)
	}

	if _, _, err := env.run(t, "add", "--title", "TENET"); err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Fatalf("expected duplicate error, got %v", err)
	}

	out = env.mustRun(t, "update", "Tenet", "--runtime", "150")
	requireContains(t, out, "Movie updated.")
	requireContains(t, out, "150")

	if _, _, err := env.run(t, "update", "Tenet"); err == nil {
		t.Fatal("expected error for empty update")
	}
	if _, _, err := env.run(t, "update", "Unknown Film", "--year", "2001"); err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not found, got %v", err)
	}

	out = env.mustRun(t, "delete", "tenet")
	requireContains(t, out, "was deleted successfully")
	out = env.mustRun(t, "delete", "tenet")
	requireContains(t, out, "Movie 'tenet' not found.")

	env.mustRun(t, "add", "--title", "Memento")
	decodeJSON(t, env.mustRun(t, "--json", "get", "memento"), &got)
	if got.Movie["Ids"] != float64(11) {
		t.Fatalf("identifier reused: %v", got.Movie["Ids"])
	}
}

func TestAddRequiresTitle(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := env.run(t, "add", "--year", "2020"); err == nil {
		t.Fatal("expected error without --title")
	}
}

func TestExportImport(t *testing.T) {
	env := setupCLITestEnv(t)
	exportPath := filepath.Join(t.TempDir(), "export.json")
	env.mustRun(t, "export", "--output", exportPath)

	var exported []map[string]any
	data, err := os.ReadFile(exportPath)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	decodeJSON(t, string(data), &exported)
	if len(exported) != 9 {
		t.Fatalf("expected 9 exported records, got %d", len(exported))
	}

	env.mustRun(t, "delete", "Sing")

	if _, _, err := env.run(t, "import", exportPath); err == nil {
		t.Fatal("expected import into non-empty catalog to require --force")
	}
	out := env.mustRun(t, "import", "--force", exportPath)
	requireContains(t, out, "Imported 9 records")
	if _, err := os.Stat(env.dataFile + ".bak"); err != nil {
		t.Fatalf("expected backup: %v", err)
	}
	requireContains(t, env.mustRun(t, "get", "sing"), "Christophe Lourdelet")
}

func TestStatusJSON(t *testing.T) {
	env := setupCLITestEnv(t)
	var report struct {
		ConfigPath string `json:"config_path"`
		Records    int    `json:"records"`
		LastID     int    `json:"last_id"`
		Checks     []struct {
			Name   string `json:"name"`
			Passed bool   `json:"passed"`
			Detail string `json:"detail"`
		} `json:"checks"`
	}
	decodeJSON(t, env.mustRun(t, "--json", "status"), &report)
	if report.ConfigPath != env.configPath || report.Records != 9 || report.LastID != 9 {
		t.Fatalf("unexpected report %+v", report)
	}
	for _, check := range report.Checks {
		if !check.Passed {
			t.Fatalf("check %s failed: %s", check.Name, check.Detail)
		}
	}
}

func TestStatusText(t *testing.T) {
	env := setupCLITestEnv(t)
	out := env.mustRun(t, "status")
	requireContains(t, out, "== Catalog ==")
	requireContains(t, out, "9 (last id 9)")
	requireContains(t, out, "[OK]")
}
