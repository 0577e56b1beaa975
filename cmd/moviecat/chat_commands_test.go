package main

import (
	"strings"
	"testing"
)

func TestChatOneShot(t *testing.T) {
	env := setupCLITestEnv(t)
	env.llm.reply(`{"operation":"listMovies","filter":{"directorContains":"Nolan"},"sortBy":"Year","order":"ASC","fields":["Title","Year"]}`)

	var resp struct {
		RequestID string `json:"request_id"`
		Request   struct {
			Operation string `json:"operation"`
		} `json:"request"`
		Result struct {
			Count  int              `json:"count"`
			Movies []map[string]any `json:"movies"`
		} `json:"result"`
	}
	decodeJSON(t, env.mustRun(t, "--json", "chat", "nolan", "films", "oldest", "first"), &resp)
	if resp.RequestID == "" || resp.Request.Operation != "listMovies" {
		t.Fatalf("unexpected chat envelope %+v", resp)
	}
	if resp.Result.Count != 2 || resp.Result.Movies[0]["Title"] != "The Dark Knight" {
		t.Fatalf("unexpected chat result %+v", resp.Result)
	}

	var history []struct {
		RequestID string `json:"request_id"`
		Query     string `json:"query"`
		Outcome   string `json:"outcome"`
	}
	decodeJSON(t, env.mustRun(t, "--json", "history"), &history)
	if len(history) != 1 || history[0].RequestID != resp.RequestID || history[0].Query != "nolan films oldest first" {
		t.Fatalf("unexpected history %+v", history)
	}
}

func TestChatLoopSurvivesBadReplies(t *testing.T) {
	env := setupCLITestEnv(t)
	env.llm.reply(
		"I am not sure what you mean.",
		`{"operation":"deleteMovie","title":"Split"}`,
	)

	out, stderr, err := env.runWithInput(t, "what?\n\ndelete split\nexit\nlist everything\n", "chat", "--show-request")
	if err != nil {
		t.Fatalf("chat loop: %v", err)
	}
	if !strings.Contains(stderr, "error (translation)") {
		t.Fatalf("expected translation error on stderr, got %q", stderr)
	}
	requireContains(t, out, `{"operation":"deleteMovie","title":"Split"}`)
	requireContains(t, out, "Movie 'Split' was deleted successfully.")

	requireContains(t, env.mustRun(t, "get", "split"), "not found")

	out = env.mustRun(t, "history")
	requireContains(t, out, "translation")
	requireContains(t, out, "deleteMovie")
}

func TestChatExecutionFailureShowsDerivedRequest(t *testing.T) {
	env := setupCLITestEnv(t)
	duplicate := `{"operation":"createMovie","input":{"Title":"inception"}}`
	env.llm.reply(duplicate, duplicate)

	out, _, err := env.run(t, "--json", "chat", "add", "inception")
	if err == nil || !strings.Contains(err.Error(), "duplicate title") {
		t.Fatalf("expected duplicate title error, got %v", err)
	}
	var failure struct {
		RequestID string `json:"request_id"`
		Request   struct {
			Operation string `json:"operation"`
		} `json:"request"`
		Kind string `json:"kind"`
	}
	decodeJSON(t, out, &failure)
	if failure.RequestID == "" || failure.Request.Operation != "createMovie" || failure.Kind != "duplicate_title" {
		t.Fatalf("unexpected failure envelope %+v", failure)
	}

	out, _, err = env.run(t, "chat", "--show-request", "add", "inception")
	if err == nil {
		t.Fatal("expected duplicate title error")
	}
	requireContains(t, out, duplicate)
}

func TestChatUnreachableModel(t *testing.T) {
	env := setupCLITestEnv(t)
	env.llm.server.Close()
	_, _, err := env.run(t, "chat", "top movies")
	if err == nil || !strings.Contains(err.Error(), "upstream unavailable") {
		t.Fatalf("expected upstream error, got %v", err)
	}
}
