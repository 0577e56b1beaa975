package api

import (
	"encoding/json"

	"moviecat/internal/catalog"
)

// NoResultsMessage accompanies an empty listMovies result.
const NoResultsMessage = "No result found."

// Result is the outcome of an executed Request. Record payloads are projected
// onto the requested fields; Records keeps the typed values for local callers.
type Result struct {
	Operation Operation        `json:"operation"`
	Count     *int             `json:"count,omitempty"`
	Movies    []map[string]any `json:"movies,omitempty"`
	Found     *bool            `json:"found,omitempty"`
	Movie     map[string]any   `json:"movie,omitempty"`
	Removed   *bool            `json:"removed,omitempty"`
	Message   string           `json:"message,omitempty"`
	// Suggestions lists similar titles when getMovie misses.
	Suggestions []string `json:"suggestions,omitempty"`

	Records []catalog.Movie `json:"-"`
}

// MarshalJSON always emits movies for listMovies, as [] when nothing matched.
func (r Result) MarshalJSON() ([]byte, error) {
	type plain Result
	if r.Operation != OpListMovies {
		return json.Marshal(plain(r))
	}
	movies := r.Movies
	if movies == nil {
		movies = []map[string]any{}
	}
	return json.Marshal(struct {
		plain
		Movies []map[string]any `json:"movies"`
	}{plain(r), movies})
}

func listResult(records []catalog.Movie, fields []string) Result {
	count := len(records)
	movies := make([]map[string]any, 0, len(records))
	for _, m := range records {
		movies = append(movies, catalog.Project(m, fields))
	}
	res := Result{Operation: OpListMovies, Count: &count, Movies: movies, Records: records}
	if count == 0 {
		res.Message = NoResultsMessage
	}
	return res
}

func movieResult(op Operation, m catalog.Movie, fields []string) Result {
	found := true
	return Result{
		Operation: op,
		Found:     &found,
		Movie:     catalog.Project(m, fields),
		Records:   []catalog.Movie{m},
	}
}

func notFoundResult(title string, suggestions []string) Result {
	found := false
	return Result{
		Operation:   OpGetMovie,
		Found:       &found,
		Message:     catalog.DeleteMessage(title, 0),
		Suggestions: suggestions,
		Records:     []catalog.Movie{},
	}
}

func deleteResult(title string, removed int) Result {
	ok := removed > 0
	return Result{
		Operation: OpDeleteMovie,
		Removed:   &ok,
		Message:   catalog.DeleteMessage(title, removed),
	}
}
