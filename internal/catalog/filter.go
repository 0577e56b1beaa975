package catalog

import (
	"fmt"
	"strings"

	"moviecat/internal/services"
)

// Filter is a conjunction of optional predicates. A nil field is not applied.
type Filter struct {
	TitleEquals      *string  `json:"titleEquals,omitempty"`
	TitleContains    *string  `json:"titleContains,omitempty"`
	MinRating        *float64 `json:"minRating,omitempty"`
	MinYear          *int     `json:"minYear,omitempty"`
	MaxYear          *int     `json:"maxYear,omitempty"`
	ExactYear        *int     `json:"exactYear,omitempty"`
	MinRuntime       *int     `json:"minRuntime,omitempty"`
	MaxRuntime       *int     `json:"maxRuntime,omitempty"`
	GenreContains    *string  `json:"genreContains,omitempty"`
	DirectorContains *string  `json:"directorContains,omitempty"`
	ActorContains    *string  `json:"actorContains,omitempty"`
}

// IsZero reports whether no predicate is set.
func (f Filter) IsZero() bool {
	return f == Filter{}
}

// Validate rejects blank text predicates. A blank substring would match
// every record that has the field and drop every record that lacks it.
func (f Filter) Validate() error {
	text := []struct {
		name  string
		value *string
	}{
		{"titleEquals", f.TitleEquals},
		{"titleContains", f.TitleContains},
		{"genreContains", f.GenreContains},
		{"directorContains", f.DirectorContains},
		{"actorContains", f.ActorContains},
	}
	for _, p := range text {
		if p.value != nil && strings.TrimSpace(*p.value) == "" {
			return services.Wrap(services.ErrValidation, "catalog", "filter", fmt.Sprintf("%s must not be blank", p.name), nil)
		}
	}
	return nil
}

// Matches reports whether m satisfies every present predicate.
func (f Filter) Matches(m Movie) bool {
	if f.TitleEquals != nil && !SameTitle(m.Title, *f.TitleEquals) {
		return false
	}
	if f.TitleContains != nil && !containsFolded(m.Title, strings.TrimSpace(*f.TitleContains)) {
		return false
	}
	if f.MinRating != nil && (m.Rating == nil || *m.Rating < *f.MinRating) {
		return false
	}
	if f.MinYear != nil && (m.Year == nil || *m.Year < *f.MinYear) {
		return false
	}
	if f.MaxYear != nil && (m.Year == nil || *m.Year > *f.MaxYear) {
		return false
	}
	if f.ExactYear != nil && (m.Year == nil || *m.Year != *f.ExactYear) {
		return false
	}
	if f.MinRuntime != nil && (m.Runtime == nil || *m.Runtime < *f.MinRuntime) {
		return false
	}
	if f.MaxRuntime != nil && (m.Runtime == nil || *m.Runtime > *f.MaxRuntime) {
		return false
	}
	if f.GenreContains != nil && !containsFolded(m.Genre, *f.GenreContains) {
		return false
	}
	if f.DirectorContains != nil && !containsFolded(m.Director, *f.DirectorContains) {
		return false
	}
	if f.ActorContains != nil && !containsFolded(m.Actors, *f.ActorContains) {
		return false
	}
	return true
}
