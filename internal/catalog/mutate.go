package catalog

import (
	"fmt"
	"strings"

	"moviecat/internal/services"
)

// Create validates input and appends a new record with the supplied id. The
// returned slice is a new backing array; records is left untouched.
func Create(records []Movie, input MovieInput, id int) ([]Movie, Movie, error) {
	input.Title = strings.TrimSpace(input.Title)
	if err := ValidateStruct("create", input); err != nil {
		return nil, Movie{}, err
	}
	if id < 1 {
		return nil, Movie{}, services.Wrap(services.ErrValidation, "catalog", "create", fmt.Sprintf("identifier must be positive, got %d", id), nil)
	}
	if indexOfTitle(records, input.Title) >= 0 {
		return nil, Movie{}, services.Wrap(services.ErrDuplicateTitle, "catalog", "create",
			fmt.Sprintf("movie with title %q already exists", input.Title), nil)
	}
	for _, m := range records {
		if m.ID == id {
			return nil, Movie{}, services.Wrap(services.ErrValidation, "catalog", "create", fmt.Sprintf("identifier %d already in use", id), nil)
		}
	}

	created := Movie{
		ID:          id,
		Title:       input.Title,
		Genre:       input.Genre,
		Description: input.Description,
		Director:    input.Director,
		Actors:      input.Actors,
		Year:        cloneInt(input.Year),
		Runtime:     cloneInt(input.Runtime),
		Rating:      cloneFloat(input.Rating),
		Votes:       cloneInt(input.Votes),
		Revenue:     cloneFloat(input.Revenue),
	}
	out := make([]Movie, 0, len(records)+1)
	out = append(out, records...)
	out = append(out, created)
	return out, created.Clone(), nil
}

// Update applies the non-nil fields of update to the first record matching
// title. Title uniqueness is not re-checked since the title cannot change.
func Update(records []Movie, title string, update MovieUpdate) ([]Movie, Movie, error) {
	if strings.TrimSpace(title) == "" {
		return nil, Movie{}, services.Wrap(services.ErrValidation, "catalog", "update", "title is required", nil)
	}
	if err := ValidateStruct("update", update); err != nil {
		return nil, Movie{}, err
	}
	idx := indexOfTitle(records, title)
	if idx < 0 {
		return nil, Movie{}, services.Wrap(services.ErrNotFound, "catalog", "update",
			fmt.Sprintf("movie with title %q not found", strings.TrimSpace(title)), nil)
	}

	out := make([]Movie, len(records))
	copy(out, records)
	target := out[idx].Clone()
	apply(&target, update)
	out[idx] = target
	return out, target.Clone(), nil
}

func apply(m *Movie, u MovieUpdate) {
	if u.Genre != nil {
		m.Genre = *u.Genre
	}
	if u.Description != nil {
		m.Description = *u.Description
	}
	if u.Director != nil {
		m.Director = *u.Director
	}
	if u.Actors != nil {
		m.Actors = *u.Actors
	}
	if u.Year != nil {
		m.Year = cloneInt(u.Year)
	}
	if u.Runtime != nil {
		m.Runtime = cloneInt(u.Runtime)
	}
	if u.Rating != nil {
		m.Rating = cloneFloat(u.Rating)
	}
	if u.Votes != nil {
		m.Votes = cloneInt(u.Votes)
	}
	if u.Revenue != nil {
		m.Revenue = cloneFloat(u.Revenue)
	}
}

// Delete removes every record whose title matches case-insensitively. When
// nothing matches, the original slice is returned unchanged with removed=0.
func Delete(records []Movie, title string) ([]Movie, int, error) {
	if strings.TrimSpace(title) == "" {
		return nil, 0, services.Wrap(services.ErrValidation, "catalog", "delete", "title is required", nil)
	}
	want := fold(strings.TrimSpace(title))
	out := make([]Movie, 0, len(records))
	for _, m := range records {
		if fold(strings.TrimSpace(m.Title)) == want {
			continue
		}
		out = append(out, m)
	}
	removed := len(records) - len(out)
	if removed == 0 {
		return records, 0, nil
	}
	return out, removed, nil
}

// DeleteMessage renders the human-readable outcome of a delete.
func DeleteMessage(title string, removed int) string {
	title = strings.TrimSpace(title)
	switch {
	case removed == 0:
		return fmt.Sprintf("Movie '%s' not found.", title)
	case removed == 1:
		return fmt.Sprintf("Movie '%s' was deleted successfully.", title)
	default:
		return fmt.Sprintf("Movie '%s' was deleted successfully (%d records removed).", title, removed)
	}
}
