package catalog

import (
	"strings"

	"golang.org/x/text/cases"
)

// Movie is one catalog record. Optional numeric fields are pointers so an
// absent value survives a save/load cycle distinct from zero.
type Movie struct {
	ID          int      `json:"Ids"`
	Title       string   `json:"Title"`
	Genre       string   `json:"Genre,omitempty"`
	Description string   `json:"Description,omitempty"`
	Director    string   `json:"Director,omitempty"`
	Actors      string   `json:"Actors,omitempty"`
	Year        *int     `json:"Year,omitempty"`
	Runtime     *int     `json:"Runtime,omitempty"`
	Rating      *float64 `json:"Rating,omitempty"`
	Votes       *int     `json:"Votes,omitempty"`
	Revenue     *float64 `json:"Revenue,omitempty"`
}

// MovieInput carries the fields accepted by Create. The identifier is always
// assigned by the store.
type MovieInput struct {
	Title       string   `json:"Title" validate:"required,max=512"`
	Genre       string   `json:"Genre,omitempty"`
	Description string   `json:"Description,omitempty"`
	Director    string   `json:"Director,omitempty"`
	Actors      string   `json:"Actors,omitempty"`
	Year        *int     `json:"Year,omitempty" validate:"omitempty,gte=0"`
	Runtime     *int     `json:"Runtime,omitempty" validate:"omitempty,gte=0"`
	Rating      *float64 `json:"Rating,omitempty" validate:"omitempty,gte=0,lte=10"`
	Votes       *int     `json:"Votes,omitempty" validate:"omitempty,gte=0"`
	Revenue     *float64 `json:"Revenue,omitempty" validate:"omitempty,gte=0"`
}

// MovieUpdate is a partial update. Nil fields are left unchanged. Title is
// deliberately absent: renames are not supported.
type MovieUpdate struct {
	Genre       *string  `json:"Genre,omitempty"`
	Description *string  `json:"Description,omitempty"`
	Director    *string  `json:"Director,omitempty"`
	Actors      *string  `json:"Actors,omitempty"`
	Year        *int     `json:"Year,omitempty" validate:"omitempty,gte=0"`
	Runtime     *int     `json:"Runtime,omitempty" validate:"omitempty,gte=0"`
	Rating      *float64 `json:"Rating,omitempty" validate:"omitempty,gte=0,lte=10"`
	Votes       *int     `json:"Votes,omitempty" validate:"omitempty,gte=0"`
	Revenue     *float64 `json:"Revenue,omitempty" validate:"omitempty,gte=0"`
}

// Empty reports whether the update would change nothing.
func (u MovieUpdate) Empty() bool {
	return u.Genre == nil && u.Description == nil && u.Director == nil && u.Actors == nil &&
		u.Year == nil && u.Runtime == nil && u.Rating == nil && u.Votes == nil && u.Revenue == nil
}

// Clone returns a deep copy of m so callers can never alias stored values.
func (m Movie) Clone() Movie {
	out := m
	out.Year = cloneInt(m.Year)
	out.Runtime = cloneInt(m.Runtime)
	out.Votes = cloneInt(m.Votes)
	out.Rating = cloneFloat(m.Rating)
	out.Revenue = cloneFloat(m.Revenue)
	return out
}

// CloneAll deep-copies a record slice. A nil input yields an empty slice.
func CloneAll(records []Movie) []Movie {
	out := make([]Movie, len(records))
	for i, m := range records {
		out[i] = m.Clone()
	}
	return out
}

// MaxID returns the highest identifier present, or zero for an empty set.
func MaxID(records []Movie) int {
	highest := 0
	for _, m := range records {
		if m.ID > highest {
			highest = m.ID
		}
	}
	return highest
}

// Int returns a pointer to v. It keeps literals in tests and flag handling short.
func Int(v int) *int { return &v }

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// String returns a pointer to v.
func String(v string) *string { return &v }

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// fold normalizes s for case-insensitive comparison. A Caser keeps state, so
// each call builds its own.
func fold(s string) string {
	return cases.Fold().String(s)
}

// SameTitle reports whether two titles match case-insensitively.
func SameTitle(a, b string) bool {
	return fold(strings.TrimSpace(a)) == fold(strings.TrimSpace(b))
}

func containsFolded(haystack, needle string) bool {
	if haystack == "" {
		return false
	}
	return strings.Contains(fold(haystack), fold(needle))
}
