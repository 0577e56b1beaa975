package catalog

import (
	"fmt"
	"strings"

	"moviecat/internal/services"
)

// FieldNames lists every record field in canonical spelling and output order.
var FieldNames = []string{"Ids", "Title", "Genre", "Description", "Director", "Actors", "Year", "Runtime", "Rating", "Votes", "Revenue"}

// DefaultProjection is the field set shown when a caller does not ask for one.
var DefaultProjection = []string{"Title", "Year", "Rating", "Runtime", "Description", "Director", "Actors"}

// NormalizeFields canonicalizes a projection list, ignoring case and
// duplicates. Unknown names are a validation error.
func NormalizeFields(fields []string) ([]string, error) {
	if len(fields) == 0 {
		return nil, nil
	}
	seen := make(map[string]struct{}, len(fields))
	out := make([]string, 0, len(fields))
	for _, raw := range fields {
		name, ok := canonicalField(raw)
		if !ok {
			return nil, services.Wrap(services.ErrValidation, "catalog", "project",
				fmt.Sprintf("unknown field %q", strings.TrimSpace(raw)), nil)
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out, nil
}

func canonicalField(name string) (string, bool) {
	name = strings.TrimSpace(name)
	if strings.EqualFold(name, "id") {
		return "Ids", true
	}
	for _, f := range FieldNames {
		if strings.EqualFold(f, name) {
			return f, true
		}
	}
	return "", false
}

// Project returns the requested fields of m keyed by their JSON names. Missing
// optional values are reported as nil so a projection always carries every
// requested key.
func Project(m Movie, fields []string) map[string]any {
	if len(fields) == 0 {
		fields = FieldNames
	}
	out := make(map[string]any, len(fields))
	for _, f := range fields {
		out[f] = fieldValue(m, f)
	}
	return out
}

func fieldValue(m Movie, name string) any {
	switch name {
	case "Ids":
		return m.ID
	case "Title":
		return m.Title
	case "Genre":
		return m.Genre
	case "Description":
		return m.Description
	case "Director":
		return m.Director
	case "Actors":
		return m.Actors
	case "Year":
		return derefInt(m.Year)
	case "Runtime":
		return derefInt(m.Runtime)
	case "Rating":
		return derefFloat(m.Rating)
	case "Votes":
		return derefInt(m.Votes)
	case "Revenue":
		return derefFloat(m.Revenue)
	default:
		return nil
	}
}

func derefInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func derefFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
