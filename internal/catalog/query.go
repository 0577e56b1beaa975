package catalog

import (
	"fmt"
	"sort"
	"strings"

	"moviecat/internal/services"
)

// Order is a sort direction.
type Order string

const (
	OrderAsc  Order = "ASC"
	OrderDesc Order = "DESC"
)

// ParseOrder accepts asc/desc in any case. An empty value means ascending.
func ParseOrder(value string) (Order, error) {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "", "ASC":
		return OrderAsc, nil
	case "DESC":
		return OrderDesc, nil
	default:
		return "", services.Wrap(services.ErrValidation, "catalog", "list", fmt.Sprintf("order %q must be ASC or DESC", value), nil)
	}
}

// Sort describes an optional ordering on a numeric field.
type Sort struct {
	Field string
	Order Order
}

type numericField func(Movie) float64

var sortFields = map[string]numericField{
	"ids":     func(m Movie) float64 { return float64(m.ID) },
	"year":    func(m Movie) float64 { return intValue(m.Year) },
	"runtime": func(m Movie) float64 { return intValue(m.Runtime) },
	"rating":  func(m Movie) float64 { return floatValue(m.Rating) },
	"votes":   func(m Movie) float64 { return intValue(m.Votes) },
	"revenue": func(m Movie) float64 { return floatValue(m.Revenue) },
}

// SortFields lists the accepted sort keys in their canonical spelling.
func SortFields() []string {
	return []string{"Ids", "Year", "Runtime", "Rating", "Votes", "Revenue"}
}

// ValidSortField reports whether name is an accepted sort key, ignoring case.
func ValidSortField(name string) bool {
	_, ok := sortFields[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// List filters, sorts, and truncates records. The input slice is never
// modified. A nil limit means no truncation; a limit below one is rejected.
// An empty match set is returned as an empty, non-nil slice.
func List(records []Movie, filter Filter, order Sort, limit *int) ([]Movie, error) {
	if limit != nil && *limit < 1 {
		return nil, services.Wrap(services.ErrValidation, "catalog", "list", fmt.Sprintf("limit must be >= 1, got %d", *limit), nil)
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	var key numericField
	if field := strings.TrimSpace(order.Field); field != "" {
		var ok bool
		key, ok = sortFields[strings.ToLower(field)]
		if !ok {
			return nil, services.Wrap(services.ErrValidation, "catalog", "list",
				fmt.Sprintf("sortBy %q must be one of %s", order.Field, strings.Join(SortFields(), ", ")), nil)
		}
	}
	direction := order.Order
	if direction == "" {
		direction = OrderAsc
	}
	if direction != OrderAsc && direction != OrderDesc {
		return nil, services.Wrap(services.ErrValidation, "catalog", "list", fmt.Sprintf("order %q must be ASC or DESC", direction), nil)
	}

	out := make([]Movie, 0, len(records))
	for _, m := range records {
		if filter.Matches(m) {
			out = append(out, m.Clone())
		}
	}

	if key != nil {
		desc := direction == OrderDesc
		sort.SliceStable(out, func(i, j int) bool {
			if desc {
				return key(out[i]) > key(out[j])
			}
			return key(out[i]) < key(out[j])
		})
	}

	if limit != nil && *limit < len(out) {
		out = out[:*limit]
	}
	return out, nil
}

// Get returns the first record whose title matches case-insensitively.
func Get(records []Movie, title string) (Movie, bool) {
	idx := indexOfTitle(records, title)
	if idx < 0 {
		return Movie{}, false
	}
	return records[idx].Clone(), true
}

func indexOfTitle(records []Movie, title string) int {
	want := fold(strings.TrimSpace(title))
	for i, m := range records {
		if fold(strings.TrimSpace(m.Title)) == want {
			return i
		}
	}
	return -1
}

func intValue(v *int) float64 {
	if v == nil {
		return 0
	}
	return float64(*v)
}

func floatValue(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
