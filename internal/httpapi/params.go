package httpapi

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"moviecat/internal/api"
	"moviecat/internal/catalog"
	"moviecat/internal/services"
)

type paramSetter func(f *catalog.Filter, value string) error

func stringParam(set func(*catalog.Filter, *string)) paramSetter {
	return func(f *catalog.Filter, value string) error {
		set(f, catalog.String(value))
		return nil
	}
}

func intParam(name string, set func(*catalog.Filter, *int)) paramSetter {
	return func(f *catalog.Filter, value string) error {
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return badParam(fmt.Sprintf("%s must be an integer, got %q", name, value))
		}
		set(f, catalog.Int(n))
		return nil
	}
}

var filterParams = map[string]paramSetter{
	"titleEquals":      stringParam(func(f *catalog.Filter, v *string) { f.TitleEquals = v }),
	"titleContains":    stringParam(func(f *catalog.Filter, v *string) { f.TitleContains = v }),
	"genreContains":    stringParam(func(f *catalog.Filter, v *string) { f.GenreContains = v }),
	"directorContains": stringParam(func(f *catalog.Filter, v *string) { f.DirectorContains = v }),
	"actorContains":    stringParam(func(f *catalog.Filter, v *string) { f.ActorContains = v }),
	"minYear":          intParam("minYear", func(f *catalog.Filter, v *int) { f.MinYear = v }),
	"maxYear":          intParam("maxYear", func(f *catalog.Filter, v *int) { f.MaxYear = v }),
	"exactYear":        intParam("exactYear", func(f *catalog.Filter, v *int) { f.ExactYear = v }),
	"minRuntime":       intParam("minRuntime", func(f *catalog.Filter, v *int) { f.MinRuntime = v }),
	"maxRuntime":       intParam("maxRuntime", func(f *catalog.Filter, v *int) { f.MaxRuntime = v }),
	"minRating": func(f *catalog.Filter, value string) error {
		r, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return badParam(fmt.Sprintf("minRating must be a number, got %q", value))
		}
		f.MinRating = catalog.Float(r)
		return nil
	},
}

// listRequest builds a listMovies request from query parameters. Unknown or
// repeated parameters are rejected.
func listRequest(values url.Values) (api.Request, error) {
	req := api.Request{Operation: api.OpListMovies}
	var filter catalog.Filter
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		vals := values[key]
		if key == "fields" {
			req.Fields = splitFields(vals)
			continue
		}
		if len(vals) != 1 {
			return api.Request{}, badParam(fmt.Sprintf("parameter %s given more than once", key))
		}
		value := vals[0]
		switch key {
		case "limit":
			n, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil {
				return api.Request{}, badParam(fmt.Sprintf("limit must be an integer, got %q", value))
			}
			req.Limit = &n
		case "sortBy":
			req.SortBy = value
		case "order":
			req.Order = value
		default:
			set, ok := filterParams[key]
			if !ok {
				return api.Request{}, badParam(fmt.Sprintf("unknown parameter %q", key))
			}
			if err := set(&filter, value); err != nil {
				return api.Request{}, err
			}
		}
	}
	if !filter.IsZero() {
		req.Filter = &filter
	}
	return req, nil
}

// fieldsParam reads an optional projection from ?fields=.
func fieldsParam(values url.Values) []string {
	return splitFields(values["fields"])
}

func splitFields(vals []string) []string {
	var out []string
	for _, v := range vals {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func badParam(message string) error {
	return services.Wrap(services.ErrValidation, "httpapi", "params", message, nil)
}
