package translator

import (
	_ "embed"
	"encoding/json"
	"strings"
	"text/template"

	"moviecat/internal/catalog"
)

//go:embed prompt.tmpl
var promptSource string

var promptTemplate = template.Must(template.New("prompt").Parse(promptSource))

type promptData struct {
	SortFields    string
	FieldNames    string
	DefaultFields string
	Examples      []renderedExample
	Query         string
}

func quoteList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = `"` + v + `"`
	}
	return strings.Join(quoted, ", ")
}

// Prompt renders the full prompt for query using the given examples.
func Prompt(query string, examples []Example) (string, error) {
	rendered, err := renderExamples(examples)
	if err != nil {
		return "", err
	}
	defaults, err := json.Marshal(catalog.DefaultProjection)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	err = promptTemplate.Execute(&b, promptData{
		SortFields:    quoteList(catalog.SortFields()),
		FieldNames:    strings.Join(catalog.FieldNames, ", "),
		DefaultFields: string(defaults),
		Examples:      rendered,
		Query:         strings.Join(strings.Fields(query), " "),
	})
	if err != nil {
		return "", err
	}
	return b.String(), nil
}
