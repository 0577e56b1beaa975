package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"moviecat/internal/catalog"
	"moviecat/internal/services"
)

// Operation names a catalog operation.
type Operation string

const (
	OpListMovies  Operation = "listMovies"
	OpGetMovie    Operation = "getMovie"
	OpCreateMovie Operation = "createMovie"
	OpUpdateMovie Operation = "updateMovie"
	OpDeleteMovie Operation = "deleteMovie"
)

// Operations lists every supported operation.
func Operations() []Operation {
	return []Operation{OpListMovies, OpGetMovie, OpCreateMovie, OpUpdateMovie, OpDeleteMovie}
}

// IsMutation reports whether op changes the catalog.
func (op Operation) IsMutation() bool {
	return op == OpCreateMovie || op == OpUpdateMovie || op == OpDeleteMovie
}

// Request is the structured form of a catalog call.
type Request struct {
	Operation Operation       `json:"operation" validate:"required,oneof=listMovies getMovie createMovie updateMovie deleteMovie"`
	Filter    *catalog.Filter `json:"filter,omitempty"`
	Limit     *int            `json:"limit,omitempty"`
	SortBy    string          `json:"sortBy,omitempty"`
	Order     string          `json:"order,omitempty"`
	Title     string          `json:"title,omitempty" validate:"omitempty,max=512"`
	Input     json.RawMessage `json:"input,omitempty"`
	Fields    []string        `json:"fields,omitempty" validate:"omitempty,max=11"`
}

// DecodeRequest strictly decodes a single request object from r. Unknown keys
// and trailing data are validation errors.
func DecodeRequest(r io.Reader) (Request, error) {
	var req Request
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return Request{}, services.Wrap(services.ErrValidation, "api", "decode", "malformed request", err)
	}
	if dec.More() {
		return Request{}, services.Wrap(services.ErrValidation, "api", "decode", "unexpected data after request object", nil)
	}
	return req, nil
}

// Validate checks the envelope and the operation-specific arguments, including
// the shape of input. It does not consult the catalog.
func (r Request) Validate() error {
	if err := catalog.Validator().Struct(r); err != nil {
		return invalid(catalog.DescribeValidation(err))
	}
	if _, err := catalog.NormalizeFields(r.Fields); err != nil {
		return err
	}

	listArgs := r.Filter != nil || r.Limit != nil || r.SortBy != "" || r.Order != ""
	hasTitle := strings.TrimSpace(r.Title) != ""
	hasInput := len(bytes.TrimSpace(r.Input)) > 0 && !bytes.Equal(bytes.TrimSpace(r.Input), []byte("null"))

	switch r.Operation {
	case OpListMovies:
		if hasTitle || hasInput {
			return invalid("listMovies takes filter, limit, sortBy and order, not title or input")
		}
		if r.Limit != nil && *r.Limit < 1 {
			return invalid(fmt.Sprintf("limit must be >= 1, got %d", *r.Limit))
		}
		if r.Filter != nil {
			if err := r.Filter.Validate(); err != nil {
				return err
			}
		}
		if r.SortBy != "" && !catalog.ValidSortField(r.SortBy) {
			return invalid(fmt.Sprintf("sortBy %q must be one of %s", r.SortBy, strings.Join(catalog.SortFields(), ", ")))
		}
		if _, err := catalog.ParseOrder(r.Order); err != nil {
			return err
		}
		return nil
	case OpGetMovie, OpDeleteMovie:
		if !hasTitle {
			return invalid(string(r.Operation) + " requires title")
		}
		if listArgs || hasInput {
			return invalid(string(r.Operation) + " takes only title and fields")
		}
	case OpCreateMovie:
		if listArgs || hasTitle {
			return invalid("createMovie takes only input and fields")
		}
		if _, err := r.CreateInput(); err != nil {
			return err
		}
	case OpUpdateMovie:
		if !hasTitle {
			return invalid("updateMovie requires title")
		}
		if listArgs {
			return invalid("updateMovie takes only title, input and fields")
		}
		if _, err := r.UpdateInput(); err != nil {
			return err
		}
	}
	return nil
}

// CreateInput decodes and validates the createMovie input.
func (r Request) CreateInput() (catalog.MovieInput, error) {
	var input catalog.MovieInput
	if err := decodeInput(r.Input, &input); err != nil {
		return input, err
	}
	if err := catalog.ValidateStruct("create", input); err != nil {
		return input, err
	}
	return input, nil
}

// UpdateInput decodes and validates the updateMovie input. A Title key is
// rejected because renames are not supported.
func (r Request) UpdateInput() (catalog.MovieUpdate, error) {
	var update catalog.MovieUpdate
	if err := decodeInput(r.Input, &update); err != nil {
		return update, err
	}
	if update.Empty() {
		return update, invalid("updateMovie input must set at least one field")
	}
	if err := catalog.ValidateStruct("update", update); err != nil {
		return update, err
	}
	return update, nil
}

func decodeInput(raw json.RawMessage, target any) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return invalid("input is required")
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.DisallowUnknownFields()
	if err := dec.Decode(target); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return invalid(fmt.Sprintf("input.%s must be a %s", typeErr.Field, typeErr.Type))
		}
		return invalid("input: " + err.Error())
	}
	if dec.More() {
		return invalid("input: unexpected data after object")
	}
	return nil
}

// SortSpec returns the catalog sort derived from sortBy and order.
func (r Request) SortSpec() (catalog.Sort, error) {
	order, err := catalog.ParseOrder(r.Order)
	if err != nil {
		return catalog.Sort{}, err
	}
	return catalog.Sort{Field: r.SortBy, Order: order}, nil
}

// Projection returns the canonical field list to render, falling back to
// every field.
func (r Request) Projection() []string {
	fields, err := catalog.NormalizeFields(r.Fields)
	if err != nil || len(fields) == 0 {
		return catalog.FieldNames
	}
	return fields
}

func invalid(message string) error {
	return services.Wrap(services.ErrValidation, "api", "validate", message, nil)
}
