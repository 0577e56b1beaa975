package translator

import (
	"encoding/json"
	"fmt"

	"moviecat/internal/api"
	"moviecat/internal/catalog"
)

// Example pairs a user sentence with the request it should produce.
type Example struct {
	Text    string
	Request api.Request
}

func listReq(filter catalog.Filter, limit *int, sortBy string, order catalog.Order) api.Request {
	req := api.Request{Operation: api.OpListMovies, Limit: limit, SortBy: sortBy, Order: string(order), Fields: catalog.DefaultProjection}
	if !filter.IsZero() {
		req.Filter = &filter
	}
	return req
}

func titleReq(op api.Operation, title string, input string) api.Request {
	req := api.Request{Operation: op, Title: title}
	if op == api.OpGetMovie {
		req.Fields = catalog.DefaultProjection
	}
	if input != "" {
		req.Input = json.RawMessage(input)
	}
	return req
}

// Examples returns the few-shot examples embedded in the prompt.
func Examples() []Example {
	return []Example{
		{"show me all movies", listReq(catalog.Filter{}, nil, "", "")},
		{"movies with rating > 8.5", listReq(catalog.Filter{MinRating: catalog.Float(8.5)}, nil, "", "")},
		{"List 3 action movies", listReq(catalog.Filter{GenreContains: catalog.String("Action")}, catalog.Int(3), "", "")},
		{"movies released after 2020", listReq(catalog.Filter{MinYear: catalog.Int(2021)}, nil, "", "")},
		{"films before 2000", listReq(catalog.Filter{MaxYear: catalog.Int(1999)}, nil, "", "")},
		{"tell me about prometheus", titleReq(api.OpGetMovie, "Prometheus", "")},
		{"delete Suicide Squad", titleReq(api.OpDeleteMovie, "Suicide Squad", "")},
		{"update Aryaman year to 2025", titleReq(api.OpUpdateMovie, "Aryaman", `{"Year":2025}`)},
		{"top 5 highest rated movies", listReq(catalog.Filter{}, catalog.Int(5), "Rating", catalog.OrderDesc)},
		{"find the dark knigth", titleReq(api.OpGetMovie, "The Dark Knight", "")},
		{"Christopher Nolan movies", listReq(catalog.Filter{DirectorContains: catalog.String("Christopher Nolan")}, nil, "", "")},
		{"movies featuring Leonardo DiCaprio", listReq(catalog.Filter{ActorContains: catalog.String("Leonardo DiCaprio")}, nil, "", "")},
		{"comedy movies from 2015", listReq(catalog.Filter{GenreContains: catalog.String("Comedy"), ExactYear: catalog.Int(2015)}, nil, "", "")},
		{"movies shorter than 100 minutes", listReq(catalog.Filter{MaxRuntime: catalog.Int(99)}, nil, "", "")},
		{"add the movie Arrival from 2016 directed by Denis Villeneuve", api.Request{
			Operation: api.OpCreateMovie,
			Input:     json.RawMessage(`{"Title":"Arrival","Year":2016,"Director":"Denis Villeneuve"}`),
			Fields:    catalog.DefaultProjection,
		}},
	}
}

type renderedExample struct {
	Text string
	JSON string
}

func renderExamples(examples []Example) ([]renderedExample, error) {
	out := make([]renderedExample, 0, len(examples))
	for _, ex := range examples {
		if err := ex.Request.Validate(); err != nil {
			return nil, fmt.Errorf("example %q: %w", ex.Text, err)
		}
		data, err := json.Marshal(ex.Request)
		if err != nil {
			return nil, fmt.Errorf("example %q: %w", ex.Text, err)
		}
		out = append(out, renderedExample{Text: ex.Text, JSON: string(data)})
	}
	return out, nil
}
