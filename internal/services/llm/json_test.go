package llm

import "testing"

type sample struct {
	Operation string `json:"operation"`
	Limit     *int   `json:"limit,omitempty"`
}

func TestDecodeLLMJSON(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantOp  string
		wantErr bool
	}{
		{name: "plain", content: `{"operation":"listMovies"}`, wantOp: "listMovies"},
		{name: "json fence", content: "```json\n{\"operation\":\"getMovie\"}\n```", wantOp: "getMovie"},
		{name: "bare fence", content: "```\n{\"operation\":\"deleteMovie\"}\n```", wantOp: "deleteMovie"},
		{name: "graphql fence", content: "```graphql\n{\"operation\":\"updateMovie\"}\n```", wantOp: "updateMovie"},
		{name: "prose around", content: "Here you go: {\"operation\":\"createMovie\"} hope that helps", wantOp: "createMovie"},
		{name: "unknown field", content: `{"operation":"listMovies","explain":"x"}`, wantErr: true},
		{name: "two objects", content: `{"operation":"listMovies"} {"operation":"getMovie"}`, wantErr: true},
		{name: "empty", content: "   ", wantErr: true},
		{name: "not json", content: "query { listMovies { Title } }", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got sample
			err := DecodeLLMJSON(tt.content, &got)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, decoded %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeLLMJSON returned error: %v", err)
			}
			if got.Operation != tt.wantOp {
				t.Fatalf("got operation %q want %q", got.Operation, tt.wantOp)
			}
		})
	}
}

func TestSummarizePayloadSnippetTruncates(t *testing.T) {
	long := make([]rune, 300)
	for i := range long {
		long[i] = 'a'
	}
	got := summarizePayloadSnippet("line1\n\tline2 " + string(long))
	if len([]rune(got)) != 163 {
		t.Fatalf("expected 160 runes plus ellipsis, got %d", len([]rune(got)))
	}
	if got[:11] != "line1 line2" {
		t.Fatalf("expected whitespace collapsed, got %q", got[:11])
	}
}
