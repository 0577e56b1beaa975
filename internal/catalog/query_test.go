package catalog_test

import (
	"errors"
	"testing"

	"moviecat/internal/catalog"
	"moviecat/internal/services"
)

func sampleMovies() []catalog.Movie {
	return []catalog.Movie{
		{ID: 1, Title: "Inception", Genre: "Action,Sci-Fi", Director: "Christopher Nolan", Actors: "Leonardo DiCaprio, Tom Hardy", Year: catalog.Int(2010), Runtime: catalog.Int(148), Rating: catalog.Float(8.8)},
		{ID: 2, Title: "The Dark Knight", Genre: "Action,Crime", Director: "Christopher Nolan", Actors: "Christian Bale", Year: catalog.Int(2008), Runtime: catalog.Int(152), Rating: catalog.Float(9.0)},
		{ID: 3, Title: "Superbad", Genre: "Comedy", Director: "Greg Mottola", Actors: "Jonah Hill", Year: catalog.Int(2007), Runtime: catalog.Int(113), Rating: catalog.Float(7.6)},
		{ID: 4, Title: "Untitled Project", Genre: "Drama"},
		{ID: 5, Title: "Trainwreck", Genre: "Comedy,Romance", Director: "Judd Apatow", Year: catalog.Int(2015), Runtime: catalog.Int(125), Rating: catalog.Float(6.3)},
	}
}

func titles(movies []catalog.Movie) []string {
	out := make([]string, len(movies))
	for i, m := range movies {
		out[i] = m.Title
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestListFilters(t *testing.T) {
	tests := []struct {
		name   string
		filter catalog.Filter
		want   []string
	}{
		{"no filter", catalog.Filter{}, []string{"Inception", "The Dark Knight", "Superbad", "Untitled Project", "Trainwreck"}},
		{"min rating", catalog.Filter{MinRating: catalog.Float(8.0)}, []string{"Inception", "The Dark Knight"}},
		{"min year excludes missing", catalog.Filter{MinYear: catalog.Int(2000)}, []string{"Inception", "The Dark Knight", "Superbad", "Trainwreck"}},
		{"max year", catalog.Filter{MaxYear: catalog.Int(2008)}, []string{"The Dark Knight", "Superbad"}},
		{"exact year", catalog.Filter{ExactYear: catalog.Int(2015)}, []string{"Trainwreck"}},
		{"runtime window", catalog.Filter{MinRuntime: catalog.Int(120), MaxRuntime: catalog.Int(150)}, []string{"Inception", "Trainwreck"}},
		{"genre substring folded", catalog.Filter{GenreContains: catalog.String("comedy")}, []string{"Superbad", "Trainwreck"}},
		{"director substring", catalog.Filter{DirectorContains: catalog.String("NOLAN")}, []string{"Inception", "The Dark Knight"}},
		{"actor substring", catalog.Filter{ActorContains: catalog.String("dicaprio")}, []string{"Inception"}},
		{"title equals is exact", catalog.Filter{TitleEquals: catalog.String("the dark knight")}, []string{"The Dark Knight"}},
		{"title equals rejects partial", catalog.Filter{TitleEquals: catalog.String("dark")}, []string{}},
		{"title contains is substring", catalog.Filter{TitleContains: catalog.String("DARK")}, []string{"The Dark Knight"}},
		{"conjunction", catalog.Filter{GenreContains: catalog.String("Action"), MinRating: catalog.Float(8.9)}, []string{"The Dark Knight"}},
		{"no match", catalog.Filter{MinRating: catalog.Float(9.5)}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := catalog.List(sampleMovies(), tt.filter, catalog.Sort{}, nil)
			if err != nil {
				t.Fatalf("List returned error: %v", err)
			}
			if got == nil {
				t.Fatal("expected non-nil slice")
			}
			if !equalStrings(titles(got), tt.want) {
				t.Fatalf("got %v want %v", titles(got), tt.want)
			}
		})
	}
}

func TestListResultsSatisfyEveryPredicate(t *testing.T) {
	filter := catalog.Filter{MinYear: catalog.Int(2008), MaxRuntime: catalog.Int(150), GenreContains: catalog.String("a")}
	got, err := catalog.List(sampleMovies(), filter, catalog.Sort{}, nil)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	for _, m := range got {
		if !filter.Matches(m) {
			t.Fatalf("record %q does not satisfy filter", m.Title)
		}
	}
	if !equalStrings(titles(got), []string{"Inception", "Trainwreck"}) {
		t.Fatalf("unexpected result %v", titles(got))
	}
}

func TestListSortStableWithMissingAsZero(t *testing.T) {
	records := []catalog.Movie{
		{ID: 1, Title: "A", Rating: catalog.Float(7)},
		{ID: 2, Title: "B"},
		{ID: 3, Title: "C", Rating: catalog.Float(7)},
		{ID: 4, Title: "D", Rating: catalog.Float(9)},
		{ID: 5, Title: "E", Rating: catalog.Float(0)},
	}
	asc, err := catalog.List(records, catalog.Filter{}, catalog.Sort{Field: "rating"}, nil)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if want := []string{"B", "E", "A", "C", "D"}; !equalStrings(titles(asc), want) {
		t.Fatalf("ascending got %v want %v", titles(asc), want)
	}

	desc, err := catalog.List(records, catalog.Filter{}, catalog.Sort{Field: "Rating", Order: catalog.OrderDesc}, nil)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if want := []string{"D", "A", "C", "B", "E"}; !equalStrings(titles(desc), want) {
		t.Fatalf("descending got %v want %v", titles(desc), want)
	}
}

func TestListLimitTruncates(t *testing.T) {
	got, err := catalog.List(sampleMovies(), catalog.Filter{}, catalog.Sort{Field: "Rating", Order: catalog.OrderDesc}, catalog.Int(2))
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if want := []string{"The Dark Knight", "Inception"}; !equalStrings(titles(got), want) {
		t.Fatalf("got %v want %v", titles(got), want)
	}

	all, err := catalog.List(sampleMovies(), catalog.Filter{}, catalog.Sort{}, catalog.Int(50))
	if err != nil {
		t.Fatalf("limit above count returned error: %v", err)
	}
	if len(all) != 5 {
		t.Fatalf("expected all 5 records, got %d", len(all))
	}
}

func TestListRejectsInvalidArguments(t *testing.T) {
	cases := []struct {
		name   string
		filter catalog.Filter
		sort   catalog.Sort
		limit  *int
	}{
		{"zero limit", catalog.Filter{}, catalog.Sort{}, catalog.Int(0)},
		{"negative limit", catalog.Filter{}, catalog.Sort{}, catalog.Int(-3)},
		{"text sort field", catalog.Filter{}, catalog.Sort{Field: "Title"}, nil},
		{"unknown sort field", catalog.Filter{}, catalog.Sort{Field: "popularity"}, nil},
		{"bad order", catalog.Filter{}, catalog.Sort{Field: "Year", Order: "sideways"}, nil},
		{"empty genre", catalog.Filter{GenreContains: catalog.String("")}, catalog.Sort{}, nil},
		{"blank director", catalog.Filter{DirectorContains: catalog.String("  ")}, catalog.Sort{}, nil},
		{"blank title equals", catalog.Filter{TitleEquals: catalog.String("")}, catalog.Sort{}, nil},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			_, err := catalog.List(sampleMovies(), tt.filter, tt.sort, tt.limit)
			if !errors.Is(err, services.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestListDoesNotAliasInput(t *testing.T) {
	records := sampleMovies()
	got, err := catalog.List(records, catalog.Filter{}, catalog.Sort{}, nil)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	*got[0].Rating = 1
	if *records[0].Rating != 8.8 {
		t.Fatalf("input record mutated through result: %v", *records[0].Rating)
	}
}

func TestGetCaseInsensitiveFirstMatch(t *testing.T) {
	records := append(sampleMovies(), catalog.Movie{ID: 9, Title: "INCEPTION", Year: catalog.Int(1999)})
	m, ok := catalog.Get(records, "  inception ")
	if !ok {
		t.Fatal("expected match")
	}
	if m.ID != 1 {
		t.Fatalf("expected first match id 1, got %d", m.ID)
	}
	if _, ok := catalog.Get(records, "Prometheus"); ok {
		t.Fatal("expected miss for unknown title")
	}
}

func TestParseOrder(t *testing.T) {
	for in, want := range map[string]catalog.Order{"": catalog.OrderAsc, "asc": catalog.OrderAsc, "Desc": catalog.OrderDesc} {
		got, err := catalog.ParseOrder(in)
		if err != nil || got != want {
			t.Fatalf("ParseOrder(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := catalog.ParseOrder("up"); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestProjectAndNormalizeFields(t *testing.T) {
	fields, err := catalog.NormalizeFields([]string{"title", "YEAR", "Title", "id"})
	if err != nil {
		t.Fatalf("NormalizeFields returned error: %v", err)
	}
	if want := []string{"Title", "Year", "Ids"}; !equalStrings(fields, want) {
		t.Fatalf("got %v want %v", fields, want)
	}
	if _, err := catalog.NormalizeFields([]string{"Budget"}); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for unknown field, got %v", err)
	}

	projected := catalog.Project(sampleMovies()[3], []string{"Title", "Rating"})
	if len(projected) != 2 {
		t.Fatalf("expected 2 keys, got %v", projected)
	}
	if projected["Title"] != "Untitled Project" {
		t.Fatalf("unexpected title %v", projected["Title"])
	}
	if v, ok := projected["Rating"]; !ok || v != nil {
		t.Fatalf("expected explicit nil rating, got %v (present=%v)", v, ok)
	}
}

func TestSuggestFindsTypos(t *testing.T) {
	got := catalog.Suggest(sampleMovies(), "the dark knigth", 3)
	if !equalStrings(got, []string{"The Dark Knight"}) {
		t.Fatalf("Suggest = %v, want [The Dark Knight]", got)
	}
	if got := catalog.Suggest(sampleMovies(), "Casablanca", 3); len(got) != 0 {
		t.Fatalf("expected no suggestions, got %v", got)
	}
}
