package catalog_test

import (
	"errors"
	"reflect"
	"testing"

	"moviecat/internal/catalog"
	"moviecat/internal/services"
)

func TestCreateAssignsIDAndRejectsDuplicates(t *testing.T) {
	records := sampleMovies()
	out, created, err := catalog.Create(records, catalog.MovieInput{Title: "  Prometheus ", Year: catalog.Int(2012), Rating: catalog.Float(7.0)}, 6)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if created.ID != 6 || created.Title != "Prometheus" {
		t.Fatalf("unexpected record %+v", created)
	}
	if len(out) != len(records)+1 || len(records) != 5 {
		t.Fatalf("expected new slice with one more record, got %d (input %d)", len(out), len(records))
	}
	got, ok := catalog.Get(out, "PROMETHEUS")
	if !ok || got.ID != 6 {
		t.Fatalf("expected to find created record, got %+v %v", got, ok)
	}

	_, _, err = catalog.Create(out, catalog.MovieInput{Title: "prometheus"}, 7)
	if !errors.Is(err, services.ErrDuplicateTitle) {
		t.Fatalf("expected duplicate title error, got %v", err)
	}
}

func TestCreateValidation(t *testing.T) {
	cases := []struct {
		name  string
		input catalog.MovieInput
	}{
		{"blank title", catalog.MovieInput{Title: "   "}},
		{"rating too high", catalog.MovieInput{Title: "X", Rating: catalog.Float(11)}},
		{"negative runtime", catalog.MovieInput{Title: "X", Runtime: catalog.Int(-1)}},
		{"negative votes", catalog.MovieInput{Title: "X", Votes: catalog.Int(-5)}},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := catalog.Create(nil, tt.input, 1)
			if !errors.Is(err, services.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestUpdateChangesOnlyPresentFields(t *testing.T) {
	records := sampleMovies()
	before := records[0].Clone()
	out, updated, err := catalog.Update(records, "inception", catalog.MovieUpdate{Year: catalog.Int(2011)})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if *updated.Year != 2011 {
		t.Fatalf("expected year 2011, got %d", *updated.Year)
	}
	if *updated.Rating != 8.8 {
		t.Fatalf("expected rating unchanged, got %v", *updated.Rating)
	}

	expected := before.Clone()
	expected.Year = catalog.Int(2011)
	if !reflect.DeepEqual(out[0], expected) {
		t.Fatalf("unexpected record after update:\n got %+v\nwant %+v", out[0], expected)
	}
	if *records[0].Year != 2010 {
		t.Fatal("input slice mutated by Update")
	}
	for i := 1; i < len(out); i++ {
		if !reflect.DeepEqual(out[i], records[i]) {
			t.Fatalf("record %d changed unexpectedly", i)
		}
	}
}

func TestUpdateMissingTitle(t *testing.T) {
	_, _, err := catalog.Update(sampleMovies(), "Prometheus", catalog.MovieUpdate{Year: catalog.Int(2000)})
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	_, _, err = catalog.Update(sampleMovies(), "Inception", catalog.MovieUpdate{Rating: catalog.Float(-1)})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDeleteRemovesAllMatches(t *testing.T) {
	records := append(sampleMovies(), catalog.Movie{ID: 6, Title: "superBAD"})
	out, removed, err := catalog.Delete(records, "Superbad")
	if err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if removed != 2 {
		t.Fatalf("expected 2 removals, got %d", removed)
	}
	if _, ok := catalog.Get(out, "superbad"); ok {
		t.Fatal("expected record to be gone")
	}
	if len(out) != 4 {
		t.Fatalf("expected 4 records, got %d", len(out))
	}
}

func TestDeleteMissingLeavesSetUnchanged(t *testing.T) {
	records := sampleMovies()
	out, removed, err := catalog.Delete(records, "Prometheus")
	if err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if removed != 0 {
		t.Fatalf("expected no removals, got %d", removed)
	}
	if !reflect.DeepEqual(out, records) {
		t.Fatal("expected unchanged record set")
	}
	if msg := catalog.DeleteMessage("Prometheus", 0); msg != "Movie 'Prometheus' not found." {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestInceptionScenario(t *testing.T) {
	records := []catalog.Movie{{ID: 1, Title: "Inception", Year: catalog.Int(2010), Rating: catalog.Float(8.8)}}

	got, _ := catalog.List(records, catalog.Filter{MinRating: catalog.Float(8.0)}, catalog.Sort{}, nil)
	if len(got) != 1 {
		t.Fatalf("expected Inception for minRating 8.0, got %v", titles(got))
	}
	got, _ = catalog.List(records, catalog.Filter{MinRating: catalog.Float(9.0)}, catalog.Sort{}, nil)
	if len(got) != 0 {
		t.Fatalf("expected empty list for minRating 9.0, got %v", titles(got))
	}

	records, updated, err := catalog.Update(records, "inception", catalog.MovieUpdate{Year: catalog.Int(2011)})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if *updated.Year != 2011 || *updated.Rating != 8.8 {
		t.Fatalf("unexpected updated record %+v", updated)
	}

	records, removed, err := catalog.Delete(records, "Inception")
	if err != nil || removed != 1 {
		t.Fatalf("Delete = %d, %v", removed, err)
	}
	if _, ok := catalog.Get(records, "Inception"); ok {
		t.Fatal("expected Inception to be gone")
	}
}
