package testsupport

import (
	"path/filepath"
	"testing"

	"moviecat/internal/catalog"
	"moviecat/internal/store"
)

// SampleMovies returns a small catalog in the shape of the IMDB export the
// service was built around.
func SampleMovies() []catalog.Movie {
	return []catalog.Movie{
		{ID: 1, Title: "Guardians of the Galaxy", Genre: "Action,Adventure,Sci-Fi", Director: "James Gunn",
			Actors: "Chris Pratt, Vin Diesel, Bradley Cooper, Zoe Saldana", Description: "A group of intergalactic criminals are forced to work together.",
			Year: catalog.Int(2014), Runtime: catalog.Int(121), Rating: catalog.Float(8.1), Votes: catalog.Int(757074), Revenue: catalog.Float(333.13)},
		{ID: 2, Title: "Prometheus", Genre: "Adventure,Mystery,Sci-Fi", Director: "Ridley Scott",
			Actors: "Noomi Rapace, Logan Marshall-Green, Michael Fassbender, Charlize Theron", Description: "Following clues to the origin of mankind, a team finds a structure on a distant moon.",
			Year: catalog.Int(2012), Runtime: catalog.Int(124), Rating: catalog.Float(7.0), Votes: catalog.Int(485820), Revenue: catalog.Float(126.46)},
		{ID: 3, Title: "Split", Genre: "Horror,Thriller", Director: "M. Night Shyamalan",
			Actors: "James McAvoy, Anya Taylor-Joy, Haley Lu Richardson, Jessica Sula",
			Year:   catalog.Int(2016), Runtime: catalog.Int(117), Rating: catalog.Float(7.3), Votes: catalog.Int(157606), Revenue: catalog.Float(138.12)},
		{ID: 4, Title: "Sing", Genre: "Animation,Comedy,Family", Director: "Christophe Lourdelet",
			Actors: "Matthew McConaughey, Reese Witherspoon, Seth MacFarlane, Scarlett Johansson",
			Year:   catalog.Int(2016), Runtime: catalog.Int(108), Rating: catalog.Float(7.2), Votes: catalog.Int(60545), Revenue: catalog.Float(270.32)},
		{ID: 5, Title: "Suicide Squad", Genre: "Action,Adventure,Fantasy", Director: "David Ayer",
			Actors: "Will Smith, Jared Leto, Margot Robbie, Viola Davis",
			Year:   catalog.Int(2016), Runtime: catalog.Int(123), Rating: catalog.Float(6.2), Votes: catalog.Int(393727), Revenue: catalog.Float(325.02)},
		{ID: 6, Title: "The Dark Knight", Genre: "Action,Crime,Drama", Director: "Christopher Nolan",
			Actors: "Christian Bale, Heath Ledger, Aaron Eckhart, Michael Caine",
			Year:   catalog.Int(2008), Runtime: catalog.Int(152), Rating: catalog.Float(9.0), Votes: catalog.Int(1791916), Revenue: catalog.Float(533.32)},
		{ID: 7, Title: "Inception", Genre: "Action,Adventure,Sci-Fi", Director: "Christopher Nolan",
			Actors: "Leonardo DiCaprio, Joseph Gordon-Levitt, Ellen Page, Ken Watanabe",
			Year:   catalog.Int(2010), Runtime: catalog.Int(148), Rating: catalog.Float(8.8), Votes: catalog.Int(1583625), Revenue: catalog.Float(292.57)},
		{ID: 8, Title: "The Revenant", Genre: "Adventure,Drama,History", Director: "Alejandro González Iñárritu",
			Actors: "Leonardo DiCaprio, Tom Hardy, Will Poulter, Domhnall Gleeson",
			Year:   catalog.Int(2015), Runtime: catalog.Int(156), Rating: catalog.Float(8.0), Votes: catalog.Int(499424), Revenue: catalog.Float(183.64)},
		{ID: 9, Title: "Aryaman", Genre: "Drama",
			Year: catalog.Int(2017)},
	}
}

// MustOpenStore opens a store for tests and registers cleanup.
func MustOpenStore(t testing.TB, path string) *store.Store {
	t.Helper()

	st, err := store.Open(path)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// SeededStore writes SampleMovies to a temp catalog file and opens it.
func SeededStore(t testing.TB) *store.Store {
	t.Helper()

	path := filepath.Join(t.TempDir(), "imdb.json")
	WriteCatalog(t, path, SampleMovies())
	return MustOpenStore(t, path)
}
