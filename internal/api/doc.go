// Package api defines the structured catalog request envelope and executes it.
//
// A Request names one of the five catalog operations (listMovies, getMovie,
// createMovie, updateMovie, deleteMovie) with its arguments. The same envelope
// is accepted by the HTTP query endpoint and produced by the natural-language
// translator, so both paths share DecodeRequest, Request.Validate and
// CatalogService.Execute. Mutations run inside store transactions and are
// persisted before a Result is returned.
package api
