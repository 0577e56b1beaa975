// Package store owns the authoritative movie record set and its on-disk JSON
// representation.
//
// The file is rewritten wholesale on every mutation through a temp file,
// fsync, and rename, so a failed write leaves the previous content intact. A
// gofrs/flock lock next to the data file keeps a second process from writing
// the same catalog.
//
// Concurrency: Mutate serializes writers and runs the caller's function on a
// private deep copy. The new set is published only after it has been
// persisted, and readers receive the published slice, which is never modified
// afterwards.
package store
