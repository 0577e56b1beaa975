// Package services defines shared utilities consumed by the catalog engines,
// the translator, and the transport layers.
//
// Key responsibilities:
//   - Context helpers that stamp correlation identifiers and operation names
//     for logging.
//   - Structured error markers plus the Wrap helper. Kind and HTTPStatus turn
//     a marked error into the stable labels and status codes every boundary
//     reports, so validation, upstream, and translation failures stay distinct.
//
// Lookup misses are not errors and never carry a marker from this package.
package services
