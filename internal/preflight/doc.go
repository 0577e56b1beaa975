// Package preflight provides readiness checks for the filesystem paths and
// the language model endpoint moviecat depends on.
//
// `moviecat status` prints every result; `moviecat serve` runs the same checks
// at startup and logs failures without refusing to start, since the structured
// API works without a language model.
package preflight
