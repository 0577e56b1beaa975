// Package translator turns a natural-language catalog request into a
// validated api.Request using a text-generation backend.
//
// The prompt is rendered once from a fixed template that describes the request
// envelope, lists worked examples and states the normalization rules. Each
// Translate call makes exactly one Generate call under a timeout. The reply is
// stripped of code fences, strictly decoded and validated, so malformed model
// output never reaches the catalog.
package translator
