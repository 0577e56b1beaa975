// Package chat ties the translator, the catalog service and the journal into
// the single natural-language entry point used by `moviecat chat` and
// POST /api/chat.
package chat
