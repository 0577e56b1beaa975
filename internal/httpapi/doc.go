// Package httpapi exposes the catalog and the chat endpoint over HTTP.
//
// Routes are registered on a gorilla/mux router. Every request gets a
// correlation id (honouring an incoming X-Request-ID) that flows into logs and
// the chat journal. When a token is configured all routes except
// GET /api/health require "Authorization: Bearer <token>". Errors are returned
// as {"error": message, "kind": kind} with the status derived from the error
// classification in internal/services.
package httpapi
