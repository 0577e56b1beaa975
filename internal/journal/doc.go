// Package journal records chat exchanges in a SQLite database.
//
// Each Entry keeps the user's text, the raw model reply, the derived request,
// the outcome and timing. The journal backs `moviecat history` and
// GET /api/chat/history and is meant for auditing and prompt debugging. Writes
// retry on SQLITE_BUSY; the schema is versioned and a mismatch is reported as
// ErrSchemaMismatch instead of being migrated silently.
package journal
