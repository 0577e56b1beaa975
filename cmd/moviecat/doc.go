// Command moviecat manages a movie catalog and answers natural-language
// questions about it.
//
// `moviecat serve` runs the HTTP API. The remaining commands work on the
// catalog file directly: list, get, add, update and delete for structured
// access, chat and history for the language model front end, import and
// export for moving data in and out, status for a readiness report and
// config for configuration files. Mutating commands take the catalog lock, so
// they fail while a server owns the same data file; use the HTTP API then.
package main
