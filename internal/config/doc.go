// Package config loads, normalizes, and validates moviecat configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// MOVIECAT_API_TOKEN, OPENAI_API_KEY and OLLAMA_HOST. The Config type
// centralizes every knob the server and CLI need, so the catalog file, the
// chat journal and the language model endpoint are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
