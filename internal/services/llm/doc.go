// Package llm provides the text-generation clients behind the chat endpoint.
//
// Two backends implement Generator:
//   - OllamaClient talks to the native Ollama /api/chat endpoint with
//     stream=false and temperature 0.
//   - OpenAIClient speaks the OpenAI chat completions protocol through
//     github.com/sashabaranov/go-openai, which also covers OpenRouter, vLLM
//     and llama.cpp servers.
//
// # Entry Points
//
// New: construct the configured backend from Config.
// Generator.Generate: send a single user prompt, receive the raw reply text.
// HealthChecker.HealthCheck: verify the endpoint and model are usable.
// DecodeLLMJSON: strict JSON decoding that tolerates code fences and prose.
//
// # Errors
//
// Transport failures, timeouts and non-2xx responses are tagged with
// services.ErrUpstreamUnavailable. A reply with no content is tagged with
// services.ErrTranslation.
//
// # Retry Behaviour
//
// Both clients retry on HTTP 408/429/5xx, network timeouts and empty replies
// with exponential backoff (base 500ms, max 5s, up to 3 attempts by default).
// Context cancellation aborts retries immediately, so the caller's deadline
// bounds the whole exchange.
package llm
