// Package openrouter implements the OpenRouter gateway adapter.
//
// OpenRouter fronts many upstream providers behind one OpenAI-compatible
// endpoint, so this adapter embeds the openai adapter and only adjusts
// identity: the gateway base URL, the attribution headers OpenRouter uses
// for app rankings (HTTP-Referer, X-Title), and the reported type.
//
// Model identifiers are composite ("anthropic/claude-3.5-sonnet",
// "meta-llama/llama-3-70b-instruct") and pass through to the wire
// untouched; the gateway owns the routing.
package openrouter
