// Package tokens provides cheap, deterministic token estimation for AI
// provider requests.
//
// The estimator is character-based with model-specific characters-per-token
// ratios. It is not a tokenizer and does not try to match any provider's real
// token accounting; it exists for pre-flight context budget checks and as a
// fallback when a provider response omits usage figures.
//
// Estimates are pure functions of their input: the same text always yields
// the same count.
package tokens
