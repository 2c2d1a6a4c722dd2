// Package registry owns adapter construction and lookup.
//
// Callers address models by name: a bare provider name ("openai"), an alias
// ("claude"), or a composite id ("anthropic/claude-3-5-sonnet"). Lookups are
// case-insensitive and identity-stable, so two lookups for the same name in
// any case return the same adapter instance, with its circuit breaker state
// and health history intact.
//
// Construction is lazy. A composite id that misses the cache is split at the
// first "/", matched against the provider credential templates from the
// configuration, constructed, and cached. Anything the registry cannot
// construct (unknown provider, missing credentials, malformed id) is logged
// at WARN and reported as absent; lookups never return errors.
//
//	r := registry.New(cfg, logger, registry.WithMetrics(m))
//	defer r.Close()
//
//	a, ok := r.GetAdapter("anthropic/claude-3-5-sonnet")
//	if !ok {
//	    // not configured or not constructible
//	}
//
// Providers with a default_model and all configured aliases are registered
// eagerly by New; individual failures are skipped so one bad entry cannot
// prevent startup.
package registry
