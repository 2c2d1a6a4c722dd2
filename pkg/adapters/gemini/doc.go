// Package gemini is a declared-but-unimplemented placeholder adapter.
//
// It reserves the provider type so configurations and registries can name
// it today, while every generation attempt fails loudly with
// *adapters.UnimplementedError instead of half-working. Construction never
// fails, even with missing configuration; IsAvailable is always false.
// The pure operations (EstimateTokens, CheckContextWindow) work normally
// so pre-flight budget checks keep functioning.
package gemini
