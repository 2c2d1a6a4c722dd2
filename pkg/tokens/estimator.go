package tokens

// Estimator estimates token counts for text.
// Implementations must be deterministic: identical input yields identical output.
type Estimator interface {
	// Estimate returns the approximate token count for text.
	// Empty text is 0 tokens; any non-empty text is at least 1.
	Estimate(text string) int
}

// Estimate estimates tokens for text using the default ratio.
// It is a convenience for callers that do not carry an Estimator.
func Estimate(text string) int {
	return defaultEstimator.Estimate(text)
}

var defaultEstimator = New()
