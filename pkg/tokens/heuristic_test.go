package tokens

import (
	"strings"
	"testing"
)

func TestHeuristicEstimator_Estimate(t *testing.T) {
	estimator := New()

	tests := []struct {
		name     string
		text     string
		expected int
	}{
		{
			name:     "empty text",
			text:     "",
			expected: 0,
		},
		{
			name:     "below one token rounds up to minimum",
			text:     "hi",
			expected: 1,
		},
		{
			name:     "exact multiple",
			text:     "abcdefgh",
			expected: 2,
		},
		{
			name:     "rounds to nearest",
			text:     "abcdefghij", // 10 chars / 4.0 = 2.5
			expected: 3,
		},
		{
			name:     "longer text",
			text:     strings.Repeat("x", 400),
			expected: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := estimator.Estimate(tt.text)
			if got != tt.expected {
				t.Errorf("Estimate(%q) = %d, want %d", tt.text, got, tt.expected)
			}
		})
	}
}

func TestHeuristicEstimator_Deterministic(t *testing.T) {
	estimator := New()
	text := "The same input must always produce the same estimate."

	first := estimator.Estimate(text)
	for i := 0; i < 100; i++ {
		if got := estimator.Estimate(text); got != first {
			t.Fatalf("estimate changed between calls: first %d, then %d", first, got)
		}
	}
}

func TestNewWithRatio(t *testing.T) {
	tests := []struct {
		name     string
		ratio    float64
		text     string
		expected int
	}{
		{
			name:     "custom ratio",
			ratio:    2.0,
			text:     "abcd",
			expected: 2,
		},
		{
			name:     "zero ratio falls back to default",
			ratio:    0,
			text:     "abcdefgh",
			expected: 2,
		},
		{
			name:     "negative ratio falls back to default",
			ratio:    -1.5,
			text:     "abcdefgh",
			expected: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			estimator := NewWithRatio(tt.ratio)
			if got := estimator.Estimate(tt.text); got != tt.expected {
				t.Errorf("Estimate(%q) = %d, want %d", tt.text, got, tt.expected)
			}
		})
	}
}

func TestNewForModel(t *testing.T) {
	tests := []struct {
		name          string
		model         string
		expectedRatio float64
	}{
		{
			name:          "claude family",
			model:         "claude-3.5-sonnet",
			expectedRatio: 3.5,
		},
		{
			name:          "gpt family",
			model:         "gpt-4-turbo",
			expectedRatio: 4.0,
		},
		{
			name:          "case insensitive",
			model:         "Claude-3-Opus",
			expectedRatio: 3.5,
		},
		{
			name:          "unknown model uses default",
			model:         "totally-unknown-model",
			expectedRatio: defaultCharsPerToken,
		},
		{
			name:          "empty model uses default",
			model:         "",
			expectedRatio: defaultCharsPerToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			estimator := NewForModel(tt.model)
			if got := estimator.CharsPerToken(); got != tt.expectedRatio {
				t.Errorf("CharsPerToken() = %v, want %v", got, tt.expectedRatio)
			}
		})
	}
}

func TestPackageEstimate(t *testing.T) {
	if got := Estimate(""); got != 0 {
		t.Errorf("Estimate(\"\") = %d, want 0", got)
	}
	if got := Estimate("hi"); got != 1 {
		t.Errorf("Estimate(\"hi\") = %d, want 1", got)
	}
	if got, want := Estimate("abcdefgh"), New().Estimate("abcdefgh"); got != want {
		t.Errorf("package Estimate disagrees with default estimator: %d vs %d", got, want)
	}
}
