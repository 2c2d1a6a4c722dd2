package logging

import (
	"log/slog"
	"regexp"
	"strings"
)

// redactedValue replaces masked attribute values.
const redactedValue = "***"

// secretKeys lists attribute keys whose values are always masked,
// case-insensitively.
var secretKeys = map[string]bool{
	"api_key":       true,
	"apikey":        true,
	"api-key":       true,
	"x-api-key":     true,
	"authorization": true,
	"token":         true,
	"secret":        true,
	"password":      true,
}

// secretValuePattern matches credential shapes inside free-form strings:
// provider API keys (sk-...) and bearer tokens.
var secretValuePattern = regexp.MustCompile(`(sk-[a-zA-Z0-9_\-]+|Bearer\s+[a-zA-Z0-9\-._~+/]+=*)`)

// RedactAttr is a slog ReplaceAttr hook that masks credentials.
//
// Attributes with a secret-bearing key are masked entirely; string values
// containing an embedded credential are masked in place. Non-string values
// pass through untouched.
func RedactAttr(groups []string, a slog.Attr) slog.Attr {
	if secretKeys[strings.ToLower(a.Key)] {
		return slog.String(a.Key, redactedValue)
	}

	if a.Value.Kind() == slog.KindString {
		s := a.Value.String()
		if secretValuePattern.MatchString(s) {
			return slog.String(a.Key, secretValuePattern.ReplaceAllString(s, redactedValue))
		}
	}

	return a
}
