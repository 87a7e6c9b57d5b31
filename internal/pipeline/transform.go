// internal/pipeline/transform.go

// Package pipeline provides text clean-up transforms applied to extracted
// values before they land in records.
package pipeline

import (
	"fmt"
	"regexp"
	"strings"
)

// TransformRule defines a single transformation rule.
type TransformRule struct {
	Type        string `yaml:"type" json:"type"`
	Pattern     string `yaml:"pattern,omitempty" json:"pattern,omitempty"`
	Replacement string `yaml:"replacement,omitempty" json:"replacement,omitempty"`
	Length      int    `yaml:"length,omitempty" json:"length,omitempty"`
}

// TransformList is an ordered list of rules applied in sequence.
type TransformList []TransformRule

var spacesRe = regexp.MustCompile(`\s+`)

// Apply runs all rules in order over the input string.
func (tl TransformList) Apply(input string) (string, error) {
	result := input
	for i, rule := range tl {
		var err error
		result, err = rule.Apply(result)
		if err != nil {
			return "", fmt.Errorf("transform rule %d failed: %w", i, err)
		}
	}
	return result, nil
}

// Apply runs a single rule over the input string.
func (tr TransformRule) Apply(input string) (string, error) {
	switch tr.Type {
	case "trim":
		return strings.TrimSpace(input), nil

	case "normalize_spaces":
		return spacesRe.ReplaceAllString(strings.TrimSpace(input), " "), nil

	case "lowercase":
		return strings.ToLower(input), nil

	case "uppercase":
		return strings.ToUpper(input), nil

	case "truncate":
		if tr.Length <= 0 {
			return "", fmt.Errorf("truncate requires a positive length")
		}
		return Truncate(input, tr.Length), nil

	case "regex_replace":
		if tr.Pattern == "" {
			return "", fmt.Errorf("regex_replace requires a pattern")
		}
		re, err := regexp.Compile(tr.Pattern)
		if err != nil {
			return "", fmt.Errorf("invalid pattern %q: %w", tr.Pattern, err)
		}
		return re.ReplaceAllString(input, tr.Replacement), nil

	default:
		return "", fmt.Errorf("unknown transform type %q", tr.Type)
	}
}

// Validate checks that every rule in the list is well formed.
func (tl TransformList) Validate() error {
	for i, rule := range tl {
		if _, err := rule.Apply(""); err != nil {
			// unknown types and missing parameters fail on any input
			if strings.Contains(err.Error(), "unknown transform") ||
				strings.Contains(err.Error(), "requires") ||
				strings.Contains(err.Error(), "invalid pattern") {
				return fmt.Errorf("rule %d: %w", i, err)
			}
		}
	}
	return nil
}

// CleanText collapses whitespace runs and trims the input. It is the default
// normalization applied to every extracted text fragment.
func CleanText(s string) string {
	return spacesRe.ReplaceAllString(strings.TrimSpace(s), " ")
}

// Truncate shortens s to at most n bytes, appending an ellipsis marker when
// content was cut.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
