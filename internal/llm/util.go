// Package llm - util.go provides shared utilities for LLM response processing.
package llm

import (
	"regexp"
	"strings"
)

// The model's output format is not contractually guaranteed: JSON may
// arrive bare, wrapped in prose, or inside a fenced code block. The
// fenced pattern is tried first; the greedy brace span is the fallback.
var (
	fencedJSONPattern = regexp.MustCompile("```json\n([\\s\\S]*?)\n```")
	braceSpanPattern  = regexp.MustCompile(`\{[\s\S]*\}`)
)

// ExtractJSONPayload locates a JSON payload inside free-form response
// text. It returns the candidate payload string and whether one was
// found; it never guesses when neither pattern matches.
func ExtractJSONPayload(text string) (string, bool) {
	if m := fencedJSONPattern.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1]), true
	}
	if m := braceSpanPattern.FindString(text); m != "" {
		return m, true
	}
	return "", false
}
