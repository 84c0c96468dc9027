// Package heuristics provides regex and line-scan extraction of applicant
// fields from decoded CV text. It is the fast, dependency-free path: it
// never calls out and never fails.
package heuristics

import (
	"regexp"
	"strings"

	"github.com/jonathan/applicant-intake/internal/types"
)

var (
	// Name is assumed to open the document: the first run of letters and
	// spaces anchored at the start of the text. The run stops at the first
	// newline so the next line's leading word is never swallowed.
	namePattern = regexp.MustCompile(`^[^\S\n]*([A-Za-z][A-Za-z ]*)`)

	emailPattern = regexp.MustCompile(`([a-zA-Z0-9._-]+@[a-zA-Z0-9._-]+\.[a-zA-Z0-9_-]+)`)

	phonePattern = regexp.MustCompile(`(\+?[0-9\s\-()]{10,})`)
)

// ExtractPersonalInfo scans text for a name, email, and phone number.
// The three scans are independent; each field is left empty when its
// pattern does not match.
func ExtractPersonalInfo(text string) types.PersonalInfo {
	var info types.PersonalInfo

	if m := namePattern.FindStringSubmatch(text); m != nil {
		if name := strings.TrimSpace(m[1]); name != "" {
			info.Name = name
		}
	}
	if m := emailPattern.FindStringSubmatch(text); m != nil {
		info.Email = strings.TrimSpace(m[1])
	}
	if m := phonePattern.FindStringSubmatch(text); m != nil {
		info.Phone = strings.TrimSpace(m[1])
	}

	return info
}
