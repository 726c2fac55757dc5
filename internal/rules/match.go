package rule

import (
	"path"
	"strings"
)

// MatchPattern reports whether value matches the glob pattern. Patterns use
// shell-style wildcards (* and ?); an empty pattern or "*" matches anything.
// Matching is case-insensitive since customer and rack codes are entered by
// hand.
func MatchPattern(pattern, value string) bool {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" || pattern == "*" {
		return true
	}
	ok, err := path.Match(strings.ToLower(pattern), strings.ToLower(value))
	if err != nil {
		// Malformed pattern never matches.
		return false
	}
	return ok
}

// MatchAnyPattern reports whether value matches at least one of the patterns.
// An empty pattern list matches nothing: rack patterns are opt-in.
func MatchAnyPattern(patterns []string, value string) bool {
	for _, pattern := range patterns {
		if MatchPattern(pattern, value) {
			return true
		}
	}
	return false
}
