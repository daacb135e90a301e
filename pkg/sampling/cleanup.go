package sampling

import "strings"

// Cleanup normalizes joined tag text into ", " delimited segments without
// empty segments, doubled separators or leading and trailing separators.
//
// Cleanup is idempotent.
func Cleanup(s string) string {
	s = strings.ReplaceAll(s, ", ", ",")
	for strings.Contains(s, ",,") {
		s = strings.ReplaceAll(s, ",,", ",")
	}
	s = strings.ReplaceAll(s, ",", ", ")
	return strings.Trim(s, ", ")
}

// Stringify joins tags with sep and cleans up the result.
func Stringify(tags []string, sep string) string {
	return Cleanup(strings.Join(tags, sep))
}

// Split breaks a prompt into its tags. Empty segments are dropped.
func Split(prompt string) []string {
	parts := strings.Split(Cleanup(prompt), ", ")
	tags := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}
