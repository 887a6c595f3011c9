package content

import (
	"regexp"
	"strings"
)

// maxSlugLength caps generated slugs.
const maxSlugLength = 50

var nonSlugRun = regexp.MustCompile(`[^a-z0-9]+`)

// Slug derives a URL-safe identifier from text: lowercase, runs of
// non-alphanumeric characters collapsed to single hyphens, trimmed, and
// capped at 50 characters without exposing a truncation hyphen.
// Slug is deterministic and idempotent.
func Slug(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	s = nonSlugRun.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")

	if len(s) > maxSlugLength {
		s = s[:maxSlugLength]
		s = strings.TrimRight(s, "-")
	}
	return s
}
