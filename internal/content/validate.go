package content

import (
	"fmt"
	"regexp"
)

// Profile selects how strict description validation is. Callers choose
// the profile; Standard is the default.
type Profile int

const (
	Standard Profile = iota
	Strict
)

// Field-length invariants enforced before a record is accepted.
const (
	MinTitleLength       = 3
	MaxTitleLength       = 100
	MinDescriptionLength = 10
	MinDescriptionStrict = 20
	MinSlugLength        = 3
)

var slugShape = regexp.MustCompile(`^[a-z0-9-]+$`)

// Fields holds the text fields subject to validation.
type Fields struct {
	Title       string
	Description string
	Slug        string
}

// Validate returns the list of violated rules, empty when all pass.
// It is the caller's job to decide what to do about violations.
func Validate(f Fields, profile Profile) []string {
	var violations []string

	if len(f.Title) < MinTitleLength {
		violations = append(violations, fmt.Sprintf("title must be at least %d characters long", MinTitleLength))
	}
	if len(f.Title) > MaxTitleLength {
		violations = append(violations, fmt.Sprintf("title must be at most %d characters long", MaxTitleLength))
	}

	minDesc := MinDescriptionLength
	if profile == Strict {
		minDesc = MinDescriptionStrict
	}
	if len(f.Description) < minDesc {
		violations = append(violations, fmt.Sprintf("description must be at least %d characters long", minDesc))
	}

	if len(f.Slug) < MinSlugLength {
		violations = append(violations, fmt.Sprintf("slug must be at least %d characters long", MinSlugLength))
	} else if !slugShape.MatchString(f.Slug) {
		violations = append(violations, "slug must contain only lowercase letters, numbers, and hyphens")
	}

	return violations
}

// ProfileFromString maps a config profile name to a Profile.
func ProfileFromString(s string) Profile {
	if s == "strict" {
		return Strict
	}
	return Standard
}
