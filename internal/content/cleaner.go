// Package content cleans and validates resolved product text. Identifier
// codes leak into scraped titles and descriptions constantly, so every
// text field passes through here before a record is assembled.
package content

import (
	"regexp"
	"strings"
)

// GenericTitle replaces a title that becomes unusable after cleaning.
const GenericTitle = "Essential Product"

// minUsableTitle is the length below which a cleaned title is replaced
// with GenericTitle.
const minUsableTitle = 5

var (
	// Identifier-shaped tokens: 10-char alphanumeric runs and common
	// vendor product-code shapes.
	asinRun       = regexp.MustCompile(`\b[A-Z0-9]{10}\b`)
	vendorCode    = regexp.MustCompile(`\b[A-Z]\d{2}[A-Z0-9]{7}\b`)
	productPrefix = regexp.MustCompile(`(?i)Product\s+[A-Z0-9]{10}`)
	dashedASIN    = regexp.MustCompile(`\s*-\s*[A-Z0-9]{10}\s*`)
	pipedASIN     = regexp.MustCompile(`\s*\|\s*[A-Z0-9]{10}\s*`)
	parenASIN     = regexp.MustCompile(`\([A-Z0-9]{10}\)`)
	multiSpace    = regexp.MustCompile(`\s+`)
	trailingDash  = regexp.MustCompile(`\s*-\s*$`)
	leadingDash   = regexp.MustCompile(`^\s*-\s*`)
	trailingPipe  = regexp.MustCompile(`\s*\|\s*$`)
	leadingPipe   = regexp.MustCompile(`^\s*\|\s*`)

	// Marketplace boilerplate stripped from titles regardless of which
	// strategy produced them.
	amazonSuffix  = regexp.MustCompile(`(?i)\s*[|-]\s*Amazon\.com.*$`)
	amazonPrefix  = regexp.MustCompile(`(?i)^Amazon\.com\s*:\s*`)
	amazonMention = regexp.MustCompile(`(?i)Amazon\.com`)
)

// StripIdentifiers removes identifier-shaped tokens from text and tidies
// the punctuation their removal leaves behind.
func StripIdentifiers(text string) string {
	if text == "" {
		return text
	}

	s := asinRun.ReplaceAllString(text, "")
	s = vendorCode.ReplaceAllString(s, "")
	s = productPrefix.ReplaceAllString(s, "Product")
	s = dashedASIN.ReplaceAllString(s, " ")
	s = pipedASIN.ReplaceAllString(s, " ")
	s = parenASIN.ReplaceAllString(s, "")

	s = multiSpace.ReplaceAllString(s, " ")
	s = trailingDash.ReplaceAllString(s, "")
	s = leadingDash.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// CleanTitle strips marketplace boilerplate and identifier leakage from a
// raw title, truncating to maxLength at a word boundary.
func CleanTitle(rawTitle string, maxLength int) string {
	if strings.TrimSpace(rawTitle) == "" {
		return GenericTitle
	}

	s := strings.TrimSpace(rawTitle)
	s = amazonSuffix.ReplaceAllString(s, "")
	s = amazonPrefix.ReplaceAllString(s, "")
	s = amazonMention.ReplaceAllString(s, "")
	s = StripIdentifiers(s)
	s = trailingPipe.ReplaceAllString(s, "")
	s = leadingPipe.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)

	if len(s) < minUsableTitle {
		return GenericTitle
	}
	return TruncateAtWord(s, maxLength)
}

// CleanDescription strips identifier leakage from a description.
func CleanDescription(description string) string {
	return StripIdentifiers(description)
}

// TruncateAtWord shortens text to maxLength with an ellipsis, breaking at
// the last space unless it falls before 70% of the budget.
func TruncateAtWord(text string, maxLength int) string {
	if maxLength <= 0 || len(text) <= maxLength {
		return text
	}

	truncateAt := maxLength - 3 // reserve room for the ellipsis
	if lastSpace := strings.LastIndex(text[:truncateAt+1], " "); lastSpace > (maxLength*7)/10 {
		truncateAt = lastSpace
	}
	return strings.TrimSpace(text[:truncateAt]) + "..."
}
