package ai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

const copywriterSystemPrompt = `You are an expert e-commerce copywriter specializing in affiliate marketing. Create compelling product descriptions that convert browsers into buyers.

WRITING STYLE:
- Conversational and engaging tone
- Focus on customer benefits, not just features
- Use emotional triggers and urgency
- End with a clear call-to-action
- Keep under 120 words for optimal readability

AVOID:
- Technical jargon
- Generic phrases like "high quality"
- Overly salesy language
- Excessive punctuation or ALL CAPS`

// Acceptance bounds for generated descriptions. Output outside these
// limits, or containing refusal phrasing, is discarded.
const (
	minDescriptionLen = 30
	maxDescriptionLen = 600
)

var refusalPhrases = []string{
	"I cannot",
	"I'm unable",
	"I am unable",
	"As an AI",
}

// Describer wraps a Generator and turns resolved titles/features into a
// short marketing description, validating the output before accepting it.
type Describer struct {
	gen    Generator
	logger *slog.Logger
}

// NewDescriber creates a Describer. gen may be nil, in which case every
// Describe call reports the capability as absent.
func NewDescriber(gen Generator, logger *slog.Logger) *Describer {
	return &Describer{gen: gen, logger: logger.With("component", "describer")}
}

// Available reports whether a generation backend is configured.
func (d *Describer) Available() bool {
	if d == nil || d.gen == nil {
		return false
	}
	// A typed-nil *LLMClient behind the interface also means absent.
	if c, ok := d.gen.(*LLMClient); ok && c == nil {
		return false
	}
	return true
}

// Describe requests a marketing description conditioned on the title and
// any scraped features. Returns ("", false) when the output fails the
// acceptance bounds so callers fall to the next tier.
func (d *Describer) Describe(ctx context.Context, title string, features []string) (string, bool) {
	if !d.Available() {
		return "", false
	}

	prompt := buildPrompt(title, features)
	out, err := d.gen.Generate(ctx, prompt)
	if err != nil {
		d.logger.Warn("description generation failed", "title", title, "error", err)
		return "", false
	}

	out = strings.TrimSpace(out)
	if len(out) <= minDescriptionLen || len(out) >= maxDescriptionLen {
		d.logger.Warn("generated description outside bounds", "length", len(out))
		return "", false
	}
	for _, phrase := range refusalPhrases {
		if strings.Contains(out, phrase) {
			d.logger.Warn("generated description contains refusal phrasing")
			return "", false
		}
	}

	d.logger.Debug("description generated", "length", len(out))
	return out, true
}

func buildPrompt(title string, features []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write a compelling product description for: %q\n\n", title)
	if len(features) > 0 {
		b.WriteString("Known product features:\n")
		for _, f := range features {
			fmt.Fprintf(&b, "- %s\n", f)
		}
		b.WriteString("\n")
	}
	b.WriteString(`Focus on:
- Why customers need this product
- What problems it solves
- The experience they'll have using it
- End with a natural call-to-action

Keep it under 120 words and make every word count.`)
	return b.String()
}
