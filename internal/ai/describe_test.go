package ai

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

type stubGenerator struct {
	out string
	err error
}

func (g *stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return g.out, g.err
}

func TestDescribeAcceptanceBounds(t *testing.T) {
	tests := []struct {
		name string
		out  string
		ok   bool
	}{
		{"usable length", strings.Repeat("A great product. ", 5), true},
		{"too short", "Short text.", false},
		{"at lower bound", strings.Repeat("x", minDescriptionLen), false},
		{"at upper bound", strings.Repeat("x", maxDescriptionLen), false},
		{"too long", strings.Repeat("word ", 200), false},
		{"trims before measuring", "   " + strings.Repeat("x", maxDescriptionLen-1) + "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDescriber(&stubGenerator{out: tt.out}, testLogger)
			got, ok := d.Describe(context.Background(), "Cordless Drill", nil)
			if ok != tt.ok {
				t.Fatalf("Describe ok = %v, want %v (len=%d)", ok, tt.ok, len(tt.out))
			}
			if ok && got != strings.TrimSpace(tt.out) {
				t.Errorf("Describe = %q, want trimmed output", got)
			}
		})
	}
}

func TestDescribeRejectsRefusals(t *testing.T) {
	for _, phrase := range refusalPhrases {
		out := "This padding keeps the response above the minimum length. " + phrase + " write that for you."
		d := NewDescriber(&stubGenerator{out: out}, testLogger)
		if _, ok := d.Describe(context.Background(), "Cordless Drill", nil); ok {
			t.Errorf("Describe accepted output containing %q", phrase)
		}
	}
}

func TestDescribeGeneratorError(t *testing.T) {
	d := NewDescriber(&stubGenerator{err: errors.New("backend down")}, testLogger)
	if _, ok := d.Describe(context.Background(), "Cordless Drill", nil); ok {
		t.Error("Describe accepted output after generator error")
	}
}

func TestDescriberAvailable(t *testing.T) {
	if NewDescriber(nil, testLogger).Available() {
		t.Error("nil generator reported as available")
	}

	var client *LLMClient
	if NewDescriber(client, testLogger).Available() {
		t.Error("typed-nil client reported as available")
	}

	if !NewDescriber(&stubGenerator{}, testLogger).Available() {
		t.Error("configured generator reported as absent")
	}
}

func TestBuildPromptIncludesFeatures(t *testing.T) {
	p := buildPrompt("Cordless Drill", []string{"Brushless motor", "Two batteries"})
	if !strings.Contains(p, `"Cordless Drill"`) {
		t.Error("prompt missing title")
	}
	if !strings.Contains(p, "- Brushless motor") || !strings.Contains(p, "- Two batteries") {
		t.Error("prompt missing feature lines")
	}
}
