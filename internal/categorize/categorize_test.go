package categorize

import (
	"testing"
)

func TestCategorize(t *testing.T) {
	tests := []struct {
		name        string
		title       string
		description string
		want        string
	}{
		{
			"electronics",
			"Wireless Bluetooth Headphones",
			"Premium sound with a long battery life and USB charging.",
			"Electronics",
		},
		{
			"kitchen",
			"Nonstick Frying Pan",
			"A kitchen essential for cooking and baking at home.",
			"Home & Kitchen",
		},
		{
			"zero match",
			"Thingamajig",
			"An indescribable item.",
			Miscellaneous,
		},
		{
			"empty input",
			"",
			"",
			Miscellaneous,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Categorize(tt.title, tt.description); got != tt.want {
				t.Errorf("Categorize(%q, %q) = %q, want %q", tt.title, tt.description, got, tt.want)
			}
		})
	}
}

func TestCategorizeTitleWeighting(t *testing.T) {
	// "cordless drill" in the title gives Tools a title-weighted score that
	// a single body-text "electronic" match cannot beat.
	title := "Cordless Drill Kit"
	description := "Includes an electronic torque readout."

	if got := Categorize(title, description); got != "Tools & Home Improvement" {
		t.Errorf("expected Tools & Home Improvement, got %q", got)
	}
}

func TestCategorizeTieBreakDeterministic(t *testing.T) {
	// "outdoor" appears in both Outdoor & Tactical Gear and Sports &
	// Outdoors keyword lists; with only that keyword in the body the scores
	// tie and the earlier table entry must win, on every run.
	description := "great for outdoor use"

	for i := 0; i < 10; i++ {
		if got := Categorize("Widget", description); got != "Outdoor & Tactical Gear" {
			t.Fatalf("tie-break not deterministic: got %q on run %d", got, i)
		}
	}
}

func TestCategoriesIncludesMiscellaneousLast(t *testing.T) {
	cats := Categories()
	if len(cats) != 11 {
		t.Fatalf("expected 11 categories, got %d", len(cats))
	}
	if cats[len(cats)-1] != Miscellaneous {
		t.Errorf("Miscellaneous must be last, got %q", cats[len(cats)-1])
	}
	if cats[0] != "Arts, Crafts & Sewing" {
		t.Errorf("first category should be Arts, Crafts & Sewing, got %q", cats[0])
	}
}
