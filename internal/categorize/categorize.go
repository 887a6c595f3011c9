// Package categorize assigns a storefront category to a product by
// keyword-scoring its title and description against a fixed table.
package categorize

import (
	"strings"
)

// Miscellaneous is the zero-match default and always a valid outcome.
const Miscellaneous = "Miscellaneous"

// categoryEntry pairs a category name with its keyword list. Slice order
// is the tie-break order: on equal scores the earlier entry wins.
type categoryEntry struct {
	name     string
	keywords []string
}

var categoryTable = []categoryEntry{
	{"Arts, Crafts & Sewing", []string{
		"craft", "sewing", "art", "paint", "brush", "canvas", "thread", "needle",
		"embroidery", "scrapbook", "glue", "scissors", "fabric", "yarn", "knit",
		"crochet", "drawing", "sketch", "marker", "colored pencil", "creative",
	}},
	{"Automotive", []string{
		"car", "auto", "vehicle", "truck", "motorcycle", "tire", "engine", "brake",
		"oil", "filter", "battery", "headlight", "windshield", "dashboard",
		"steering", "transmission", "exhaust", "automotive", "garage",
	}},
	{"Books", []string{
		"book", "novel", "reading", "paperback", "hardcover", "kindle", "ebook",
		"author", "story", "fiction", "non-fiction", "textbook", "manual",
		"guide book", "literature", "magazine", "journal",
	}},
	{"Electronics", []string{
		"electronic", "phone", "computer", "laptop", "tablet", "camera", "tv",
		"speaker", "headphone", "charger", "cable", "usb", "bluetooth", "wifi",
		"battery", "power bank", "gaming", "console", "smart", "digital",
		"device", "gadget", "tech", "wireless",
	}},
	{"Health & Household", []string{
		"health", "medicine", "vitamin", "supplement", "first aid", "bandage",
		"thermometer", "personal care", "hygiene", "soap", "shampoo", "toothbrush",
		"cleaning", "detergent", "disinfectant", "tissue", "toilet paper",
		"household", "laundry", "vacuum", "mop", "wellness", "fitness",
	}},
	{"Home & Kitchen", []string{
		"kitchen", "cooking", "cook", "baking", "recipe", "pot", "pan", "knife",
		"cutting board", "mixer", "blender", "microwave", "oven", "refrigerator",
		"dishware", "plate", "bowl", "cup", "utensil", "spoon", "fork",
		"home", "furniture", "decor", "lamp", "pillow", "curtain", "rug",
		"storage", "organization", "cabinet", "shelf", "dining", "bedroom",
		"living room", "appliance", "food", "meal", "kitchen gadget",
	}},
	{"Industrial & Scientific", []string{
		"industrial", "scientific", "laboratory", "research", "testing", "measurement",
		"instrument", "chemical", "safety", "protective", "equipment", "machinery",
		"technical", "professional", "commercial", "manufacturing", "precision",
	}},
	{"Outdoor & Tactical Gear", []string{
		"outdoor", "camping", "hiking", "backpack", "tent", "sleeping bag",
		"tactical", "military", "survival", "emergency", "flashlight", "lantern",
		"compass", "map", "knife", "multitool", "rope", "paracord", "hunting",
		"fishing", "adventure", "expedition", "weather", "waterproof", "gear",
	}},
	{"Sports & Outdoors", []string{
		"sport", "exercise", "fitness", "gym", "workout", "running", "cycling",
		"swimming", "basketball", "football", "soccer", "tennis", "golf",
		"baseball", "volleyball", "outdoor", "recreation", "activity",
		"equipment", "athletic", "training", "muscle", "cardio",
	}},
	{"Tools & Home Improvement", []string{
		"tool", "drill", "hammer", "screwdriver", "wrench", "saw", "nail",
		"screw", "bolt", "hardware", "repair", "fix", "build", "construction",
		"improvement", "renovation", "maintenance", "workshop", "garage",
		"diy", "project", "building", "plumbing", "electrical", "painting",
	}},
}

// Categories returns the closed category set, declaration order first,
// with Miscellaneous last.
func Categories() []string {
	names := make([]string, 0, len(categoryTable)+1)
	for _, entry := range categoryTable {
		names = append(names, entry.name)
	}
	return append(names, Miscellaneous)
}

// Categorize scores each category against title+description and returns
// the strictly highest scorer. Each keyword found anywhere scores 1 point,
// plus 2 more when it appears in the title. Ties keep the earlier entry;
// a zero score yields Miscellaneous. Pure function, no I/O.
func Categorize(title, description string) string {
	titleLower := strings.ToLower(title)
	text := titleLower + " " + strings.ToLower(description)

	best := Miscellaneous
	maxScore := 0

	for _, entry := range categoryTable {
		score := 0
		for _, keyword := range entry.keywords {
			if strings.Contains(text, keyword) {
				score++
				if strings.Contains(titleLower, keyword) {
					score += 2
				}
			}
		}
		if score > maxScore {
			maxScore = score
			best = entry.name
		}
	}

	return best
}
