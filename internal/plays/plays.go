// Package plays classifies play-by-play descriptions.
//
// The feed gives free-text descriptions, not structured play types, so
// classification is substring matching against a fixed vocabulary. Good
// enough for highlight tagging and sound cues; not a stats engine.
package plays

import "strings"

// Category tags a play description for highlight treatment.
type Category string

const (
	CategoryNone    Category = ""
	CategoryThree   Category = "three"
	CategoryDunk    Category = "dunk"
	CategoryBlock   Category = "block"
	CategorySteal   Category = "steal"
	CategoryScoring Category = "scoring"
)

var scoringWords = []string{
	"point", "dunk", "layup", "three", "3pt", "free throw",
	"jumper", "hook", "tip",
}

// IsScoring reports whether a description looks like a made basket.
func IsScoring(desc string) bool {
	if desc == "" {
		return false
	}
	d := strings.ToLower(desc)
	for _, w := range scoringWords {
		if strings.Contains(d, w) {
			return true
		}
	}
	return false
}

// Classify returns the highlight category for a description. Checks run
// in priority order; a "blocked three" tags as a three.
func Classify(desc string) Category {
	if desc == "" {
		return CategoryNone
	}
	d := strings.ToLower(desc)
	switch {
	case strings.Contains(d, "three") || strings.Contains(d, "3pt") || strings.Contains(d, "3-point"):
		return CategoryThree
	case strings.Contains(d, "dunk") || strings.Contains(d, "slam"):
		return CategoryDunk
	case strings.Contains(d, "block"):
		return CategoryBlock
	case strings.Contains(d, "steal"):
		return CategorySteal
	case IsScoring(d):
		return CategoryScoring
	default:
		return CategoryNone
	}
}

// Points infers how many points a scoring play was worth from its
// description: three-pointers 3, free throws 1, everything else 2.
func Points(desc string) int {
	d := strings.ToLower(desc)
	switch {
	case strings.Contains(d, "three") || strings.Contains(d, "3pt") || strings.Contains(d, "3-point"):
		return 3
	case strings.Contains(d, "free throw"):
		return 1
	default:
		return 2
	}
}

// WantsGasp reports whether a play should trigger the short crowd-gasp
// cue (blocks and steals only).
func WantsGasp(desc string) bool {
	c := Classify(desc)
	return c == CategoryBlock || c == CategorySteal
}
