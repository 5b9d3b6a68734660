package ocr

import (
	"regexp"
	"strings"
)

var (
	reDateish  = regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{4}\b|\b(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\s+\d{1,2}`)
	reEmailish = regexp.MustCompile(`\S@\S`)
	reCodeish  = regexp.MustCompile(`\b\d{5}_\d{6}\b|\b10\d{2}\b`)
)

func hasDatePattern(s string) bool  { return reDateish.MatchString(s) }
func hasEmailPattern(s string) bool { return reEmailish.MatchString(s) }
func hasCodePattern(s string) bool  { return reCodeish.MatchString(s) }

// naive heuristic confidence based on decoded text characteristics: boost
// when the artifacts a readable form page always carries are present.
func heuristicConfidence(txt string) float32 {
	txtL := strings.ToLower(txt)
	score := float32(0.2) // base
	if hasDatePattern(txtL) {
		score += 0.2
	}
	if hasEmailPattern(txtL) {
		score += 0.15
	}
	if hasCodePattern(txtL) {
		score += 0.15
	}
	if len(txt) > 120 {
		score += 0.1
	} // enough content
	if score > 1.0 {
		score = 1.0
	}
	return score
}
