package engine

import (
	"regexp"
	"sort"
	"strings"
)

// Start-detection thresholds: each cascade stage only runs when the previous
// stages have not produced enough record starts.
const (
	minPrimaryStarts    = 5
	minSecondaryStarts  = 10
	minPeriodicityStart = 3
	minPatternRepeats   = 3
)

// periodicityDistances are the candidate line strides for the last-resort
// structural-repetition search.
var periodicityDistances = []int{4, 5, 6, 7, 8, 10, 12, 15}

const monthAlt = `January|February|March|April|May|June|July|August|September|October|November|December`
const monthAbbrevAlt = `Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sept?|Oct|Nov|Dec`

// Primary record-start patterns. A line matching any of these opens a record.
var primaryStartPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(?:` + monthAlt + `)\s+\d{1,2},?\s+\d{2,4}\b`),
	regexp.MustCompile(`(?i)^(?:` + monthAbbrevAlt + `)\.?\s+\d{1,2},?\s+\d{2,4}\b`),
	regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{4}\b`),
	regexp.MustCompile(`(?i)^FORM\s*NO\s*[:.#]`),
	regexp.MustCompile(`^[A-Z]{2}\d{5,}$`),
	regexp.MustCompile(`^[A-Z0-9]{5}_\d{6}\b`),
	regexp.MustCompile(`(?i)^RECORD\s*NO\s*[:.#]`),
	regexp.MustCompile(`(?i)^CUSTOMER\s*NAME\s*[:.]`),
	regexp.MustCompile(`(?i)^E-?MAIL(?:\s+ADDRESS)?\s*[:.]`),
	regexp.MustCompile(`^\d+[.)\]:]`),
}

// Secondary patterns are weaker shapes, only trusted right after a separator.
var secondaryStartPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^[A-Z][a-z]+\s+[A-Z][a-z]+\b`),
	regexp.MustCompile(`^\(?\d{3}[).\-\s]\s?\d{3}[.\-\s]?\d{4}\b`),
	regexp.MustCompile(`(?i)^BASIC\s*AMOUNT\s*[:.]`),
}

var (
	reSeparatorRun = regexp.MustCompile(`^(-{3,}|={3,}|_{3,}|\*{3,})`)
	reNumberedItem = regexp.MustCompile(`^([0-9]+|[A-Za-z][0-9]+)[.)]`)
	reLeadingDigit = regexp.MustCompile(`^([1-9])[.)]`)
	reAnySlashDate = regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{4}\b`)
)

// startSet is an immutable-by-convention set of record-start line indices.
// Each cascade stage takes the set it was given and returns a new one.
type startSet map[int]struct{}

func (s startSet) with(indices ...int) startSet {
	out := make(startSet, len(s)+len(indices))
	for i := range s {
		out[i] = struct{}{}
	}
	for _, i := range indices {
		out[i] = struct{}{}
	}
	return out
}

func (s startSet) sorted() []int {
	out := make([]int, 0, len(s))
	for i := range s {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// Segment splits the cleaned line sequence into one LineSpan per logical
// record. Detection is a cascade of increasingly aggressive strategies; if
// nothing at all is found, the whole text is treated as a single record.
func Segment(lines []string) []LineSpan {
	starts := primaryStarts(lines)
	if len(starts) < minPrimaryStarts {
		starts = secondaryStarts(lines, starts)
	}
	if len(starts) < minSecondaryStarts {
		starts = aggressiveStarts(lines, starts)
	}
	if len(starts) < minPeriodicityStart {
		starts = periodicityStarts(lines, starts)
	}

	if len(starts) == 0 {
		return []LineSpan{{Start: 0, End: len(lines)}}
	}

	idx := starts.sorted()
	spans := make([]LineSpan, 0, len(idx))
	for i, s := range idx {
		end := len(lines)
		if i+1 < len(idx) {
			end = idx[i+1]
		}
		spans = append(spans, LineSpan{Start: s, End: end})
	}
	return spans
}

func primaryStarts(lines []string) startSet {
	starts := startSet{}
	for i, line := range lines {
		for _, re := range primaryStartPatterns {
			if re.MatchString(line) {
				starts = starts.with(i)
				break
			}
		}
	}
	return starts
}

// secondaryStarts trusts name/phone/label shapes only when the line opens the
// text or follows a blank or separator run, since these shapes also occur
// mid-record.
func secondaryStarts(lines []string, prev startSet) startSet {
	starts := prev
	for i, line := range lines {
		matched := false
		for _, re := range secondaryStartPatterns {
			if re.MatchString(line) {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}
		if i == 0 || isSeparatorLine(lines[i-1]) {
			starts = starts.with(i)
		}
	}
	return starts
}

func isSeparatorLine(line string) bool {
	return strings.TrimSpace(line) == "" || reSeparatorRun.MatchString(line)
}

// aggressiveStarts accepts numbered-list items on structural evidence (a start
// three lines earlier, or a small leading ordinal) and marks transitions into
// email-bearing or date-bearing lines.
func aggressiveStarts(lines []string, prev startSet) startSet {
	starts := prev
	for i, line := range lines {
		if reNumberedItem.MatchString(line) {
			if _, ok := starts[i-3]; ok && i >= 3 {
				starts = starts.with(i)
			} else if reLeadingDigit.MatchString(line) {
				starts = starts.with(i)
			}
		}
		prevLine := ""
		if i > 0 {
			prevLine = lines[i-1]
		}
		if strings.Contains(line, "@") && !strings.Contains(prevLine, "@") {
			starts = starts.with(i)
		}
		if reAnySlashDate.MatchString(line) && !reAnySlashDate.MatchString(prevLine) {
			starts = starts.with(i)
		}
	}
	return starts
}

// periodicityStarts is the heuristic of last resort: look for a fixed line
// stride at which lines share the same 5-character prefix at least three
// times, and if found, discard everything gathered so far and step through
// the text at that stride. Best-effort; false positives on coincidentally
// repeating layouts are possible.
func periodicityStarts(lines []string, prev startSet) startSet {
	bestDist, bestOffset, bestCount := 0, 0, 0
	for _, dist := range periodicityDistances {
		if dist >= len(lines) {
			continue
		}
		for offset := 0; offset < dist; offset++ {
			count := countPrefixRepeats(lines, offset, dist)
			if count > bestCount {
				bestDist, bestOffset, bestCount = dist, offset, count
			}
		}
	}
	if bestCount < minPatternRepeats {
		return prev
	}

	starts := startSet{}
	for i := bestOffset; i < len(lines); i += bestDist {
		starts = starts.with(i)
	}
	return starts
}

// countPrefixRepeats counts how many lines at offset, offset+dist, ... share
// the first-5-character prefix of the line at offset.
func countPrefixRepeats(lines []string, offset, dist int) int {
	prefix := linePrefix(lines[offset])
	if prefix == "" {
		return 0
	}
	count := 0
	for i := offset; i < len(lines); i += dist {
		if linePrefix(lines[i]) == prefix {
			count++
		}
	}
	return count
}

func linePrefix(line string) string {
	if len(line) < 5 {
		return ""
	}
	return line[:5]
}
