package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var monthNames = []string{
	"january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
}

// Standard abbreviations, including the irregular "sept".
var monthAbbrevs = map[string]int{
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
	"jul": 7, "aug": 8, "sep": 9, "sept": 9, "oct": 10, "nov": 11, "dec": 12,
}

var (
	reSpaceRun    = regexp.MustCompile(`\s+`)
	reTextualDate = regexp.MustCompile(`^([A-Za-z]+)\.?\s+(\d{1,2}),?\s+(\d{2,4})$`)
	reSlashDate   = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{2,4})$`)
	reEuroDate    = regexp.MustCompile(`^(\d{1,2})[.\-](\d{1,2})[.\-](\d{2,4})$`)
)

// monthNumber resolves a month word by case-insensitive prefix match against
// the full names and their abbreviations. Returns 0 when unknown.
func monthNumber(word string) int {
	w := strings.ToLower(strings.TrimSuffix(word, "."))
	if w == "" {
		return 0
	}
	if m, ok := monthAbbrevs[w]; ok {
		return m
	}
	for i, name := range monthNames {
		if strings.HasPrefix(name, w) && len(w) >= 3 {
			return i + 1
		}
	}
	return 0
}

// expandYear maps two-digit years onto 19xx/20xx: <50 -> 2000+y, >=50 -> 1900+y.
func expandYear(y int) int {
	if y >= 100 {
		return y
	}
	if y < 50 {
		return 2000 + y
	}
	return 1900 + y
}

// parseDate attempts the three supported forms in order and returns
// (month, day, year, ok). Callers pick the output format.
func parseDate(input string) (int, int, int, bool) {
	s := strings.TrimSpace(reSpaceRun.ReplaceAllString(input, " "))
	if s == "" {
		return 0, 0, 0, false
	}

	if m := reTextualDate.FindStringSubmatch(s); m != nil {
		if mon := monthNumber(m[1]); mon != 0 {
			day, _ := strconv.Atoi(m[2])
			year, _ := strconv.Atoi(m[3])
			if day >= 1 && day <= 31 {
				return mon, day, expandYear(year), true
			}
		}
	}

	if m := reSlashDate.FindStringSubmatch(s); m != nil {
		mon, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if mon >= 1 && mon <= 12 && day >= 1 && day <= 31 {
			return mon, day, expandYear(year), true
		}
	}

	if m := reEuroDate.FindStringSubmatch(s); m != nil {
		a, _ := strconv.Atoi(m[1])
		b, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		// European style: first group is the day, unless it cannot be a month
		// at all. When the first group is <=12 the source emits it in the
		// month slot; kept bit-compatible with existing downstream sheets.
		var mon, day int
		if a > 12 && b <= 12 {
			mon, day = b, a
		} else {
			mon, day = a, b
		}
		if mon >= 1 && mon <= 12 && day >= 1 && day <= 31 {
			return mon, day, expandYear(year), true
		}
	}

	return 0, 0, 0, false
}

// NormalizeDate parses a loosely-formatted date and returns it as zero-padded
// MM/DD/YYYY. Empty input yields ""; unparseable input is returned unchanged.
func NormalizeDate(input string) string {
	if strings.TrimSpace(input) == "" {
		return ""
	}
	mon, day, year, ok := parseDate(input)
	if !ok {
		return input
	}
	return fmt.Sprintf("%02d/%02d/%04d", mon, day, year)
}

// FormatDateLong is the display variant: "Month Day, Year" with the full month
// name and no zero-padding on the day. Same parse cascade as NormalizeDate.
func FormatDateLong(input string) string {
	if strings.TrimSpace(input) == "" {
		return ""
	}
	mon, day, year, ok := parseDate(input)
	if !ok {
		return input
	}
	name := monthNames[mon-1]
	return fmt.Sprintf("%s %d, %d", strings.ToUpper(name[:1])+name[1:], day, year)
}
