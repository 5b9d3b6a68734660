package engine

import "strings"

// Generational suffixes kept whole rather than abbreviated to a first letter.
var nameSuffixes = map[string]struct{}{
	"jr": {}, "sr": {}, "ii": {}, "iii": {}, "iv": {}, "v": {}, "vi": {},
}

func stripNameToken(tok string) string {
	var b strings.Builder
	for _, c := range tok {
		if (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '.' {
			b.WriteRune(c)
		}
	}
	return b.String()
}

// Initials derives initials from a free-text name: each token contributes its
// first character plus a period, generational suffixes ("Jr", "III", ...) and
// tokens already carrying periods are kept whole. Tokens that are empty after
// stripping non-alphanumerics are skipped. No separator between parts.
func Initials(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}

	var b strings.Builder
	for _, tok := range strings.Fields(name) {
		tok = stripNameToken(tok)
		if tok == "" {
			continue
		}
		lower := strings.ToLower(strings.Trim(tok, "."))
		switch {
		case len(tok) == 1:
			b.WriteString(tok)
			b.WriteString(".")
		case hasSuffix(lower):
			b.WriteString(strings.TrimSuffix(tok, "."))
			b.WriteString(".")
		case strings.Contains(tok, "."):
			b.WriteString(tok)
			if !strings.HasSuffix(tok, ".") {
				b.WriteString(".")
			}
		default:
			b.WriteString(tok[:1])
			b.WriteString(".")
		}
	}
	return b.String()
}

func hasSuffix(lower string) bool {
	_, ok := nameSuffixes[lower]
	return ok
}
