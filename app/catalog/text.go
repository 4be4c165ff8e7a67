package catalog

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// cleanText normalizes scraped text: NFC, non-breaking spaces as spaces,
// surrounding whitespace trimmed.
func cleanText(s string) string {
	s = norm.NFC.String(s)
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return strings.TrimSpace(s)
}

// foldEqual compares case-insensitively. Casers are stateful, so each call
// gets its own.
func foldEqual(a, b string) bool {
	folder := cases.Fold()
	return folder.String(a) == folder.String(b)
}

// leadingInt parses an optionally signed run of digits at the start of s,
// after leading whitespace, ignoring anything that follows.
func leadingInt(s string) (int, bool) {
	s = strings.TrimLeft(s, " \t\r\n")

	negative := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		negative = s[0] == '-'
		s = s[1:]
	}

	value := 0
	digits := 0
	for _, char := range s {
		if char < '0' || char > '9' {
			break
		}
		value = value*10 + int(char-'0')
		digits++
	}

	if digits == 0 {
		return 0, false
	}
	if negative {
		value = -value
	}
	return value, true
}

// cleanNumber strips currency symbols and thousands separators.
func cleanNumber(s string) string {
	return strings.NewReplacer("$", "", ",", "", " ", "").Replace(strings.TrimSpace(s))
}

func firstN(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
