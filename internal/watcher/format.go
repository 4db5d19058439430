package watcher

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Capitalize upper-cases the first letter and lower-cases the rest,
// so "bitcoin" becomes "Bitcoin" and "USD-COIN" becomes "Usd-coin".
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

// FormatNumber renders v in its shortest form, keeping one decimal for
// whole numbers: 5 -> "5.0", 2.5 -> "2.5".
func FormatNumber(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}
