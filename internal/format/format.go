// Package format holds display-formatting helpers shared by the HTTP
// surface: monetary amounts the way the tills print them and slugs for
// stable element references.
package format

import (
	"fmt"
	"strings"
)

// Amount renders a monetary value with two decimals and a space as the
// thousands separator, e.g. 1234567.5 -> "1 234 567.50".
func Amount(n float64) string {
	return AmountN(n, 2)
}

// AmountN is Amount with a configurable number of decimal places.
func AmountN(n float64, decimals int) string {
	if n == 0 {
		return fmt.Sprintf("%.*f", decimals, 0.0)
	}

	s := fmt.Sprintf("%.*f", decimals, n)

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign = "-"
		s = s[1:]
	}

	intPart := s
	fracPart := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i:]
	}

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}

	return sign + b.String() + fracPart
}

// Slugify lowercases, trims and hyphenates whitespace runs.
func Slugify(s string) string {
	if s == "" {
		return ""
	}
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(s))), "-")
}
