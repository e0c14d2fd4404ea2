// Package phone validates and canonicalizes raw phone number input into a
// single comparable key. Normalization is purely structural: it does not
// check real-world dialing feasibility.
package phone

import "strings"

const (
	minDigits = 10
	maxDigits = 15
)

// Validate strips all non-digit characters and accepts the input only if the
// remaining digit count is within [10, 15].
func Validate(raw string) bool {
	n := len(digits(raw))
	return n >= minDigits && n <= maxDigits
}

// Normalize canonicalizes raw into an E.164-like key with a leading "+".
// Inputs carrying an explicit "+" marker keep their digits as-is. Without a
// marker, a bare 10-digit number under the North American prefix "1" gets
// that prefix prepended; anything else gets defaultPrefix prepended verbatim.
// Two spellings of the same number must produce the same key, so the "+" is
// always part of the result.
func Normalize(raw, defaultPrefix string) string {
	d := digits(raw)
	if strings.HasPrefix(strings.TrimSpace(raw), "+") {
		return "+" + d
	}
	if defaultPrefix == "1" && len(d) == 10 {
		return "+1" + d
	}
	return "+" + defaultPrefix + d
}

func digits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
