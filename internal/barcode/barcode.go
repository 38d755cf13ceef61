// Package barcode holds the candidate sanitation rules shared by the
// detection client and the ingestion gateway. The server never trusts the
// client-side pass; both apply the same rules independently.
package barcode

import "strings"

// MinDigits is the minimum length of a sanitized barcode. Anything shorter
// is decoder noise.
const MinDigits = 8

// Sanitize strips every non-digit character from a raw decoder candidate.
func Sanitize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Valid reports whether a sanitized barcode meets the minimum digit length.
func Valid(sanitized string) bool {
	return len(sanitized) >= MinDigits
}
