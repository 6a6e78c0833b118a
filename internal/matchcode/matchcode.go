// Package matchcode generates and normalizes the short invite codes
// used for private matches.  Codes are 6 characters drawn uniformly
// from [A-Z0-9] (~31 bits).  Uniqueness against the store is the
// caller's responsibility: generate, check for a collision, retry.
package matchcode

import (
	"crypto/rand"
	"strings"
)

const (
	// Length is the number of characters in a raw match code.
	Length = 6

	alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// Generate returns a new random code.  The underlying call to
// crypto/rand ensures the draw is not predictable from earlier codes.
// Bytes are rejection-sampled so every alphabet character is equally
// likely.
func Generate() (string, error) {
	out := make([]byte, 0, Length)
	buf := make([]byte, Length*2)
	for len(out) < Length {
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		for _, b := range buf {
			// 252 = 7*36; values at or above would bias the tail.
			if b >= 252 {
				continue
			}
			out = append(out, alphabet[int(b)%len(alphabet)])
			if len(out) == Length {
				break
			}
		}
	}
	return string(out), nil
}

// IsValid reports whether code is exactly Length characters of the
// raw alphabet.  Display formatting must be stripped with Clean first.
func IsValid(code string) bool {
	if len(code) != Length {
		return false
	}
	for i := 0; i < len(code); i++ {
		c := code[i]
		if (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}

// Clean strips hyphens and whitespace and upper-cases the remainder,
// reversing FormatForDisplay and tolerating sloppy user input.
func Clean(code string) string {
	var b strings.Builder
	b.Grow(len(code))
	for _, r := range strings.ToUpper(code) {
		switch r {
		case '-', ' ', '\t':
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FormatForDisplay inserts a hyphen after the third character for
// readability ("ABC123" -> "ABC-123").  Presentation only; Clean
// reverses it.  Codes of unexpected length are returned unchanged.
func FormatForDisplay(code string) string {
	if len(code) != Length {
		return code
	}
	return code[:3] + "-" + code[3:]
}
