package matchcode

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateProducesValidCodes(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		code, err := Generate()
		require.NoError(t, err)
		assert.Len(t, code, Length)
		assert.True(t, IsValid(code), "generated code %q failed IsValid", code)
		for _, r := range code {
			assert.Contains(t, alphabet, string(r))
		}
		seen[code] = true
	}
	// 200 draws from a 36^6 space colliding down to a handful would
	// point at a broken random source.
	assert.Greater(t, len(seen), 190)
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		name string
		code string
		want bool
	}{
		{"valid", "ABC123", true},
		{"all letters", "QWERTY", true},
		{"all digits", "000000", true},
		{"too short", "ABC12", false},
		{"too long", "ABC1234", false},
		{"lowercase", "abc123", false},
		{"hyphenated", "ABC-12", false},
		{"empty", "", false},
		{"ambiguous punct", "ABC 12", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValid(tt.code))
		})
	}
}

func TestCleanNormalizesUserInput(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"abc123", "ABC123"},
		{"ABC-123", "ABC123"},
		{" abc-123 ", "ABC123"},
		{"A b C 1 2 3", "ABC123"},
		{"ABC123", "ABC123"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Clean(tt.in), "Clean(%q)", tt.in)
	}
}

func TestFormatForDisplayRoundTrip(t *testing.T) {
	code, err := Generate()
	require.NoError(t, err)

	display := FormatForDisplay(code)
	assert.Equal(t, 7, len(display))
	assert.Equal(t, byte('-'), display[3])
	assert.False(t, IsValid(display), "display form must not pass raw validation")
	assert.Equal(t, code, Clean(display))
}

func TestFormatForDisplayLeavesOddLengthsAlone(t *testing.T) {
	assert.Equal(t, "ABC", FormatForDisplay("ABC"))
	assert.Equal(t, "", FormatForDisplay(""))
}

func TestCleanLowercaseDisplayForm(t *testing.T) {
	// The full round trip a user actually performs: receive the display
	// form, retype it sloppily, redeem it.
	raw := "XY9K2M"
	typed := strings.ToLower(FormatForDisplay(raw))
	assert.Equal(t, raw, Clean(typed))
	assert.True(t, IsValid(Clean(typed)))
}
