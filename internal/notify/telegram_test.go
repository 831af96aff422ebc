package notify

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncateKeepsShortMessages(t *testing.T) {
	text := "New order #42\nTotal: 27.80 EUR"
	assert.Equal(t, text, truncate(text))
}

func TestTruncateCutsMultiByteTextOnRuneBoundary(t *testing.T) {
	// 2-byte runes make every odd byte offset fall mid-character.
	text := strings.Repeat("ä", 3000)

	got := truncate(text)

	assert.True(t, utf8.ValidString(got))
	assert.LessOrEqual(t, len(got), telegramMaxLen)
	assert.LessOrEqual(t, utf8.RuneCountInString(got), telegramMaxLen)
	assert.True(t, strings.HasSuffix(got, "(trimmed)"))
}

func TestTruncateLongASCIIText(t *testing.T) {
	got := truncate(strings.Repeat("x", 5000))

	assert.LessOrEqual(t, len(got), telegramMaxLen)
	assert.True(t, strings.HasSuffix(got, "(trimmed)"))
	assert.True(t, utf8.ValidString(got))
}

func TestMapsLink(t *testing.T) {
	assert.Equal(t,
		"https://www.google.com/maps?q=60.1699,24.9384",
		MapsLink(60.1699, 24.9384))
}
