package utils

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestTruncateText(t *testing.T) {
	tp := NewTextProcessor(zap.NewNop())

	t.Run("short text untouched", func(t *testing.T) {
		assert.Equal(t, "hello", tp.TruncateText("hello", 100))
	})

	t.Run("long text truncated with marker", func(t *testing.T) {
		got := tp.TruncateText(strings.Repeat("a", 50), 10)
		assert.True(t, strings.HasPrefix(got, strings.Repeat("a", 10)))
		assert.Contains(t, got, "Content truncated")
	})

	t.Run("never splits a multi-byte rune", func(t *testing.T) {
		// "é" is two bytes; a limit of 3 lands mid-rune
		got := tp.TruncateText("aéé", 3)
		assert.True(t, utf8.ValidString(got))
	})
}

func TestSanitizeUTF8(t *testing.T) {
	tp := NewTextProcessor(zap.NewNop())

	t.Run("valid text passes through", func(t *testing.T) {
		assert.Equal(t, "Bewerbung für Acme", tp.SanitizeUTF8("Bewerbung für Acme"))
	})

	t.Run("invalid bytes dropped not replaced", func(t *testing.T) {
		got := tp.SanitizeUTF8("ok\xff\xfetext")
		assert.Equal(t, "oktext", got)
		assert.True(t, utf8.ValidString(got))
	})
}
