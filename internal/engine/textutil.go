package engine

import (
	"regexp"
	"strings"

	"github.com/anatolykoptev/go-kit/strutil"
)

// User-Agent strings used across HTTP clients.
const (
	UserAgentBot    = "GoRecipes/1.0"
	UserAgentChrome = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"
)

var markupTagRe = regexp.MustCompile(`<[^>]+>`)

// CleanMarkup strips angle-bracket markup and trims whitespace.
// Handles both HTML in caption payloads and WebVTT styling tags
// like <c> and inline <00:00:00.480> word timings.
func CleanMarkup(s string) string {
	return strings.TrimSpace(markupTagRe.ReplaceAllString(s, ""))
}

// Truncate returns the first n bytes of s.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// TruncateRunes caps s at limit runes, appending suffix if truncated.
// Pass suffix="" for no suffix. Safe for UTF-8 (Cyrillic, CJK, emoji).
func TruncateRunes(s string, limit int, suffix string) string {
	return strutil.TruncateWith(s, limit, suffix)
}

// CanonicalRecipeKey returns a normalized dedup key for a recipe title.
// The same dish emitted twice by the extractor ("Pasta alla Gricia!" vs
// "pasta alla gricia") must map to the same key: lowercase, punctuation
// collapsed to single spaces, whitespace normalized.
func CanonicalRecipeKey(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	var b strings.Builder
	prevSpace := true
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r > 127 {
			b.WriteRune(r)
			prevSpace = false
		} else if !prevSpace {
			b.WriteByte(' ')
			prevSpace = true
		}
	}
	return strings.TrimRight(b.String(), " ")
}
