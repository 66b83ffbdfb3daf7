package detect

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// Normalize prepares inbound text for keyword matching: NFKC normalization,
// fullwidth/halfwidth folding, invisible-character stripping, lowercasing.
// Scammers pad messages with zero-width characters and fullwidth lookalikes
// to dodge naive substring checks; plain ASCII passes through unchanged.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	folded := width.Fold.String(norm.NFKC.String(text))
	return strings.ToLower(stripInvisibles(folded))
}

func stripInvisibles(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\u200b' || r == '\u200c' || r == '\u200d' || r == '\ufeff':
			return -1 // zero-width space/joiners, BOM
		case unicode.Is(unicode.Cf, r):
			return -1 // other format characters (tags, bidi controls)
		}
		return r
	}, s)
}
