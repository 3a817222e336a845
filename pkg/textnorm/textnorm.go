// Package textnorm canonicalizes OCR and text-layer output before pattern matching.
//
// Normalize only unifies line endings (and composes Unicode sequences); everything
// else is left to the matcher that needs it, because some patterns must see the
// original full-width numerals before they are folded.
//
// Helpers:
//
// - HalfWidth: full-width ASCII, digits and the ideographic space become half-width
// - FoldDashes: every dash-like code point becomes '-'
// - StripSpaces: removes all Unicode whitespace (OCR inserts spaces inside tokens)
package textnorm

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

var reLineEnd = regexp.MustCompile(`\r\n?|\x{2028}|\x{2029}`)

// Normalize unifies line endings to "\n" and composes the text to NFC.
func Normalize(s string) string {
	if s == "" {
		return s
	}
	s = reLineEnd.ReplaceAllString(s, "\n")
	return norm.NFC.String(s)
}

// HalfWidth folds full-width ASCII variants (digits, latin letters, brackets,
// colon, the ideographic space) to their half-width forms.
func HalfWidth(s string) string {
	return width.Fold.String(s)
}

// dashes lists the code points OCR and word processors emit for a hyphen in
// phone numbers, including the katakana prolonged sound mark.
var dashes = strings.NewReplacer(
	"‐", "-", // hyphen
	"‑", "-", // non-breaking hyphen
	"‒", "-", // figure dash
	"–", "-", // en dash
	"—", "-", // em dash
	"―", "-", // horizontal bar
	"−", "-", // minus sign
	"ー", "-", // katakana prolonged sound mark
	"－", "-", // fullwidth hyphen-minus
	"ｰ", "-", // halfwidth prolonged sound mark
)

// FoldDashes replaces dash-like characters with an ASCII hyphen. Only use it on
// numeric strings: it also rewrites the katakana prolonged sound mark.
func FoldDashes(s string) string {
	return dashes.Replace(s)
}

// StripSpaces removes every Unicode whitespace rune, newlines included.
func StripSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// Digits folds s to half-width and keeps only ASCII digits.
func Digits(s string) string {
	s = HalfWidth(s)
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}
