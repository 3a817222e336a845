package fields

import (
	"regexp"
	"strings"
)

// Matcher is one named strategy of a field cascade. Match is a pure function of
// the normalized document text.
type Matcher struct {
	Name     string
	Priority int
	Match    func(text string) []Candidate
}

// firstMatch runs the cascade in order and returns the candidates of the first
// matcher that produced any.
func firstMatch(matchers []Matcher, text string) []Candidate {
	for _, m := range matchers {
		if found := m.run(text); len(found) > 0 {
			return found
		}
	}
	return nil
}

// collectAll runs every matcher and concatenates their candidates.
func collectAll(matchers []Matcher, text string) []Candidate {
	var all []Candidate
	for _, m := range matchers {
		all = append(all, m.run(text)...)
	}
	return all
}

func (m Matcher) run(text string) []Candidate {
	found := m.Match(text)
	for i := range found {
		found[i].Matcher = m.Name
		found[i].Priority = m.Priority
	}
	return found
}

// ws matches one whitespace rune, including the ideographic space that RE2's \s omits.
const ws = `[\s\x{3000}]`

// spaced builds a pattern for word that tolerates whitespace between every rune.
func spaced(word string) string {
	var b strings.Builder
	for i, r := range []rune(word) {
		if i > 0 {
			b.WriteString(ws + `*`)
		}
		b.WriteString(regexp.QuoteMeta(string(r)))
	}
	return b.String()
}

// alt joins spaced alternatives into a non-capturing group.
func alt(words ...string) string {
	parts := make([]string, len(words))
	for i, w := range words {
		parts[i] = spaced(w)
	}
	return `(?:` + strings.Join(parts, `|`) + `)`
}

func runeLen(s string) int { return len([]rune(s)) }
