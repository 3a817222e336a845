package fields

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/gardar/faxreceipt/pkg/textnorm"
)

// defaultCaseSymbol is the ordinary civil suit symbol, used when only the serial survives OCR.
const defaultCaseSymbol = "ワ"

// eras in chronological order.
var eras = []string{"昭和", "平成", "令和"}

// caseNumberPattern assembles the era + year + (symbol) + serial grammar with
// gap inserted between grammar tokens and inner between the runes of a token.
func caseNumberPattern(gap, inner string) *regexp.Regexp {
	join := func(word string) string {
		rs := []rune(word)
		parts := make([]string, len(rs))
		for i, r := range rs {
			parts[i] = regexp.QuoteMeta(string(r))
		}
		return strings.Join(parts, inner)
	}
	digits := `[0-9０-９](?:` + inner + `[0-9０-９])*`
	symbol := `[\p{Han}\p{Katakana}](?:` + inner + `[\p{Han}\p{Katakana}]){0,2}`
	era := `(?:` + join("令和") + `|` + join("平成") + `|` + join("昭和") + `)`
	return regexp.MustCompile(
		era + gap + `(?:元|` + digits + `)` + gap + `年` + gap +
			`[（(]` + gap + symbol + gap + `[)）]` + gap +
			`第` + gap + digits + gap + `号`)
}

var (
	caseNumberVariants = []struct {
		name string
		re   *regexp.Regexp
	}{
		{"case-number-strict", caseNumberPattern(``, ``)},
		{"case-number-token-gap", caseNumberPattern(`[ \x{3000}]?`, ``)},
		{"case-number-loose-gap", caseNumberPattern(`[ \t\x{3000}]*`, `[ \t\x{3000}]*`)},
		{"case-number-every-rune", caseNumberPattern(ws+`*`, ws+`*`)},
	}

	reCaseLabel  = regexp.MustCompile(`事` + ws + `*件` + ws + `*(?:の` + ws + `*表` + ws + `*示|番` + ws + `*号)`)
	reBareSerial = regexp.MustCompile(`第?` + ws + `*([0-9０-９](?:` + ws + `?[0-9０-９])*)` + ws + `*号`)
	reNearSymbol = regexp.MustCompile(`[（(]` + ws + `*([\p{Han}\p{Katakana}]{1,3})` + ws + `*[)）]`)
	reEraYear    = regexp.MustCompile(`(令` + ws + `*和|平` + ws + `*成|昭` + ws + `*和)` + ws + `*(元|[0-9０-９]{1,2})` + ws + `*年`)
)

// caseLabelWindow bounds the fallback search after the case display label, in runes.
const caseLabelWindow = 80

func caseNumberMatchers() []Matcher {
	var ms []Matcher
	for i, v := range caseNumberVariants {
		re := v.re
		ms = append(ms, Matcher{
			Name:     v.name,
			Priority: i + 1,
			Match: func(text string) []Candidate {
				raw := re.FindString(text)
				if raw == "" {
					return nil
				}
				return []Candidate{{Raw: raw, Value: canonicalCaseNumber(raw)}}
			},
		})
	}
	return ms
}

func canonicalCaseNumber(raw string) string {
	return textnorm.HalfWidth(textnorm.StripSpaces(raw))
}

// caseNumberFallback rebuilds a case number from the case display section when
// no full case number matched. guessed is true when the case symbol was defaulted.
func caseNumberFallback(text string) (c Candidate, guessed bool, ok bool) {
	loc := reCaseLabel.FindStringIndex(text)
	if loc == nil {
		return Candidate{}, false, false
	}
	window := []rune(text[loc[1]:])
	if len(window) > caseLabelWindow {
		window = window[:caseLabelWindow]
	}
	section := string(window)

	m := reBareSerial.FindStringSubmatch(section)
	if m == nil {
		return Candidate{}, false, false
	}
	serial := textnorm.Digits(m[1])

	era, year, ok := minimumEraYear(text)
	if !ok {
		return Candidate{}, false, false
	}

	symbol := defaultCaseSymbol
	guessed = true
	if sm := reNearSymbol.FindStringSubmatch(section); sm != nil {
		symbol = sm[1]
		guessed = false
	}

	value := era + yearString(year) + "年(" + symbol + ")第" + serial + "号"
	return Candidate{Matcher: "case-display-serial", Raw: m[0], Value: value, Priority: len(caseNumberVariants) + 1}, guessed, true
}

// minimumEraYear scans every era-year mention in the text, keeps the latest era
// present and returns the smallest year seen for it. OCR noise makes the mentions
// disagree; the smallest leans toward the filing year rather than today's date.
func minimumEraYear(text string) (string, int, bool) {
	best := map[string]int{}
	for _, m := range reEraYear.FindAllStringSubmatch(text, -1) {
		era := textnorm.StripSpaces(m[1])
		year := 1
		if m[2] != "元" {
			n, err := strconv.Atoi(textnorm.Digits(m[2]))
			if err != nil || n == 0 {
				continue
			}
			year = n
		}
		if cur, ok := best[era]; !ok || year < cur {
			best[era] = year
		}
	}
	for i := len(eras) - 1; i >= 0; i-- {
		if y, ok := best[eras[i]]; ok {
			return eras[i], y, true
		}
	}
	return "", 0, false
}

func yearString(y int) string {
	if y == 1 {
		return "元"
	}
	return strconv.Itoa(y)
}
