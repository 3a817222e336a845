package fields

import (
	"regexp"
	"strings"

	"github.com/gardar/faxreceipt/pkg/textnorm"
)

const cjk = `[\p{Han}\p{Katakana}ー々・]`

var (
	caseSuffix = `(?:請` + ws + `*求` + ws + `*)?事` + ws + `*件`

	// caseLabelGuard rejects the 事件の表示, 事件番号 and 事件名 labels that
	// open a line on most forms.
	caseLabelGuard = `[ \t\x{3000}]*(?:[^の番名 \t\x{3000}]|$)`

	caseNameVariants = []struct {
		name string
		re   *regexp.Regexp
	}{
		// "損害賠償\n請求事件": a justified header broke the compound before its suffix.
		{"case-name-line-break", regexp.MustCompile(`(` + cjk + `{2,30}` + `[ \t\x{3000}]*\n` + ws + `*` + caseSuffix + `)` + caseLabelGuard)},
		{"case-name-labeled", regexp.MustCompile(`事` + ws + `*件` + ws + `*名` + ws + `*[:：]?` + ws + `*([^\n]{2,40}?` + caseSuffix + `)`)},
		{"case-name-claim", regexp.MustCompile(`(` + cjk + `{2,30}請求事件)`)},
		{"case-name-any", regexp.MustCompile(`(` + cjk + `{2,30}事件)`)},
	}

	// reCaseNameTail keeps the contiguous run that ends in a claim suffix.
	reCaseNameTail = regexp.MustCompile(cjk + `+事件`)
)

// caseNameNoise are leading fragments the greedy patterns drag in from the
// case number or the label.
var caseNameNoise = []string{"事件名", "号", "第"}

func caseNameMatchers() []Matcher {
	var ms []Matcher
	for i, v := range caseNameVariants {
		re := v.re
		ms = append(ms, Matcher{
			Name:     v.name,
			Priority: i + 1,
			Match: func(text string) []Candidate {
				var out []Candidate
				for _, m := range re.FindAllStringSubmatch(text, -1) {
					if value := cleanCaseName(m[1]); value != "" {
						out = append(out, Candidate{Raw: m[1], Value: value})
					}
				}
				return out
			},
		})
	}
	return ms
}

// cleanCaseName strips whitespace and re-extracts the last CJK run ending in
// "事件". It returns "" for fragments too short to name a claim.
func cleanCaseName(raw string) string {
	s := textnorm.StripSpaces(raw)
	runs := reCaseNameTail.FindAllString(s, -1)
	if len(runs) == 0 {
		return ""
	}
	s = runs[len(runs)-1]
	for trimmed := true; trimmed; {
		trimmed = false
		for _, p := range caseNameNoise {
			if strings.HasPrefix(s, p) {
				s = strings.TrimPrefix(s, p)
				trimmed = true
			}
		}
	}
	// "上記事件" and friends refer to a case without naming it.
	if runeLen(s) < 4 || strings.HasPrefix(s, "上記") || strings.HasPrefix(s, "本件") || strings.HasPrefix(s, "同") {
		return ""
	}
	return s
}
