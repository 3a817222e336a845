package fields

import (
	"regexp"
	"sort"
	"strings"

	"github.com/gardar/faxreceipt/pkg/textnorm"
)

const (
	minCounselRunes = 2
	maxCounselRunes = 6
)

var (
	counselSep  = `[ \t\x{3000}:：]*`
	counselTail = `([^\n]{1,24})`

	reCounselExplicit = regexp.MustCompile(spaced("原告訴訟代理人") + `[ \t\x{3000}]*` + spaced("弁護士") + counselSep + counselTail)
	reCounselPerson   = regexp.MustCompile(`人[ \t\x{3000}]*` + spaced("弁護士") + counselSep + counselTail)
	reCounselAddress  = regexp.MustCompile(spaced("弁護士") + counselSep + `([^\n]{1,24}?)[ \t\x{3000}]*(?:宛|あて|先生|様|殿)`)
	reCounselBare     = regexp.MustCompile(spaced("弁護士") + counselSep + counselTail)

	reNameRun = regexp.MustCompile(`^[\p{Han}\p{Hiragana}\p{Katakana}々ー]+`)

	// reCounselTrailer marks text that follows a name on the same line: a
	// co-counsel count or a phone label.
	reCounselTrailer = regexp.MustCompile(`(?:ほか|外|他)[0-9０-９]+名|電話|TEL|ＴＥＬ|Tel`)
)

// counselHonorifics end a name wherever they appear after its first two runes.
var counselHonorifics = []string{"先生", "御中", "あて", "宛", "殿", "様"}

// counselBoilerplate are first runes of mis-read institutional text, never of a surname.
const counselBoilerplate = "法事所会株訴被弁護士電話御"

// counselBoilerplateWords open role labels whose first rune also starts surnames.
var counselBoilerplateWords = []string{"原告", "代理"}

func counselMatchers(cfg Config) []Matcher {
	tier := func(name string, priority int, re *regexp.Regexp, skipLine func(line string) bool) Matcher {
		return Matcher{Name: name, Priority: priority, Match: func(text string) []Candidate {
			var out []Candidate
			for _, m := range re.FindAllStringSubmatchIndex(text, -1) {
				if skipLine != nil && skipLine(lineAt(text, m[0])) {
					continue
				}
				raw := text[m[2]:m[3]]
				value := cleanCounselName(raw)
				if value == "" || cfg.isOwnLawyer(value) {
					continue
				}
				out = append(out, Candidate{Raw: raw, Value: value})
			}
			return out
		}}
	}
	mentionsDefendant := func(line string) bool {
		return strings.Contains(textnorm.StripSpaces(line), "被告")
	}
	return []Matcher{
		tier("counsel-plaintiff-litigation", 1, reCounselExplicit, nil),
		tier("counsel-agent", 2, reCounselPerson, mentionsDefendant),
		tier("counsel-addressed", 3, reCounselAddress, nil),
		tier("counsel-bare", 4, reCounselBare, nil),
	}
}

// lineAt returns the line of text containing byte offset i.
func lineAt(text string, i int) string {
	start := strings.LastIndexByte(text[:i], '\n') + 1
	end := strings.IndexByte(text[i:], '\n')
	if end < 0 {
		return text[start:]
	}
	return text[start : i+end]
}

// cleanCounselName keeps the leading run of name characters in raw and cuts
// honorifics. It returns "" when the result cannot be a personal name.
func cleanCounselName(raw string) string {
	s := textnorm.StripSpaces(raw)
	if loc := reCounselTrailer.FindStringIndex(s); loc != nil && runeLen(s[:loc[0]]) >= minCounselRunes {
		s = s[:loc[0]]
	}
	s = reNameRun.FindString(s)
	for _, h := range counselHonorifics {
		if i := strings.Index(s, h); i >= 0 && runeLen(s[:i]) >= minCounselRunes {
			s = s[:i]
		}
	}
	s = strings.TrimSuffix(s, "行")
	rs := []rune(s)
	if len(rs) < minCounselRunes || len(rs) > maxCounselRunes {
		return ""
	}
	if strings.ContainsRune(counselBoilerplate, rs[0]) {
		return ""
	}
	for _, w := range counselBoilerplateWords {
		if strings.HasPrefix(s, w) {
			return ""
		}
	}
	return s
}

func (c Config) isOwnLawyer(name string) bool {
	for _, own := range c.OwnLawyerNames {
		if own == name || strings.HasPrefix(name, own) {
			return true
		}
	}
	return false
}

// rankCounsel collapses duplicate names to their best priority, then orders by
// priority, a preference for 3-4 rune names, and length.
func rankCounsel(cands []Candidate) []Candidate {
	best := map[string]Candidate{}
	var order []string
	for _, c := range cands {
		cur, ok := best[c.Value]
		if !ok {
			order = append(order, c.Value)
		}
		if !ok || c.Priority < cur.Priority {
			best[c.Value] = c
		}
	}
	out := make([]Candidate, 0, len(order))
	for _, v := range order {
		out = append(out, best[v])
	}
	typical := func(c Candidate) bool {
		n := runeLen(c.Value)
		return n == 3 || n == 4
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Priority != b.Priority {
			return a.Priority < b.Priority
		}
		if typical(a) != typical(b) {
			return typical(a)
		}
		return runeLen(a.Value) > runeLen(b.Value)
	})
	return out
}

// pickCounsel returns the winning counsel name. A five-rune winner that extends
// a shorter candidate is assumed to carry one rune of trailing OCR noise.
func pickCounsel(cands []Candidate) (Candidate, bool) {
	ranked := rankCounsel(cands)
	if len(ranked) == 0 {
		return Candidate{}, false
	}
	win := ranked[0]
	if rs := []rune(win.Value); len(rs) == 5 {
		for _, c := range ranked[1:] {
			if runeLen(c.Value) < 5 && strings.HasPrefix(win.Value, c.Value) {
				win.Value = string(rs[:4])
				break
			}
		}
	}
	return win, true
}
