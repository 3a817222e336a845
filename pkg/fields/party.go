package fields

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/gardar/faxreceipt/pkg/textnorm"
)

// Party labels tolerate the glyph substitutions OCR makes most often
// ("告" read as "吉", "原" as "源").
const (
	plaintiffLabel = `[原源厡]` + ws + `*[告吉]`
	defendantLabel = `[被破]` + ws + `*[告吉]`
)

// partySectionWindow bounds the labeled parties section, in runes.
const partySectionWindow = 200

var (
	reParties = regexp.MustCompile(`当` + ws + `*事` + ws + `*者`)

	// reCounselTerm rejects "原告訴訟代理人" and similar as a party name.
	reCounselTerm = regexp.MustCompile(`^` + ws + `*(?:訴` + ws + `*訟` + ws + `*)?(?:復` + ws + `*)?代` + ws + `*理` + ws + `*人|^` + ws + `*ら`)

	reOthers      = regexp.MustCompile(`^(.+?)((?:外|ほか)[0-9０-９]+名)$`)
	reOthersAfter = regexp.MustCompile(`^` + ws + `*((?:外|ほか)` + ws + `*[0-9０-９]+` + ws + `*名)`)
)

// party is a resolved party name with its optional "外N名" suffix.
type party struct {
	name   string
	others string
}

type partyPatterns struct {
	section  *regexp.Regexp
	bracket  *regexp.Regexp
	spaced   *regexp.Regexp
	fieldKey string
}

func newPartyPatterns(label, key string) partyPatterns {
	name := `([^\s\x{3000}:：、,，]{2,30})`
	return partyPatterns{
		section:  regexp.MustCompile(label + ws + `*[:：]?` + ws + `*` + name),
		bracket:  regexp.MustCompile(label + ws + `*[「『【〔]([^」』】〕\n]{1,30})[」』】〕]`),
		spaced:   regexp.MustCompile(label + `[ \t\x{3000}:：]+` + name),
		fieldKey: key,
	}
}

var (
	plaintiffPatterns = newPartyPatterns(plaintiffLabel, "plaintiff")
	defendantPatterns = newPartyPatterns(defendantLabel, "defendant")
)

func partyMatchers(p partyPatterns) []Matcher {
	return []Matcher{
		{Name: p.fieldKey + "-parties-section", Priority: 1, Match: func(text string) []Candidate {
			loc := reParties.FindStringIndex(text)
			if loc == nil {
				return nil
			}
			section := []rune(text[loc[1]:])
			if len(section) > partySectionWindow {
				section = section[:partySectionWindow]
			}
			return partyCandidates(p.section, string(section))
		}},
		{Name: p.fieldKey + "-bracketed", Priority: 2, Match: func(text string) []Candidate {
			return partyCandidates(p.bracket, text)
		}},
		{Name: p.fieldKey + "-spaced", Priority: 3, Match: func(text string) []Candidate {
			return partyCandidates(p.spaced, text)
		}},
	}
}

// partyCandidates returns the first acceptable capture of re in text. The
// "外N名" suffix is carried in Value after a tab so it survives ranking.
func partyCandidates(re *regexp.Regexp, text string) []Candidate {
	for _, m := range re.FindAllStringSubmatchIndex(text, -1) {
		// "原告訴訟代理人" names counsel, not the party.
		if reCounselTerm.MatchString(afterLabel(text, m)) {
			continue
		}
		p := splitOthers(text[m[2]:m[3]], text[m[3]:])
		if p.name == "" {
			continue
		}
		return []Candidate{{Raw: text[m[0]:m[1]], Value: p.name + "\t" + p.others}}
	}
	return nil
}

// afterLabel returns the text right after the two label runes of match m,
// before any separator the pattern consumed.
func afterLabel(text string, m []int) string {
	count := 0
	for j, r := range text[m[0]:] {
		if count == 2 {
			return text[m[0]+j:]
		}
		if !unicode.IsSpace(r) {
			count++
		}
	}
	return ""
}

// splitOthers separates a trailing "外N名" from the captured name, looking both
// inside the capture and immediately after it.
func splitOthers(captured, rest string) party {
	name := textnorm.StripSpaces(captured)
	var others string
	if m := reOthers.FindStringSubmatch(name); m != nil {
		name, others = m[1], m[2]
	} else if m := reOthersAfter.FindStringSubmatch(rest); m != nil {
		others = textnorm.StripSpaces(m[1])
	}
	name = strings.Trim(name, "「」『』【】〔〕")
	return party{name: textnorm.HalfWidth(name), others: textnorm.HalfWidth(others)}
}

func decodeParty(c Candidate) party {
	name, others, _ := strings.Cut(c.Value, "\t")
	return party{name: name, others: others}
}
