package fields

import (
	"regexp"

	"github.com/gardar/faxreceipt/pkg/textnorm"
)

// courtCities are the seats of district, high, family and summary courts.
var courtCities = []string{
	"札幌", "函館", "旭川", "釧路", "青森", "盛岡", "仙台", "秋田", "山形", "福島",
	"水戸", "宇都宮", "前橋", "さいたま", "千葉", "東京", "横浜", "新潟", "富山", "金沢",
	"福井", "甲府", "長野", "岐阜", "静岡", "名古屋", "津", "大津", "京都", "大阪",
	"神戸", "奈良", "和歌山", "鳥取", "松江", "岡山", "広島", "山口", "徳島", "高松",
	"松山", "高知", "福岡", "佐賀", "長崎", "熊本", "大分", "宮崎", "鹿児島", "那覇",
	"知的財産",
}

var (
	courtKind   = alt("地方裁判所", "高等裁判所", "家庭裁判所", "簡易裁判所")
	courtBranch = `(?:` + ws + `*[\p{Han}\p{Hiragana}]{1,5}?` + ws + `*` + spaced("支部") + `)?`
	courtDiv    = `(?:` + ws + `*(?:` +
		spaced("民事第") + ws + `*[0-9０-９]+` + ws + `*部` + `|` +
		`第` + ws + `*[0-9０-９]+` + ws + `*` + spaced("民事部") + `))?`

	reCourt = regexp.MustCompile(alt(courtCities...) + ws + `*` + courtKind + courtBranch + courtDiv)

	// reCourtDivision strips the civil division before the fax dictionary lookup.
	reCourtDivision = regexp.MustCompile(`(?:民事第[0-9]+部|第[0-9]+民事部).*$`)
)

func courtMatchers() []Matcher {
	return []Matcher{{
		Name:     "court-vocabulary",
		Priority: 1,
		Match: func(text string) []Candidate {
			var out []Candidate
			for _, raw := range reCourt.FindAllString(text, -1) {
				out = append(out, Candidate{Raw: raw, Value: canonicalCourt(raw)})
			}
			return out
		},
	}}
}

// longest returns the candidate with the most runes; the first one wins ties.
func longest(cands []Candidate) (Candidate, bool) {
	var best Candidate
	found := false
	for _, c := range cands {
		if !found || runeLen(c.Value) > runeLen(best.Value) {
			best, found = c, true
		}
	}
	return best, found
}

// courtKey is the fax dictionary key for a court name.
func courtKey(name string) string {
	return reCourtDivision.ReplaceAllString(textnorm.HalfWidth(name), "")
}

// lookupCourtFax resolves a court's fax from the dictionary. Branch offices
// have their own entries; a missing branch does not fall back to the main court.
func (c Config) lookupCourtFax(name string) string {
	return c.CourtFaxes[courtKey(name)]
}

// isCourtFax reports whether fax is any dictionary value.
func (c Config) isCourtFax(fax string) bool {
	for _, v := range c.CourtFaxes {
		if v == fax {
			return true
		}
	}
	return false
}
