package fields

import (
	"regexp"
	"strings"

	"github.com/gardar/faxreceipt/pkg/textnorm"
)

// faxLookback is the window before an unlabeled fax number searched for a counsel label, in runes.
const faxLookback = 200

// Fax roles.
const (
	RoleCourt   = "court"
	RoleCounsel = "counsel"
	RoleOwn     = "own"
	RoleSkipped = "skipped"
)

const faxNumber = `(0[0-9]{1,4}[-()\s]{0,3}[0-9]{1,4}[-()\s]{0,3}[0-9]{3,4})`

var (
	faxLabel = `(?i:fax|ファックス|ファクシミリ)(?:[ \t]*番号)?`

	// reFaxEntity is "entity(FAX n)", the entity being the text before the bracket.
	reFaxEntity = regexp.MustCompile(`([^\s()]{1,30})[ \t]*\([ \t]*` + faxLabel + `[ \t:：.]*` + faxNumber + `[ \t]*\)`)
	reFaxPlain  = regexp.MustCompile(faxLabel + `[ \t:：.]*` + faxNumber + `(?:[^0-9]|$)`)

	rePlaintiffCounsel = regexp.MustCompile(spaced("原告訴訟代理人"))
	reDefendantCounsel = regexp.MustCompile(spaced("被告訴訟代理人"))
)

// FaxDecision records how one fax occurrence was classified.
type FaxDecision struct {
	Number string `json:"number"`
	Role   string `json:"role"`
	Reason string `json:"reason"`
	Offset int    `json:"offset"`
}

type faxResult struct {
	court     string
	counsel   string
	decisions []FaxDecision
}

// foldFax rewrites text so fax labels and digits are half-width and every dash is '-'.
func foldFax(text string) string {
	return textnorm.FoldDashes(textnorm.HalfWidth(text))
}

// classifyFaxes assigns fax numbers in text to the court and opposing counsel
// roles. Parenthetical labels are decided first, then plain "FAX n" mentions in
// document order. The first accepted value per role wins.
func (c Config) classifyFaxes(text string) faxResult {
	text = foldFax(text)
	var res faxResult
	accept := func(d FaxDecision) {
		switch d.Role {
		case RoleCourt:
			if res.court != "" {
				d.Role, d.Reason = RoleSkipped, "court fax already set"
			} else {
				res.court = d.Number
			}
		case RoleCounsel:
			switch {
			case res.counsel != "":
				d.Role, d.Reason = RoleSkipped, "counsel fax already set"
			case d.Number == res.court:
				d.Role, d.Reason = RoleSkipped, "equals court fax"
			default:
				res.counsel = d.Number
			}
		}
		res.decisions = append(res.decisions, d)
	}

	labeled := map[int]bool{}
	for _, m := range reFaxEntity.FindAllStringSubmatchIndex(text, -1) {
		labeled[m[4]] = true
		entity := text[m[2]:m[3]]
		d := FaxDecision{Number: canonicalFax(text[m[4]:m[5]]), Offset: m[4]}
		switch {
		case c.isOwnFax(d.Number):
			d.Role, d.Reason = RoleOwn, "own office fax"
		case strings.Contains(textnorm.StripSpaces(entity), "裁判所"):
			d.Role, d.Reason = RoleCourt, "labeled by court entity"
		case c.isCourtFax(d.Number):
			d.Role, d.Reason = RoleCourt, "known court fax"
		default:
			d.Role, d.Reason = RoleCounsel, "labeled by named entity"
		}
		accept(d)
	}

	for _, m := range reFaxPlain.FindAllStringSubmatchIndex(text, -1) {
		if labeled[m[2]] {
			continue
		}
		d := FaxDecision{Number: canonicalFax(text[m[2]:m[3]]), Offset: m[2]}
		switch {
		case c.isOwnFax(d.Number):
			d.Role, d.Reason = RoleOwn, "own office fax"
		case c.isCourtFax(d.Number):
			d.Role, d.Reason = RoleCourt, "known court fax"
		default:
			d.Role, d.Reason = c.counselProximity(lookback(text, m[0]))
		}
		accept(d)
	}
	return res
}

// counselProximity classifies an unlabeled fax by the nearest counsel label in before.
func (c Config) counselProximity(before string) (role, reason string) {
	p := lastIndex(rePlaintiffCounsel, before)
	d := lastIndex(reDefendantCounsel, before)
	switch {
	case d > p:
		return RoleSkipped, "near defendant's counsel"
	case p > d:
		return RoleCounsel, "near plaintiff's counsel"
	case c.RequireCounselProximity:
		return RoleSkipped, "no counsel label nearby"
	default:
		return RoleCounsel, "unclassified"
	}
}

func lookback(text string, end int) string {
	rs := []rune(text[:end])
	if len(rs) > faxLookback {
		rs = rs[len(rs)-faxLookback:]
	}
	return string(rs)
}

func lastIndex(re *regexp.Regexp, s string) int {
	locs := re.FindAllStringIndex(s, -1)
	if len(locs) == 0 {
		return -1
	}
	return locs[len(locs)-1][0]
}

func (c Config) isOwnFax(fax string) bool {
	for _, own := range c.OwnFaxNumbers {
		if own == fax {
			return true
		}
	}
	for _, re := range c.OwnFaxPatterns {
		if re.MatchString(fax) {
			return true
		}
	}
	return false
}
