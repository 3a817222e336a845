package fields

import (
	"regexp"
	"strings"

	"github.com/gardar/faxreceipt/pkg/textnorm"
)

// DocumentInfo is the structured record extracted from one filing.
// An empty string means no acceptable evidence was found for that field.
// Every non-empty value is whitespace-free and canonical: half-width digits,
// hyphenated fax numbers, half-width brackets in case numbers.
type DocumentInfo struct {
	CourtName          string `json:"courtName,omitempty"`
	CourtFax           string `json:"courtFax,omitempty"`
	CaseNumber         string `json:"caseNumber,omitempty"`
	CaseNumberGuessed  bool   `json:"caseNumberGuessed,omitempty"`
	CaseName           string `json:"caseName,omitempty"`
	PlaintiffName      string `json:"plaintiffName,omitempty"`
	PlaintiffOthers    string `json:"plaintiffOthers,omitempty"` // "外N名" suffix for multi-party cases
	DefendantName      string `json:"defendantName,omitempty"`
	DefendantOthers    string `json:"defendantOthers,omitempty"`
	PlaintiffLawyer    string `json:"plaintiffLawyer,omitempty"`
	PlaintiffLawyerFax string `json:"plaintiffLawyerFax,omitempty"`
	CourtFaxFromPdf    string `json:"courtFaxFromPdf,omitempty"`
}

// PlaintiffDisplay joins the plaintiff name and its "外N名" suffix with a space.
func (d DocumentInfo) PlaintiffDisplay() string {
	return joinOthers(d.PlaintiffName, d.PlaintiffOthers)
}

// DefendantDisplay joins the defendant name and its "外N名" suffix with a space.
func (d DocumentInfo) DefendantDisplay() string {
	return joinOthers(d.DefendantName, d.DefendantOthers)
}

func joinOthers(name, others string) string {
	if name == "" || others == "" {
		return name
	}
	return name + " " + others
}

// AllFields returns every string field keyed by its JSON name, empty or not.
func (d DocumentInfo) AllFields() map[string]string {
	return map[string]string{
		"courtName":          d.CourtName,
		"courtFax":           d.CourtFax,
		"caseNumber":         d.CaseNumber,
		"caseName":           d.CaseName,
		"plaintiffName":      d.PlaintiffDisplay(),
		"defendantName":      d.DefendantDisplay(),
		"plaintiffLawyer":    d.PlaintiffLawyer,
		"plaintiffLawyerFax": d.PlaintiffLawyerFax,
	}
}

// Fields returns the non-empty string fields keyed by their JSON names.
func (d DocumentInfo) Fields() map[string]string {
	all := d.AllFields()
	out := make(map[string]string, len(all))
	for k, v := range all {
		if v != "" {
			out[k] = v
		}
	}
	return out
}

// Warnings lists conditions a human reviewer should check before the values are used.
func (d DocumentInfo) Warnings() []string {
	var w []string
	if d.CaseNumberGuessed {
		w = append(w, "case number was reconstructed from a bare serial number; verify the era year and case symbol")
	}
	return w
}

// Candidate is one ranked match for a field, produced by a Matcher.
// Lower Priority wins.
type Candidate struct {
	Matcher  string `json:"matcher"`
	Raw      string `json:"raw"`
	Value    string `json:"value"`
	Priority int    `json:"priority"`
}

// Config carries the immutable per-office inputs of the extractor.
type Config struct {
	// CourtFaxes maps a court name with any civil division stripped to its fax number.
	CourtFaxes map[string]string
	// OwnLawyerNames are the firm's own counsel, never reported as opposing counsel.
	OwnLawyerNames []string
	// OwnFaxNumbers are the firm's own fax numbers, discarded before role classification.
	OwnFaxNumbers []string
	// OwnFaxPatterns are matched against canonical fax numbers ("03-1234-5678").
	OwnFaxPatterns []*regexp.Regexp
	// RequireCounselProximity rejects unlabeled fax numbers that have neither a
	// court dictionary match nor a counsel label in the lookback window.
	RequireCounselProximity bool
}

// clone copies every slice and map so callers cannot mutate an extractor's config.
func (c Config) clone() Config {
	out := Config{
		CourtFaxes:              make(map[string]string, len(c.CourtFaxes)),
		RequireCounselProximity: c.RequireCounselProximity,
	}
	for k, v := range c.CourtFaxes {
		out.CourtFaxes[courtKey(canonicalCourt(k))] = canonicalFax(v)
	}
	for _, n := range c.OwnLawyerNames {
		if n = textnorm.StripSpaces(n); n != "" {
			out.OwnLawyerNames = append(out.OwnLawyerNames, n)
		}
	}
	for _, f := range c.OwnFaxNumbers {
		if f = canonicalFax(f); f != "" {
			out.OwnFaxNumbers = append(out.OwnFaxNumbers, f)
		}
	}
	out.OwnFaxPatterns = append(out.OwnFaxPatterns, c.OwnFaxPatterns...)
	return out
}

func canonicalCourt(s string) string {
	return textnorm.HalfWidth(textnorm.StripSpaces(s))
}

var reDigitGroup = regexp.MustCompile(`[0-9]+`)

// canonicalFax rewrites any phone-number spelling to digit groups joined by '-'.
func canonicalFax(s string) string {
	s = textnorm.FoldDashes(textnorm.HalfWidth(s))
	return strings.Join(reDigitGroup.FindAllString(s, -1), "-")
}
