// Package fields extracts the structured header of a Japanese civil filing
// (court, case number, case name, parties, counsel and fax numbers) from the
// noisy text of an OCR pass or a PDF text layer.
//
// Each field is resolved by an ordered list of named Matchers. Extraction never
// fails: a field without acceptable evidence is left empty.
package fields

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/gardar/faxreceipt/pkg/textnorm"
)

// Extractor resolves DocumentInfo records against a fixed Config.
// It is safe for concurrent use.
type Extractor struct {
	cfg Config
	log logrus.FieldLogger

	court      []Matcher
	caseNumber []Matcher
	caseName   []Matcher
	plaintiff  []Matcher
	defendant  []Matcher
	counsel    []Matcher
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger sets the logger used for per-field debug output.
func WithLogger(l logrus.FieldLogger) Option {
	return func(e *Extractor) {
		e.log = l
	}
}

// New returns an Extractor for cfg. cfg is copied; later changes to its maps or
// slices do not affect the Extractor.
func New(cfg Config, opts ...Option) *Extractor {
	c := cfg.clone()
	e := &Extractor{
		cfg:        c,
		log:        logrus.StandardLogger(),
		court:      courtMatchers(),
		caseNumber: caseNumberMatchers(),
		caseName:   caseNameMatchers(),
		plaintiff:  partyMatchers(plaintiffPatterns),
		defendant:  partyMatchers(defendantPatterns),
		counsel:    counselMatchers(c),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Trace is the full resolution record of one document: every candidate each
// field's cascade produced and how each fax number was classified.
type Trace struct {
	Info       DocumentInfo           `json:"info"`
	Candidates map[string][]Candidate `json:"candidates"`
	Faxes      []FaxDecision          `json:"faxes"`
}

// Extract returns the DocumentInfo for text.
func (e *Extractor) Extract(text string) DocumentInfo {
	return e.Explain(text).Info
}

// Explain runs the extraction and returns its trace.
func (e *Extractor) Explain(text string) Trace {
	text = textnorm.Normalize(text)
	t := Trace{Candidates: map[string][]Candidate{}}
	info := &t.Info

	courts := collectAll(e.court, text)
	t.Candidates["courtName"] = courts
	if c, ok := longest(courts); ok {
		info.CourtName = c.Value
		info.CourtFax = e.cfg.lookupCourtFax(c.Value)
	}

	numbers := firstMatch(e.caseNumber, text)
	if len(numbers) > 0 {
		info.CaseNumber = numbers[0].Value
	} else if c, guessed, ok := caseNumberFallback(text); ok {
		numbers = []Candidate{c}
		info.CaseNumber = c.Value
		info.CaseNumberGuessed = guessed
	}
	t.Candidates["caseNumber"] = numbers

	names := firstMatch(e.caseName, text)
	t.Candidates["caseName"] = names
	if len(names) > 0 {
		info.CaseName = names[0].Value
	}

	if p, cands, ok := e.resolveParty(e.plaintiff, text); ok {
		info.PlaintiffName, info.PlaintiffOthers = p.name, p.others
		t.Candidates["plaintiffName"] = cands
	}
	if p, cands, ok := e.resolveParty(e.defendant, text); ok {
		info.DefendantName, info.DefendantOthers = p.name, p.others
		t.Candidates["defendantName"] = cands
	}

	lawyers := collectAll(e.counsel, text)
	t.Candidates["plaintiffLawyer"] = rankCounsel(lawyers)
	if c, ok := pickCounsel(lawyers); ok {
		info.PlaintiffLawyer = c.Value
	}

	faxes := e.cfg.classifyFaxes(text)
	t.Faxes = faxes.decisions
	info.PlaintiffLawyerFax = faxes.counsel
	info.CourtFaxFromPdf = faxes.court
	if info.CourtFaxFromPdf != "" {
		info.CourtFax = info.CourtFaxFromPdf
	}

	e.log.WithFields(logrus.Fields{
		"court":      info.CourtName,
		"caseNumber": info.CaseNumber,
		"guessed":    info.CaseNumberGuessed,
		"caseName":   info.CaseName,
		"plaintiff":  info.PlaintiffDisplay(),
		"defendant":  info.DefendantDisplay(),
		"lawyer":     info.PlaintiffLawyer,
		"faxes":      len(t.Faxes),
	}).Debug("extracted document fields")

	return t
}

// resolveParty runs a party cascade. Trace candidates carry the display form.
func (e *Extractor) resolveParty(ms []Matcher, text string) (party, []Candidate, bool) {
	cands := firstMatch(ms, text)
	if len(cands) == 0 {
		return party{}, nil, false
	}
	p := decodeParty(cands[0])
	for i := range cands {
		cands[i].Value = strings.TrimSpace(strings.Replace(cands[i].Value, "\t", " ", 1))
	}
	return p, cands, true
}
