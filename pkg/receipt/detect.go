package receipt

import (
	"math"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

// Anchor is a located or estimated landmark in pixel space.
type Anchor struct {
	Text      string      `json:"text,omitempty"`
	BBox      BoundingBox `json:"bbox"`
	Estimated bool        `json:"estimated,omitempty"`
}

// Signature is the signer's title line. Start is the leftmost word on the line;
// End, when present, is the word that closes the title phrase with PersonSuffix.
type Signature struct {
	Anchor
	Start Anchor  `json:"start"`
	End   *Anchor `json:"end,omitempty"`
	Line  []Word  `json:"line,omitempty"` // words on the line, left to right
}

// AnchorSet holds the landmarks of a receipt section.
// StrikeTarget is nil when the target word is not on the page; it is never estimated.
type AnchorSet struct {
	Section      BoundingBox `json:"section"` // receipt sub-region, full width
	Label        *Anchor     `json:"label,omitempty"`
	StrikeTarget *Anchor     `json:"strikeTarget,omitempty"`
	DateBlank    *Anchor     `json:"dateBlank,omitempty"`
	Signature    *Signature  `json:"signature,omitempty"`
}

// Detect locates the anchors of the receipt section in words. imageHeight is
// the page height in pixels. DateBlank and Signature are always set, estimated
// when no word supports them.
func (f *Finder) Detect(words []Word, imageHeight float64) AnchorSet {
	cfg := f.cfg
	var set AnchorSet

	top := 0.0
	if box, ok := findToken(words, cfg.Label, cfg.SplitTolerance); ok {
		set.Label = &Anchor{Text: cfg.Label, BBox: box}
		top = math.Max(0, box.Y1-cfg.LabelMargin)
	}
	var right float64
	for _, w := range words {
		right = math.Max(right, w.BBox.X2)
	}
	set.Section = NewBoundingBox(0, top, right, imageHeight)

	var region []Word
	for _, w := range words {
		if w.BBox.Y1 >= top {
			region = append(region, w)
		}
	}

	set.StrikeTarget = f.strikeTarget(region)
	set.Signature = f.signature(region, set.Section)
	set.DateBlank = f.dateBlank(region, set)

	log := f.log.WithField("words", len(region))
	if set.DateBlank == nil {
		set.DateBlank = f.estimateDate(set)
		log.WithField("y", set.DateBlank.BBox.Y1).Debug("estimated date blank")
	}
	if set.Signature == nil {
		set.Signature = f.estimateSignature(set.Section)
		log.WithField("y", set.Signature.BBox.Y1).Debug("estimated signature line")
	}
	if set.StrikeTarget == nil {
		log.WithField("target", cfg.StrikeTarget).Debug("strike target not found")
	}
	return set
}

// strikeTarget accepts only a word that is exactly the target. Among several,
// the rightmost one on a counsel line wins, else the topmost.
func (f *Finder) strikeTarget(region []Word) *Anchor {
	var hits, counsel []Word
	for _, w := range region {
		t := cleanText(w.Text)
		if t == f.cfg.StrikeTarget {
			hits = append(hits, w)
		}
		if f.cfg.CounselToken != "" && strings.Contains(t, f.cfg.CounselToken) {
			counsel = append(counsel, w)
		}
	}
	if len(hits) == 0 {
		return nil
	}

	var onCounselLine []Word
	for _, h := range hits {
		for _, c := range counsel {
			if sameLine(h, c, f.cfg.LineTolerance) {
				onCounselLine = append(onCounselLine, h)
				break
			}
		}
	}
	if len(onCounselLine) > 0 {
		best := onCounselLine[0]
		for _, h := range onCounselLine[1:] {
			if h.BBox.X1 > best.BBox.X1 {
				best = h
			}
		}
		return wordAnchor(best)
	}

	best := hits[0]
	for _, h := range hits[1:] {
		if h.BBox.Y1 < best.BBox.Y1 {
			best = h
		}
	}
	return wordAnchor(best)
}

// signature finds the lowest agent word, else the lowest party word in the lower
// half of the section, and collects its line.
func (f *Finder) signature(region []Word, section BoundingBox) *Signature {
	anchor, ok := lowest(region, func(w Word) bool {
		return strings.Contains(cleanText(w.Text), f.cfg.AgentToken)
	})
	if !ok {
		mid := section.CenterY()
		anchor, ok = lowest(region, func(w Word) bool {
			if w.BBox.CenterY() < mid {
				return false
			}
			t := cleanText(w.Text)
			for _, p := range f.cfg.PartyTokens {
				if strings.Contains(t, p) {
					return true
				}
			}
			return false
		})
	}
	if !ok {
		return nil
	}

	var line []Word
	for _, w := range region {
		if sameLine(w, anchor, f.cfg.LineTolerance) {
			line = append(line, w)
		}
	}
	sort.SliceStable(line, func(i, j int) bool { return line[i].BBox.X1 < line[j].BBox.X1 })

	sig := &Signature{Anchor: *wordAnchor(anchor), Start: *wordAnchor(line[0]), Line: line}
	for i := len(line) - 1; i >= 0; i-- {
		if strings.HasSuffix(cleanText(line[i].Text), f.cfg.PersonSuffix) {
			sig.End = wordAnchor(line[i])
			break
		}
	}
	return sig
}

// dateBlank searches the band between the strike target and the signature for
// an era word, then for a year or month marker. A bare era word beats one that
// carries more text, such as a repeated case number, and the lowest wins.
func (f *Finder) dateBlank(region []Word, set AnchorSet) *Anchor {
	lo, hi := set.Section.Y1, set.Section.Y2
	if set.StrikeTarget != nil {
		lo = set.StrikeTarget.BBox.Y2
	}
	if set.Signature != nil {
		hi = set.Signature.BBox.Y1
	}
	var band []Word
	for _, w := range region {
		if c := w.BBox.CenterY(); c > lo && c < hi {
			band = append(band, w)
		}
	}

	if era := f.cfg.EraToken; era != "" {
		if w, ok := lowest(band, func(w Word) bool { return cleanText(w.Text) == era }); ok {
			return &Anchor{Text: era, BBox: w.BBox}
		}
		if w, ok := lowest(band, func(w Word) bool { return strings.Contains(cleanText(w.Text), era) }); ok {
			return &Anchor{Text: era, BBox: w.BBox}
		}
		if box, ok := findToken(band, era, f.cfg.SplitTolerance); ok {
			return &Anchor{Text: era, BBox: box}
		}
	}
	if w, ok := topmost(band, func(w Word) bool {
		t := cleanText(w.Text)
		for _, m := range f.cfg.DateMarkers {
			if strings.Contains(t, m) {
				return true
			}
		}
		return false
	}); ok {
		return wordAnchor(w)
	}
	return nil
}

func (f *Finder) estimateDate(set AnchorSet) *Anchor {
	y := set.Section.CenterY()
	if set.Signature != nil {
		y = set.Signature.BBox.Y1 - f.cfg.DateOffsetAbove
	}
	return f.estimate(y)
}

func (f *Finder) estimateSignature(section BoundingBox) *Signature {
	a := f.estimate(section.Y1 + section.Height()*f.cfg.SignatureQuantile)
	return &Signature{Anchor: *a, Start: *a}
}

// estimate returns a synthetic anchor whose box is centered on y.
func (f *Finder) estimate(y float64) *Anchor {
	h := f.cfg.EstimateHeight
	return &Anchor{
		BBox:      NewBoundingBox(f.cfg.EstimateLeft, y-h/2, f.cfg.EstimateLeft+h, y+h/2),
		Estimated: true,
	}
}

func wordAnchor(w Word) *Anchor {
	return &Anchor{Text: w.Text, BBox: w.BBox}
}

func sameLine(a, b Word, tol float64) bool {
	return math.Abs(a.BBox.CenterY()-b.BBox.CenterY()) <= tol
}

func lowest(words []Word, match func(Word) bool) (Word, bool) {
	var best Word
	found := false
	for _, w := range words {
		if match(w) && (!found || w.BBox.CenterY() > best.BBox.CenterY()) {
			best, found = w, true
		}
	}
	return best, found
}

func topmost(words []Word, match func(Word) bool) (Word, bool) {
	var best Word
	found := false
	for _, w := range words {
		if match(w) && (!found || w.BBox.CenterY() < best.BBox.CenterY()) {
			best, found = w, true
		}
	}
	return best, found
}

// Fields returns the anchor set as log fields.
func (s AnchorSet) Fields() logrus.Fields {
	fields := logrus.Fields{"section": s.Section.Y1}
	if s.StrikeTarget != nil {
		fields["strike"] = s.StrikeTarget.BBox.Y1
	}
	if s.DateBlank != nil {
		fields["date"] = s.DateBlank.BBox.Y1
		fields["dateEstimated"] = s.DateBlank.Estimated
	}
	if s.Signature != nil {
		fields["signature"] = s.Signature.BBox.Y1
		fields["signatureEstimated"] = s.Signature.Estimated
	}
	return fields
}
