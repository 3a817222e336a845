package pdfmark

import (
	"github.com/gardar/faxreceipt/pkg/receipt"
)

// Slot is an anchor box in document space with the point where text is inserted.
type Slot struct {
	X         float64 `json:"x"`        // left edge
	RightX    float64 `json:"rightX"`   // right edge
	Baseline  float64 `json:"baseline"` // bottom edge
	Height    float64 `json:"height"`
	InsertX   float64 `json:"insertX"`
	Estimated bool    `json:"estimated,omitempty"`
}

// MidY is the vertical center of the slot, where a strike-through line runs.
func (s Slot) MidY() float64 { return s.Baseline + s.Height/2 }

// WritePosition holds the document-space targets of one receipt annotation.
// Strike is nil when the page has no strike target; the strike is then skipped.
type WritePosition struct {
	Page       int     `json:"page"` // 1-based
	PageWidth  float64 `json:"pageWidth"`
	PageHeight float64 `json:"pageHeight"`
	Strike     *Slot   `json:"strike,omitempty"`
	Date       Slot    `json:"date"`
	Signer     Slot    `json:"signer"`
}

// Position maps the anchors of a receipt page to write positions.
// Date text goes right of the era word; the signer name goes right of the word
// closing the title phrase, else right of the signature line.
func Position(page int, set receipt.AnchorSet, m Mapper) WritePosition {
	pos := WritePosition{Page: page, PageWidth: m.PageWidth, PageHeight: m.PageHeight}

	if set.StrikeTarget != nil {
		s := m.slot(set.StrikeTarget.BBox, false)
		pos.Strike = &s
	}
	if set.DateBlank != nil {
		pos.Date = m.slot(set.DateBlank.BBox, set.DateBlank.Estimated)
	}
	if sig := set.Signature; sig != nil {
		ref := sig.BBox
		switch {
		case sig.End != nil:
			ref = sig.End.BBox
		case len(sig.Line) > 0:
			ref = sig.Line[len(sig.Line)-1].BBox
		}
		pos.Signer = m.slot(ref, sig.Estimated)
	}
	return pos
}

// slot maps a pixel box. An estimated box is written into, not after.
func (m Mapper) slot(b receipt.BoundingBox, estimated bool) Slot {
	x1, top := m.Point(b.X1, b.Y1)
	x2, bottom := m.Point(b.X2, b.Y2)
	s := Slot{
		X:         x1,
		RightX:    x2,
		Baseline:  bottom,
		Height:    top - bottom,
		InsertX:   x2,
		Estimated: estimated,
	}
	if estimated {
		s.InsertX = x1
	}
	return s
}
