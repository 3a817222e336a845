// Package receipt finds the receipt acknowledgement section of a scanned filing
// and the landmarks an annotation needs inside it.
//
// Input is the OCR word grid of each rasterized page, positioned in pixels with
// the origin at the top-left corner. Nothing here fails: a missing landmark is
// either left nil or estimated and flagged.
//
// Main Functions:
//
// - Locate: picks the receipt page, scanning page 1, the last page, then the rest
// - ScorePage: the per-page score with its breakdown
// - Detect: the strike target, date blank and signature line of a page
package receipt

import "github.com/sirupsen/logrus"

// BoundingBox is a rectangle in pixel space.
type BoundingBox struct {
	X1 float64 // Left coordinate
	Y1 float64 // Top coordinate
	X2 float64 // Right coordinate
	Y2 float64 // Bottom coordinate
}

// NewBoundingBox creates a bounding box from its top-left and bottom-right corners.
func NewBoundingBox(x1, y1, x2, y2 float64) BoundingBox {
	return BoundingBox{X1: x1, Y1: y1, X2: x2, Y2: y2}
}

func (b BoundingBox) Width() float64   { return b.X2 - b.X1 }
func (b BoundingBox) Height() float64  { return b.Y2 - b.Y1 }
func (b BoundingBox) CenterY() float64 { return (b.Y1 + b.Y2) / 2 }

// union returns the smallest box containing both b and o.
func (b BoundingBox) union(o BoundingBox) BoundingBox {
	return BoundingBox{
		X1: min(b.X1, o.X1),
		Y1: min(b.Y1, o.Y1),
		X2: max(b.X2, o.X2),
		Y2: max(b.Y2, o.Y2),
	}
}

// Word is one recognized token.
type Word struct {
	Text       string      `json:"text"`
	BBox       BoundingBox `json:"bbox"`
	Confidence float64     `json:"confidence,omitempty"` // 0-100, 0 when unknown
}

// Page is the word grid of one rasterized page.
type Page struct {
	Number int     `json:"number"` // 1-based page number in the source document
	Width  float64 `json:"width"`  // image width in pixels
	Height float64 `json:"height"` // image height in pixels
	Words  []Word  `json:"words"`
}

// Config holds the vocabulary and pixel tolerances of the receipt layout.
type Config struct {
	Label        string   // receipt section heading
	EraToken     string   // era name opening a date
	AgentToken   string   // "agent" in the signer's title
	CounselToken string   // attorney title on the addressee line
	StrikeTarget string   // addressee word struck through on receipt
	PersonSuffix string   // last rune of a signer title phrase
	PartyTokens  []string // signature fallbacks
	DateMarkers  []string // year and month markers of a date blank

	LabelScore      int // bonus for the receipt label
	EraScore        int
	AgentScore      int
	ConfidentScore  int // a page at or above this score ends the scan
	LongPage        int // word count above which LongPagePenalty applies
	VeryLongPage    int // word count above which the penalty applies again
	LongPagePenalty int

	LabelMargin       float64 // the receipt section starts this far above the label
	LineTolerance     float64 // max center distance of words on one line
	SplitTolerance    float64 // max center distance between runes of a split label
	DateOffsetAbove   float64 // estimated date sits this far above the signature
	EstimateLeft      float64 // x of estimated anchors
	EstimateHeight    float64 // box height of estimated anchors
	SignatureQuantile float64 // depth of the estimated signature within the section
}

// DefaultConfig returns the layout of the standard receipt acknowledgement form,
// tuned for pages rasterized at 300 DPI.
func DefaultConfig() Config {
	return Config{
		Label:        "受領書",
		EraToken:     "令和",
		AgentToken:   "代理人",
		CounselToken: "弁護士",
		StrikeTarget: "宛",
		PersonSuffix: "人",
		PartyTokens:  []string{"原告", "被告"},
		DateMarkers:  []string{"年", "月"},

		LabelScore:      50,
		EraScore:        10,
		AgentScore:      10,
		ConfidentScore:  50,
		LongPage:        200,
		VeryLongPage:    300,
		LongPagePenalty: 20,

		LabelMargin:       30,
		LineTolerance:     15,
		SplitTolerance:    20,
		DateOffsetAbove:   80,
		EstimateLeft:      200,
		EstimateHeight:    40,
		SignatureQuantile: 0.85,
	}
}

// Finder runs page location and anchor detection with a fixed Config.
type Finder struct {
	cfg Config
	log logrus.FieldLogger
}

// Option configures a Finder.
type Option func(*Finder)

// WithLogger sets the logger used for score breakdowns and estimation notices.
func WithLogger(l logrus.FieldLogger) Option {
	return func(f *Finder) {
		f.log = l
	}
}

// New returns a Finder for cfg.
func New(cfg Config, opts ...Option) *Finder {
	cfg.PartyTokens = append([]string(nil), cfg.PartyTokens...)
	cfg.DateMarkers = append([]string(nil), cfg.DateMarkers...)
	f := &Finder{cfg: cfg, log: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(f)
	}
	return f
}
