package pdfmark

import (
	"github.com/sirupsen/logrus"
)

// StampConfig holds user options for stamping a receipt page
type StampConfig struct {
	Debug       bool               // Outline every anchor slot in red
	Force       bool               // Stamp again even if a stamp layer already exists
	LayerName   string             // Name of the stamp layer
	DateText    string             // Written right of the date anchor
	SignerName  string             // Written right of the signer title
	StrikeWidth float64            // Line width of the strike-through, in points
	Gap         float64            // Space between an anchor and inserted text, in points
	Font        FontConfig         // Font of the inserted text
	Logger      logrus.FieldLogger // nil = logrus standard logger
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() StampConfig {
	return StampConfig{
		LayerName:   "Receipt Stamp",
		StrikeWidth: 1.2,
		Gap:         4,
		Font:        DefaultFont,
	}
}

// FontConfig contains font settings for inserted text
type FontConfig struct {
	Name  string  // Font family name
	Style string  // Font style ("", "B", "I", "BI")
	Size  float64 // Size used when the anchor slot gives no height
	File  string  // TrueType file registered as a UTF-8 font; empty uses a core font
	Fill  float64 // Share of the slot height the text occupies
}

// DefaultFont is a core font. Japanese text needs File set to a CJK TrueType font.
var DefaultFont = FontConfig{
	Name:  "Helvetica",
	Style: "",
	Size:  10,
	Fill:  0.8,
}

func (c StampConfig) logger() logrus.FieldLogger {
	if c.Logger == nil {
		return logrus.StandardLogger()
	}
	return c.Logger
}
