package pdfmark

import (
	"fmt"

	"codeberg.org/go-pdf/fpdf"
	"golang.org/x/text/encoding/charmap"
)

// drawStamp draws the strike line, the date and the signer name onto a layer of
// the current page. pos is in document space; fpdf measures y from the top.
func drawStamp(pdf *fpdf.Fpdf, pos WritePosition, config StampConfig) error {
	layer := pdf.AddLayer(config.LayerName, true)
	pdf.BeginLayer(layer)
	defer pdf.EndLayer()

	flip := func(y float64) float64 { return pos.PageHeight - y }

	if config.Debug {
		pdf.SetDrawColor(255, 0, 0)
		pdf.SetLineWidth(0.5)
		for _, s := range []*Slot{pos.Strike, &pos.Date, &pos.Signer} {
			if s != nil {
				pdf.Rect(s.X, flip(s.Baseline+s.Height), s.RightX-s.X, s.Height, "D")
			}
		}
		pdf.SetDrawColor(0, 0, 0)
	}

	if pos.Strike != nil {
		pdf.SetLineWidth(config.StrikeWidth)
		y := flip(pos.Strike.MidY())
		pdf.Line(pos.Strike.X, y, pos.Strike.RightX, y)
	}

	if err := drawText(pdf, pos.Date, config.DateText, flip, config); err != nil {
		return fmt.Errorf("failed to draw date: %w", err)
	}
	if err := drawText(pdf, pos.Signer, config.SignerName, flip, config); err != nil {
		return fmt.Errorf("failed to draw signer name: %w", err)
	}
	return pdf.Error()
}

// drawText writes text on the baseline of slot, sized to the slot height.
func drawText(pdf *fpdf.Fpdf, slot Slot, text string, flip func(float64) float64, config StampConfig) error {
	if text == "" {
		return nil
	}
	if config.Font.File == "" {
		// Core fonts only cover Latin-1.
		latin1, err := charmap.ISO8859_1.NewEncoder().String(text)
		if err != nil {
			return fmt.Errorf("text %q cannot be set in core font %s; configure a TrueType font file: %w",
				text, config.Font.Name, err)
		}
		text = latin1
	}

	size := config.Font.Size
	if slot.Height > 0 && config.Font.Fill > 0 {
		size = slot.Height * config.Font.Fill
	}
	pdf.SetFontSize(size)
	pdf.Text(slot.InsertX+config.Gap, flip(slot.Baseline), text)
	pdf.SetFontSize(config.Font.Size)
	return nil
}
