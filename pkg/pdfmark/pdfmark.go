// Package pdfmark turns receipt anchors into PDF write positions and stamps
// them onto the source document.
//
// Pixel anchors from an OCR pass are mapped into document space (points, origin
// bottom-left) with Mapper. Stamp then imports every page of the original PDF
// and draws, on the receipt page only and inside a named layer:
//
// - a strike-through over the addressee word, when it was found
// - the receipt date after the era word
// - the signer's name after the signer title
//
// Main Functions:
//
// - MapPoint: pixel to document space conversion
// - Position: anchor set to WritePosition
// - PageSizes: page dimensions of a PDF in points
// - Stamp: draws a WritePosition onto a PDF
package pdfmark

import (
	"bytes"
	"fmt"
	"io"

	"codeberg.org/go-pdf/fpdf"
	"codeberg.org/go-pdf/fpdf/contrib/gofpdi"
	"github.com/sirupsen/logrus"
)

// Stamp returns a copy of inputPDFData with pos drawn onto page pos.Page.
// It refuses to stamp a document that already carries the stamp layer unless
// config.Force is set.
func Stamp(inputPDFData []byte, pos WritePosition, config StampConfig) ([]byte, error) {
	log := config.logger()

	if len(inputPDFData) == 0 {
		return nil, fmt.Errorf("input PDF data is empty")
	}
	sizes, err := PageSizes(inputPDFData)
	if err != nil {
		return nil, err
	}
	if pos.Page < 1 || pos.Page > len(sizes) {
		return nil, fmt.Errorf("receipt page %d out of range, document has %d pages", pos.Page, len(sizes))
	}

	layerResult, err := CheckExistingStampLayers(inputPDFData, config.LayerName)
	if err != nil {
		return nil, fmt.Errorf("layer detection failed: %w", err)
	}
	for _, warning := range layerResult.Warnings {
		log.Warn(warning)
	}
	if layerResult.HasStampLayer && !config.Force {
		return nil, fmt.Errorf("file already has a receipt stamp (layer '%s'), use -force to stamp again",
			layerResult.StampLayerName)
	} else if layerResult.HasStampLayer {
		log.Warn("file already has a receipt stamp; stamping again due to -force")
	}

	pdf := fpdf.New("P", "pt", "", "")
	if config.Font.File != "" {
		pdf.AddUTF8Font(config.Font.Name, config.Font.Style, config.Font.File)
	}
	pdf.SetFont(config.Font.Name, config.Font.Style, config.Font.Size)
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("failed to load font %s: %w", config.Font.Name, err)
	}

	importer := gofpdi.NewImporter()
	rs := io.ReadSeeker(bytes.NewReader(inputPDFData))

	for i, size := range sizes {
		pageNum := i + 1
		pdf.AddPageFormat("P", fpdf.SizeType{Wd: size.Width, Ht: size.Height})

		tpl := importer.ImportPageFromStream(pdf, &rs, pageNum, "/MediaBox")
		importer.UseImportedTemplate(pdf, tpl, 0, 0, size.Width, size.Height)

		if pageNum != pos.Page {
			continue
		}
		if pos.PageHeight == 0 {
			pos.PageWidth, pos.PageHeight = size.Width, size.Height
		}
		if err := drawStamp(pdf, pos, config); err != nil {
			return nil, fmt.Errorf("failed to stamp page %d: %w", pageNum, err)
		}
		log.WithFields(logrus.Fields{
			"page":   pageNum,
			"strike": pos.Strike != nil,
			"date":   !pos.Date.Estimated,
			"signer": !pos.Signer.Estimated,
		}).Debug("stamped receipt page")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}
