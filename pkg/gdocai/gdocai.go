// Package gdocai runs Google Document AI OCR over a filing and converts the
// response into the inputs of the field extractor and the receipt locator.
//
// Document AI reports token positions as normalized vertices. They are scaled
// by the page dimension reported in the same response, so the resulting word
// grid is in the pixel space of the page image Document AI rendered.
//
// Main Functions:
//
// - ProcessDocument: sends a document to Google Document AI for processing
// - FromProto: converts a Document AI response into a Result
// - Recognize: ProcessDocument followed by FromProto
// - RecognizePages: processes single-page PDFs as one document
//
// Usage Requirements:
//
// - Google Cloud project with Document AI API enabled
// - Document AI processor configured for OCR
// - Authentication via GOOGLE_APPLICATION_CREDENTIALS or Config.CredentialsFile
package gdocai

import (
	"context"
	"fmt"
	"strings"
)

// Recognize processes a PDF with Document AI and returns its text and word grids.
func Recognize(ctx context.Context, pdfBytes []byte, cfg Config) (*Result, error) {
	rawDoc, err := ProcessDocument(ctx, pdfBytes, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to process document: %w", err)
	}
	return FromProto(rawDoc), nil
}

// RecognizePages processes each single-page PDF separately and combines the
// results into one document, numbering pages in the order given.
func RecognizePages(ctx context.Context, pagePdfBytesList [][]byte, cfg Config) (*Result, error) {
	result := &Result{}
	var texts []string

	for i, pageBytes := range pagePdfBytesList {
		pageDoc, err := ProcessDocument(ctx, pageBytes, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to process page %d: %w", i+1, err)
		}
		if len(pageDoc.GetPages()) != 1 {
			return nil, fmt.Errorf("expected 1 page in result for page %d, got %d", i+1, len(pageDoc.GetPages()))
		}

		page := pageFromProto(pageDoc.GetPages()[0], pageDoc.GetText())
		page.Number = i + 1
		result.Pages = append(result.Pages, page)
		texts = append(texts, pageDoc.GetText())
	}

	result.Text = strings.Join(texts, "\n\n")
	return result, nil
}
