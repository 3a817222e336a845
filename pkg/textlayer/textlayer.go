// Package textlayer reads the embedded text layer of a PDF, the preferred
// source for field extraction when the filing was produced digitally.
package textlayer

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

// Layer is the plain text of each page read.
type Layer struct {
	Pages []string `json:"pages"`
	Total int      `json:"total"` // page count of the document
}

// Text joins the pages with a blank line.
func (l Layer) Text() string {
	return strings.Join(l.Pages, "\n\n")
}

// Usable reports whether the layer carries at least minChars non-space
// characters. Scanned faxes usually have none.
func (l Layer) Usable(minChars int) bool {
	n := 0
	for _, p := range l.Pages {
		n += utf8.RuneCountInString(strings.Join(strings.Fields(p), ""))
	}
	return n > 0 && n >= minChars
}

// Extract reads the text of up to maxPages pages from pdfData, all pages when
// maxPages is zero or negative. A page whose content stream cannot be decoded
// yields an empty string instead of failing the document.
func Extract(pdfData []byte, maxPages int) (Layer, error) {
	if len(pdfData) == 0 {
		return Layer{}, fmt.Errorf("input PDF data is empty")
	}
	r, err := pdf.NewReader(bytes.NewReader(pdfData), int64(len(pdfData)))
	if err != nil {
		return Layer{}, fmt.Errorf("failed to open PDF: %w", err)
	}

	layer := Layer{Total: r.NumPage()}
	n := layer.Total
	if maxPages > 0 && maxPages < n {
		n = maxPages
	}
	for i := 1; i <= n; i++ {
		layer.Pages = append(layer.Pages, pageText(r, i))
	}
	return layer, nil
}

// pageText recovers from the panics the reader raises on malformed streams.
func pageText(r *pdf.Reader, pageNum int) (text string) {
	defer func() {
		if recover() != nil {
			text = ""
		}
	}()
	page := r.Page(pageNum)
	if page.V.IsNull() {
		return ""
	}
	text, err := page.GetPlainText(nil)
	if err != nil {
		return ""
	}
	return text
}
