package hocr

import (
	"strings"

	"github.com/gardar/faxreceipt/pkg/receipt"
)

// Words returns every word of the page in line order.
func (p Page) Words() []receipt.Word {
	var words []receipt.Word
	for _, line := range p.Lines {
		words = append(words, line.Words...)
	}
	return words
}

// ReceiptPage returns the word grid of the page, sized by its bbox.
func (p Page) ReceiptPage() receipt.Page {
	return receipt.Page{
		Number: p.Number,
		Width:  p.BBox.Width(),
		Height: p.BBox.Height(),
		Words:  p.Words(),
	}
}

// ReceiptPages returns the word grid of every page.
func (d Document) ReceiptPages() []receipt.Page {
	pages := make([]receipt.Page, len(d.Pages))
	for i, p := range d.Pages {
		pages[i] = p.ReceiptPage()
	}
	return pages
}

// Text returns the transcript of the page, one line per hOCR line.
func (p Page) Text() string {
	var builder strings.Builder
	for _, line := range p.Lines {
		for i, word := range line.Words {
			if i > 0 {
				builder.WriteString(" ")
			}
			builder.WriteString(word.Text)
		}
		builder.WriteString("\n")
	}
	return builder.String()
}

// Text extracts all text from the document.
// Pages are separated by a blank line.
func (d Document) Text() string {
	var builder strings.Builder
	for i, page := range d.Pages {
		if i > 0 {
			builder.WriteString("\n")
		}
		builder.WriteString(page.Text())
	}
	return builder.String()
}
