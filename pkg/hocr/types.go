package hocr

import "github.com/gardar/faxreceipt/pkg/receipt"

// Document is a parsed hOCR file.
type Document struct {
	Title    string            // Document title
	Language string            // Document language
	System   string            // ocr-system meta value
	Metadata map[string]string // Other ocr-* meta values
	Pages    []Page            // Pages in document order
}

// Page is one page of recognized text.
// Corresponds to hOCR element with class: 'ocr_page'
type Page struct {
	ID        string              // Unique identifier
	Number    int                 // 1-based position in the document
	ImageName string              // Source image filename
	BBox      receipt.BoundingBox // Page coordinates, the image size in pixels
	Lines     []Line              // Text lines in reading order
}

// Line is one line of text.
// Corresponds to hOCR element with class: 'ocr_line'
type Line struct {
	ID    string              // Unique identifier
	BBox  receipt.BoundingBox // Line coordinates
	Words []receipt.Word      // Words in this line
}

// lineClasses are the hOCR classes Tesseract emits for line-level elements.
var lineClasses = []string{"ocr_line", "ocr_textfloat", "ocr_header", "ocr_caption"}
