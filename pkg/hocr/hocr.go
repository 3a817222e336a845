// Package hocr reads hOCR, the HTML-based OCR output of Tesseract and similar
// engines, into the page word grids used by the receipt locator.
//
// Only the parts of the hOCR hierarchy the receipt workflow needs are kept:
// Document → Pages → Lines → Words. Areas and paragraphs are flattened away,
// and words outside any line are gathered into one line per parent element.
//
// Key Types:
//
// - Document: the parsed file with its metadata
// - Page: one 'ocr_page' with its image size from the page bbox
// - Line: one 'ocr_line' (or 'ocr_textfloat', 'ocr_header', 'ocr_caption')
//
// Main Functions:
//
// - Parse: parses hOCR data into a Document
// - Document.ReceiptPages: the word grid of every page
// - Document.Text: the transcript handed to the field extractor
package hocr
