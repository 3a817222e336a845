package gdocai

import (
	"strings"

	"cloud.google.com/go/documentai/apiv1/documentaipb"
)

// textFromLayout extracts text from a layout's text anchor segments
func textFromLayout(layout *documentaipb.Document_Page_Layout, fullText string) string {
	segments := layout.GetTextAnchor().GetTextSegments()
	if len(segments) == 0 {
		return ""
	}
	runes := []rune(fullText)
	total := int64(len(runes))

	var result strings.Builder
	for _, seg := range segments {
		start, end := seg.GetStartIndex(), seg.GetEndIndex()
		start = max(start, 0)
		end = min(end, total)
		if start > end {
			start = end
		}
		result.WriteString(string(runes[start:end]))
	}
	return result.String()
}

// PageText returns the text of one page of a Document AI response.
func PageText(doc *documentaipb.Document, pageIndex int) string {
	pages := doc.GetPages()
	if pageIndex < 0 || pageIndex >= len(pages) {
		return ""
	}
	return textFromLayout(pages[pageIndex].GetLayout(), doc.GetText())
}
