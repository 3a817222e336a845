package gdocai

import (
	"strings"

	"cloud.google.com/go/documentai/apiv1/documentaipb"

	"github.com/gardar/faxreceipt/pkg/receipt"
)

// FromProto converts a Document AI response into a Result.
func FromProto(doc *documentaipb.Document) *Result {
	result := &Result{Raw: doc, Text: doc.GetText()}
	for i, page := range doc.GetPages() {
		p := pageFromProto(page, doc.GetText())
		if p.Number == 0 {
			p.Number = i + 1
		}
		result.Pages = append(result.Pages, p)
	}
	return result
}

// pageFromProto builds the word grid of one page from its tokens.
func pageFromProto(page *documentaipb.Document_Page, fullText string) receipt.Page {
	dim := page.GetDimension()
	out := receipt.Page{
		Number: int(page.GetPageNumber()),
		Width:  float64(dim.GetWidth()),
		Height: float64(dim.GetHeight()),
	}

	for _, token := range page.GetTokens() {
		text := tokenText(token, fullText)
		if text == "" {
			continue
		}
		bbox, ok := boundingBox(token.GetLayout(), dim)
		if !ok {
			continue
		}
		out.Words = append(out.Words, receipt.Word{
			Text:       text,
			BBox:       bbox,
			Confidence: float64(token.GetLayout().GetConfidence() * 100),
		})
	}
	return out
}

// tokenText returns the token text without its trailing break.
func tokenText(token *documentaipb.Document_Page_Token, fullText string) string {
	text := textFromLayout(token.GetLayout(), fullText)
	text = strings.ReplaceAll(text, "\r", "")
	text = strings.ReplaceAll(text, "\n", " ")
	return strings.TrimSpace(text)
}

// boundingBox converts normalized vertices (0-1) into pixel coordinates of the
// page dimension. The box spans every vertex, so rotated polygons still fit.
func boundingBox(layout *documentaipb.Document_Page_Layout, dim *documentaipb.Document_Page_Dimension) (receipt.BoundingBox, bool) {
	vertices := layout.GetBoundingPoly().GetNormalizedVertices()
	if len(vertices) == 0 || dim == nil {
		return receipt.BoundingBox{}, false
	}

	minX, minY := vertices[0].GetX(), vertices[0].GetY()
	maxX, maxY := minX, minY
	for _, v := range vertices[1:] {
		minX, maxX = min(minX, v.GetX()), max(maxX, v.GetX())
		minY, maxY = min(minY, v.GetY()), max(maxY, v.GetY())
	}

	w, h := dim.GetWidth(), dim.GetHeight()
	return receipt.NewBoundingBox(
		float64(minX*w), float64(minY*h),
		float64(maxX*w), float64(maxY*h),
	), true
}
