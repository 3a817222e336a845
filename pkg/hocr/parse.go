package hocr

import (
	"bytes"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/gardar/faxreceipt/pkg/receipt"
)

// Parse converts raw hOCR data into a Document.
func Parse(data []byte) (Document, error) {
	doc := Document{Metadata: make(map[string]string)}

	// Older engines write legacy encodings and say so in a meta charset.
	// Unknown labels are parsed as UTF-8.
	decoded := data
	if name := declaredCharset(data); name != "" {
		if enc, err := htmlindex.Get(name); err == nil {
			if canonical, _ := htmlindex.Name(enc); canonical != "utf-8" {
				decoded, err = enc.NewDecoder().Bytes(data)
				if err != nil {
					return doc, fmt.Errorf("failed to decode %s: %w", name, err)
				}
			}
		}
	}

	root, err := html.Parse(bytes.NewReader(decoded))
	if err != nil {
		return doc, fmt.Errorf("failed to parse hOCR: %w", err)
	}
	extractDocumentMeta(&doc, root)

	var findPages func(*html.Node)
	findPages = func(n *html.Node) {
		if n.Type == html.ElementNode && hasClass(n, "ocr_page") {
			doc.Pages = append(doc.Pages, processPage(n, len(doc.Pages)+1))
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			findPages(c)
		}
	}
	findPages(root)

	if len(doc.Pages) == 0 {
		return doc, fmt.Errorf("no ocr_page elements found in hOCR data")
	}
	return doc, nil
}

// declaredCharset returns the lowercased charset of a meta tag, if any.
func declaredCharset(data []byte) string {
	_, rest, ok := bytes.Cut(data, []byte("charset="))
	if !ok {
		return ""
	}
	rest = bytes.TrimLeft(rest, `"'`)
	end := bytes.IndexAny(rest, "\"';> \t\r\n/")
	if end < 0 {
		end = len(rest)
	}
	return strings.ToLower(string(rest[:end]))
}

// ParseTitle breaks down an hOCR title attribute into its components
// Example input: "bbox 100 200 300 400; x_wconf 95"
func ParseTitle(title string) map[string][]string {
	result := make(map[string][]string)
	for _, part := range strings.Split(title, ";") {
		items := strings.Fields(part)
		if len(items) > 0 {
			result[items[0]] = items[1:]
		}
	}
	return result
}

// parseBBox reads the bbox property of a parsed title.
func parseBBox(props map[string][]string) (receipt.BoundingBox, bool) {
	bbox, ok := props["bbox"]
	if !ok || len(bbox) < 4 {
		return receipt.BoundingBox{}, false
	}
	var v [4]float64
	for i := range v {
		f, err := strconv.ParseFloat(bbox[i], 64)
		if err != nil {
			return receipt.BoundingBox{}, false
		}
		v[i] = f
	}
	return receipt.NewBoundingBox(v[0], v[1], v[2], v[3]), true
}

// extractDocumentMeta reads the html lang attribute and the head section.
func extractDocumentMeta(doc *Document, root *html.Node) {
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "html":
				if lang := getAttrVal(n, "lang"); lang != "" {
					doc.Language = lang
				}
			case "title":
				if n.FirstChild != nil {
					doc.Title = strings.TrimSpace(n.FirstChild.Data)
				}
			case "meta":
				name, content := getAttrVal(n, "name"), getAttrVal(n, "content")
				switch {
				case content == "":
				case name == "ocr-system":
					doc.System = content
				case strings.HasPrefix(name, "ocr-"):
					doc.Metadata[name] = content
				case name == "dc.language" && doc.Language == "":
					doc.Language = content
				}
			case "body":
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
}

// processPage extracts a page and every line below it, at any depth.
func processPage(n *html.Node, number int) Page {
	page := Page{ID: getAttrVal(n, "id"), Number: number}
	props := ParseTitle(getAttrVal(n, "title"))
	if bbox, ok := parseBBox(props); ok {
		page.BBox = bbox
	}
	if image, ok := props["image"]; ok && len(image) > 0 {
		page.ImageName = strings.Trim(image[0], `"`)
	}

	// Words outside any line are grouped under their parent element
	var loose []receipt.Word
	var collect func(*html.Node)
	collect = func(node *html.Node) {
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			switch {
			case isLine(c):
				page.Lines = append(page.Lines, processLine(c))
			case hasClass(c, "ocrx_word"):
				if w, ok := processWord(c); ok {
					loose = append(loose, w)
				}
			default:
				collect(c)
				if len(loose) > 0 && (hasClass(c, "ocr_par") || hasClass(c, "ocr_carea")) {
					page.Lines = append(page.Lines, looseLine(loose))
					loose = nil
				}
			}
		}
	}
	collect(n)
	if len(loose) > 0 {
		page.Lines = append(page.Lines, looseLine(loose))
	}
	return page
}

func isLine(n *html.Node) bool {
	return slices.ContainsFunc(lineClasses, func(c string) bool { return hasClass(n, c) })
}

// processLine extracts a line and its words.
func processLine(n *html.Node) Line {
	line := Line{ID: getAttrVal(n, "id")}
	if bbox, ok := parseBBox(ParseTitle(getAttrVal(n, "title"))); ok {
		line.BBox = bbox
	}

	var extractWords func(*html.Node)
	extractWords = func(node *html.Node) {
		if node.Type == html.ElementNode && hasClass(node, "ocrx_word") {
			if w, ok := processWord(node); ok {
				line.Words = append(line.Words, w)
			}
			return
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			extractWords(c)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		extractWords(c)
	}
	return line
}

func looseLine(words []receipt.Word) Line {
	line := Line{Words: words, BBox: words[0].BBox}
	for _, w := range words[1:] {
		line.BBox = receipt.NewBoundingBox(
			min(line.BBox.X1, w.BBox.X1), min(line.BBox.Y1, w.BBox.Y1),
			max(line.BBox.X2, w.BBox.X2), max(line.BBox.Y2, w.BBox.Y2))
	}
	return line
}

// processWord reads one word. Words without text or a bbox are dropped.
func processWord(n *html.Node) (receipt.Word, bool) {
	props := ParseTitle(getAttrVal(n, "title"))
	bbox, ok := parseBBox(props)
	if !ok {
		return receipt.Word{}, false
	}
	text := extractTextContent(n)
	if text == "" {
		return receipt.Word{}, false
	}
	w := receipt.Word{Text: text, BBox: bbox}
	if conf, ok := props["x_wconf"]; ok && len(conf) > 0 {
		w.Confidence, _ = strconv.ParseFloat(conf[0], 64)
	}
	return w, true
}

// extractTextContent gets all text from a node and its children
func extractTextContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return strings.TrimSpace(n.Data)
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(extractTextContent(c))
	}
	return strings.TrimSpace(sb.String())
}

func hasClass(n *html.Node, class string) bool {
	return slices.Contains(strings.Fields(getAttrVal(n, "class")), class)
}

// Get the value of a specific attribute from a node
func getAttrVal(n *html.Node, attrName string) string {
	for _, attr := range n.Attr {
		if attr.Key == attrName {
			return attr.Val
		}
	}
	return ""
}
