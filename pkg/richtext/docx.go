package richtext

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/net/html"
)

var (
	reDocxPart  = regexp.MustCompile(`^word/(?:document|header[0-9]*|footer[0-9]*)\.xml$`)
	reParagraph = regexp.MustCompile(`(?s)<w:p(?:\s[^>]*)?>.*?</w:p>`)
	reRun       = regexp.MustCompile(`(?s)<w:r(?:\s[^>]*)?>(.*?)</w:r>`)
	reRunProps  = regexp.MustCompile(`(?s)<w:rPr>.*?</w:rPr>|<w:rPr/>`)
	reRunText   = regexp.MustCompile(`(?s)<w:t(?:\s[^>]*)?>(.*?)</w:t>|<w:t(?:\s[^>]*)?/>`)
)

// ReplaceInDocx returns a copy of the .docx archive with every key of
// replacements substituted by its value in the body, headers and footers.
// Entries without a substitution are copied byte for byte.
func ReplaceInDocx(docx []byte, replacements map[string]string) ([]byte, int, error) {
	zr, err := zip.NewReader(bytes.NewReader(docx), int64(len(docx)))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open docx: %w", err)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	total := 0
	for _, f := range zr.File {
		if !reDocxPart.MatchString(f.Name) {
			if err := zw.Copy(f); err != nil {
				return nil, 0, fmt.Errorf("failed to copy %s: %w", f.Name, err)
			}
			continue
		}

		part, err := readZipFile(f)
		if err != nil {
			return nil, 0, err
		}
		replaced, n := ReplaceInXML(part, replacements)
		if n == 0 {
			if err := zw.Copy(f); err != nil {
				return nil, 0, fmt.Errorf("failed to copy %s: %w", f.Name, err)
			}
			continue
		}
		total += n

		w, err := zw.CreateHeader(&zip.FileHeader{Name: f.Name, Method: f.Method, Modified: f.Modified})
		if err != nil {
			return nil, 0, fmt.Errorf("failed to create %s: %w", f.Name, err)
		}
		if _, err := io.WriteString(w, replaced); err != nil {
			return nil, 0, fmt.Errorf("failed to write %s: %w", f.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, 0, fmt.Errorf("failed to finish docx: %w", err)
	}
	return buf.Bytes(), total, nil
}

func readZipFile(f *zip.File) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", f.Name, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", f.Name, err)
	}
	return string(data), nil
}

// ReplaceInXML substitutes replacements inside the paragraphs of a
// WordprocessingML part. Longer keys are applied first. Paragraphs without a
// substitution are left byte for byte.
func ReplaceInXML(part string, replacements map[string]string) (string, int) {
	keys := make([]string, 0, len(replacements))
	for k := range replacements {
		if k != "" {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})

	total := 0
	out := reParagraph.ReplaceAllStringFunc(part, func(p string) string {
		replaced, n := replaceInParagraph(p, keys, replacements)
		total += n
		return replaced
	})
	return out, total
}

func replaceInParagraph(p string, keys []string, replacements map[string]string) (string, int) {
	locs := reRun.FindAllStringSubmatchIndex(p, -1)
	if len(locs) == 0 {
		return p, 0
	}
	block := Block{Runs: make([]Run, len(locs))}
	for i, m := range locs {
		body := p[m[2]:m[3]]
		block.Runs[i] = Run{Attrs: reRunProps.FindString(body), Text: runText(body)}
	}
	original := block

	total := 0
	for _, k := range keys {
		var n int
		block, n = ReplaceAll(block, k, replacements[k])
		total += n
	}
	if total == 0 {
		return p, 0
	}

	var sb strings.Builder
	last := 0
	for i, m := range locs {
		if block.Runs[i].Text == original.Runs[i].Text {
			continue
		}
		sb.WriteString(p[last:m[2]])
		sb.WriteString(setRunText(p[m[2]:m[3]], block.Runs[i].Text))
		last = m[3]
	}
	sb.WriteString(p[last:])
	return sb.String(), total
}

// runText concatenates the unescaped w:t contents of a run body.
func runText(body string) string {
	var sb strings.Builder
	for _, m := range reRunText.FindAllStringSubmatch(body, -1) {
		sb.WriteString(html.UnescapeString(m[1]))
	}
	return sb.String()
}

// setRunText puts text into the first w:t of a run body and empties the rest.
// Properties and non-text children stay in place.
func setRunText(body, text string) string {
	element := `<w:t xml:space="preserve">` + html.EscapeString(text) + `</w:t>`
	first := true
	replaced := reRunText.ReplaceAllStringFunc(body, func(string) string {
		if first {
			first = false
			return element
		}
		return `<w:t/>`
	})
	if first && text != "" {
		return body + element
	}
	return replaced
}
