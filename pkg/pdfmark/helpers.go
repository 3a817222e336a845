package pdfmark

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding/unicode"
)

var pdfStringEscapes = strings.NewReplacer(`\(`, "(", `\)`, ")", `\\`, `\`, `\r`, "\r", `\n`, "\n")

func unescapePDFString(s string) string {
	return pdfStringEscapes.Replace(s)
}

var utf16BOM = unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM)

// decodeUTF16BE decodes a PDF text string that starts with the UTF-16BE byte order mark.
func decodeUTF16BE(b []byte) (string, error) {
	if len(b) < 2 || b[0] != 0xFE || b[1] != 0xFF {
		return "", fmt.Errorf("no BOM detected, cannot confirm UTF-16BE")
	}
	out, err := utf16BOM.NewDecoder().Bytes(b)
	if err != nil {
		return "", fmt.Errorf("invalid UTF-16BE text: %w", err)
	}
	return string(out), nil
}
