package pdfmark

import (
	"fmt"
	"regexp"
	"strings"
)

// ocgPatterns find optional content group names in raw PDF bytes.
var ocgPatterns = []*regexp.Regexp{
	regexp.MustCompile(`/Type\s*/OCG\s*/Name\s*\(((?:\\.|[^\\)])+)\)`),
	regexp.MustCompile(`/OCG\s*<<[^>]*?/Name\s*\(((?:\\.|[^\\)])+)\)`),
	regexp.MustCompile(`<</Type/OCG/Name\(((?:\\.|[^\\)])+)\)`),
	regexp.MustCompile(`/Name\s*\(((?:\\.|[^\\)])+)\)[\s\S]{1,50}/Type\s*/OCG`),
}

// detectPDFLayers returns the distinct layer names found in pdfData.
func detectPDFLayers(pdfData []byte) ([]string, error) {
	if len(pdfData) == 0 {
		return nil, fmt.Errorf("empty PDF data")
	}

	content := string(pdfData)
	var layers []string
	seen := make(map[string]bool)
	for _, re := range ocgPatterns {
		for _, match := range re.FindAllStringSubmatch(content, -1) {
			name := unescapePDFString(match[1])
			if decoded, err := decodeUTF16BE([]byte(name)); err == nil {
				name = decoded
			}
			if !seen[name] {
				seen[name] = true
				layers = append(layers, name)
			}
		}
	}
	return layers, nil
}

// LayerCheckResult contains the results of checking for stamp layers
type LayerCheckResult struct {
	Layers         []string // All detected layers
	HasStampLayer  bool     // True if the stamp layer exists
	StampLayerName string   // Name of the detected stamp layer (if any)
	Warnings       []string // Layers that look like an earlier stamp under another name
}

// CheckExistingStampLayers reports whether pdfData already carries a layer
// named layerName.
func CheckExistingStampLayers(pdfData []byte, layerName string) (LayerCheckResult, error) {
	result := LayerCheckResult{}

	layers, err := detectPDFLayers(pdfData)
	if err != nil {
		return result, fmt.Errorf("cannot analyze layers: %w", err)
	}
	result.Layers = layers

	for _, layer := range layers {
		if strings.TrimSpace(layer) == layerName {
			result.HasStampLayer = true
			result.StampLayerName = layer
			break
		}
		lower := strings.ToLower(layer)
		if strings.Contains(lower, "receipt") || strings.Contains(layer, "受領") {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("existing layer might contain a receipt stamp: %s", layer))
		}
	}
	return result, nil
}
