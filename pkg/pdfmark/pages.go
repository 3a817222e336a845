package pdfmark

import (
	"bytes"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PageSize is the media box size of one page in points.
type PageSize struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// PageSizes returns the size of every page of pdfData, in page order.
func PageSizes(pdfData []byte) ([]PageSize, error) {
	if len(pdfData) == 0 {
		return nil, fmt.Errorf("empty PDF data")
	}
	dims, err := api.PageDims(bytes.NewReader(pdfData), model.NewDefaultConfiguration())
	if err != nil {
		return nil, fmt.Errorf("failed to read page dimensions: %w", err)
	}
	sizes := make([]PageSize, len(dims))
	for i, d := range dims {
		sizes[i] = PageSize{Width: d.Width, Height: d.Height}
	}
	return sizes, nil
}
