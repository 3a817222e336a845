// Package tesseract recognizes a rasterized page image with a local Tesseract
// install and returns its word grid and transcript.
package tesseract

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/otiai10/gosseract/v2"
	"github.com/sirupsen/logrus"
	_ "golang.org/x/image/tiff"

	"github.com/gardar/faxreceipt/pkg/receipt"
)

// Config holds the Tesseract settings.
type Config struct {
	Languages   []string
	PageSegMode gosseract.PageSegMode
	Variables   map[string]string
	Logger      logrus.FieldLogger // nil = logrus standard logger
}

// DefaultConfig returns settings for Japanese court documents.
func DefaultConfig() Config {
	return Config{
		Languages:   []string{"jpn"},
		PageSegMode: gosseract.PSM_AUTO,
	}
}

func (c Config) logger() logrus.FieldLogger {
	if c.Logger == nil {
		return logrus.StandardLogger()
	}
	return c.Logger
}

// RecognizePage runs OCR over one PNG, JPEG or TIFF page image. The page is
// sized by the decoded image and numbered with number.
func RecognizePage(imageBytes []byte, number int, cfg Config) (receipt.Page, string, error) {
	width, height, err := imageSize(imageBytes)
	if err != nil {
		return receipt.Page{}, "", err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if len(cfg.Languages) > 0 {
		if err := client.SetLanguage(cfg.Languages...); err != nil {
			return receipt.Page{}, "", fmt.Errorf("failed to set language: %w", err)
		}
	}
	if err := client.SetPageSegMode(cfg.PageSegMode); err != nil {
		return receipt.Page{}, "", fmt.Errorf("failed to set page segmentation mode: %w", err)
	}
	for k, v := range cfg.Variables {
		if err := client.SetVariable(gosseract.SettableVariable(k), v); err != nil {
			return receipt.Page{}, "", fmt.Errorf("failed to set variable %s: %w", k, err)
		}
	}
	if err := client.SetImageFromBytes(imageBytes); err != nil {
		return receipt.Page{}, "", fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return receipt.Page{}, "", fmt.Errorf("OCR extraction failed: %w", err)
	}
	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return receipt.Page{}, "", fmt.Errorf("failed to get word boxes: %w", err)
	}

	page := receipt.Page{
		Number: number,
		Width:  float64(width),
		Height: float64(height),
		Words:  wordsFromBoxes(boxes),
	}
	cfg.logger().WithFields(logrus.Fields{
		"page":  number,
		"words": len(page.Words),
		"size":  fmt.Sprintf("%dx%d", width, height),
	}).Debug("recognized page image")
	return page, text, nil
}

// wordsFromBoxes converts Tesseract word boxes, dropping empty words.
func wordsFromBoxes(boxes []gosseract.BoundingBox) []receipt.Word {
	words := make([]receipt.Word, 0, len(boxes))
	for _, box := range boxes {
		text := strings.TrimSpace(box.Word)
		if text == "" {
			continue
		}
		words = append(words, receipt.Word{
			Text: text,
			BBox: receipt.NewBoundingBox(
				float64(box.Box.Min.X), float64(box.Box.Min.Y),
				float64(box.Box.Max.X), float64(box.Box.Max.Y),
			),
			Confidence: float64(box.Confidence),
		})
	}
	return words
}

func imageSize(data []byte) (int, int, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read page image: %w", err)
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return 0, 0, fmt.Errorf("page image (%s) has no pixels", format)
	}
	return cfg.Width, cfg.Height, nil
}
