package tesseract

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"github.com/otiai10/gosseract/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gardar/faxreceipt/pkg/receipt"
)

func TestWordsFromBoxes(t *testing.T) {
	words := wordsFromBoxes([]gosseract.BoundingBox{
		{Box: image.Rect(10, 20, 110, 60), Word: "受領書 ", Confidence: 91.5},
		{Box: image.Rect(0, 0, 5, 5), Word: "  "},
	})
	assert.Equal(t, []receipt.Word{
		{Text: "受領書", BBox: receipt.NewBoundingBox(10, 20, 110, 60), Confidence: 91.5},
	}, words)
}

func TestImageSize(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 124, 175))))

	w, h, err := imageSize(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 124, w)
	assert.Equal(t, 175, h)

	_, _, err = imageSize([]byte("not an image"))
	assert.Error(t, err)
}

func TestRecognizePageRejectsBadImage(t *testing.T) {
	_, _, err := RecognizePage(nil, 1, DefaultConfig())
	assert.ErrorContains(t, err, "page image")
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, []string{"jpn"}, cfg.Languages)
	assert.Equal(t, gosseract.PSM_AUTO, cfg.PageSegMode)
	assert.NotNil(t, cfg.logger())
}
