package textlayer

import (
	"bytes"
	"testing"

	"codeberg.org/go-pdf/fpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func threePages(t *testing.T) []byte {
	t.Helper()
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetFont("Helvetica", "", 12)
	for _, s := range []string{"FAX 03-3581-5555", "Second", "Third"} {
		pdf.AddPage()
		pdf.Text(40, 40, s)
	}
	var buf bytes.Buffer
	require.NoError(t, pdf.Output(&buf))
	return buf.Bytes()
}

func TestExtract(t *testing.T) {
	layer, err := Extract(threePages(t), 2)
	require.NoError(t, err)
	assert.Equal(t, 3, layer.Total)
	require.Len(t, layer.Pages, 2)
	assert.Contains(t, layer.Pages[0], "03-3581-5555")
	assert.Contains(t, layer.Text(), "Second")
	assert.NotContains(t, layer.Text(), "Third")

	layer, err = Extract(threePages(t), 0)
	require.NoError(t, err)
	assert.Len(t, layer.Pages, 3)
}

func TestExtractErrors(t *testing.T) {
	_, err := Extract(nil, 0)
	assert.Error(t, err)

	_, err = Extract([]byte("not a pdf"), 0)
	assert.Error(t, err)
}

func TestUsable(t *testing.T) {
	assert.False(t, Layer{Pages: []string{" \n ", ""}}.Usable(0))
	assert.True(t, Layer{Pages: []string{"東京 地方", "裁判所"}}.Usable(7))
	assert.False(t, Layer{Pages: []string{"東京 地方", "裁判所"}}.Usable(8))
}
