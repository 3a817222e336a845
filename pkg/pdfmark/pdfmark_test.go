package pdfmark

import (
	"bytes"
	"io"
	"testing"

	"codeberg.org/go-pdf/fpdf"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gardar/faxreceipt/pkg/receipt"
)

const (
	a4W = 595.28
	a4H = 841.89
)

func TestMapPoint(t *testing.T) {
	tests := []struct {
		name   string
		px, py float64
		x, y   float64
	}{
		{"top-left", 0, 0, 0, a4H},
		{"bottom-right", 2480, 3508, a4W, 0},
		{"center", 1240, 1754, a4W / 2, a4H / 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := MapPoint(tt.px, tt.py, 2480, 3508, a4W, a4H)
			assert.InDelta(t, tt.x, x, 1e-9)
			assert.InDelta(t, tt.y, y, 1e-9)
		})
	}

	x, y := MapPoint(10, 20, 0, 0, a4W, a4H)
	assert.Equal(t, 10.0, x)
	assert.Equal(t, a4H-20, y)
}

func TestPosition(t *testing.T) {
	m := Mapper{ImageWidth: 1000, ImageHeight: 2000, PageWidth: 500, PageHeight: 1000}
	set := receipt.AnchorSet{
		StrikeTarget: &receipt.Anchor{BBox: receipt.NewBoundingBox(700, 1000, 760, 1040)},
		DateBlank:    &receipt.Anchor{BBox: receipt.NewBoundingBox(100, 1200, 180, 1240)},
		Signature: &receipt.Signature{
			Anchor: receipt.Anchor{BBox: receipt.NewBoundingBox(100, 1400, 300, 1440)},
			End:    &receipt.Anchor{BBox: receipt.NewBoundingBox(100, 1400, 300, 1440)},
			Line: []receipt.Word{
				{Text: "代理人", BBox: receipt.NewBoundingBox(100, 1400, 300, 1440)},
				{Text: "弁護士", BBox: receipt.NewBoundingBox(320, 1400, 420, 1440)},
			},
		},
	}

	pos := Position(1, set, m)
	require.NotNil(t, pos.Strike)
	assert.Equal(t, Slot{X: 350, RightX: 380, Baseline: 480, Height: 20, InsertX: 380}, *pos.Strike)
	assert.Equal(t, 490.0, pos.Strike.MidY())
	assert.Equal(t, 90.0, pos.Date.InsertX)
	assert.Equal(t, 380.0, pos.Date.Baseline)
	assert.Equal(t, 150.0, pos.Signer.InsertX)
	assert.Equal(t, 280.0, pos.Signer.Baseline)

	set.StrikeTarget = nil
	set.Signature.End = nil
	set.DateBlank.Estimated = true
	pos = Position(1, set, m)
	assert.Nil(t, pos.Strike)
	assert.True(t, pos.Date.Estimated)
	assert.Equal(t, 50.0, pos.Date.InsertX)
	assert.Equal(t, 210.0, pos.Signer.InsertX)
}

func samplePDF(t *testing.T) []byte {
	t.Helper()
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.AddPage()
	pdf.Text(40, 40, "Receipt page")
	pdf.AddPage()
	pdf.Text(40, 40, "Body page")
	var buf bytes.Buffer
	require.NoError(t, pdf.Output(&buf))
	return buf.Bytes()
}

func quietConfig() StampConfig {
	l := logrus.New()
	l.SetOutput(io.Discard)
	c := DefaultConfig()
	c.Logger = l
	return c
}

func TestPageSizes(t *testing.T) {
	sizes, err := PageSizes(samplePDF(t))
	require.NoError(t, err)
	require.Len(t, sizes, 2)
	assert.InDelta(t, a4W, sizes[0].Width, 0.01)
	assert.InDelta(t, a4H, sizes[0].Height, 0.01)

	_, err = PageSizes(nil)
	assert.Error(t, err)
}

func TestStamp(t *testing.T) {
	input := samplePDF(t)
	pos := WritePosition{
		Page:       1,
		PageWidth:  a4W,
		PageHeight: a4H,
		Strike:     &Slot{X: 300, RightX: 320, Baseline: 600, Height: 12, InsertX: 320},
		Date:       Slot{X: 100, RightX: 130, Baseline: 500, Height: 12, InsertX: 130},
		Signer:     Slot{X: 100, RightX: 200, Baseline: 400, Height: 12, InsertX: 200},
	}
	config := quietConfig()
	config.DateText = "2026/10/18"
	config.SignerName = "Yamada"

	out, err := Stamp(input, pos, config)
	require.NoError(t, err)

	sizes, err := PageSizes(out)
	require.NoError(t, err)
	assert.Len(t, sizes, 2)

	layers, err := CheckExistingStampLayers(out, config.LayerName)
	require.NoError(t, err)
	assert.True(t, layers.HasStampLayer)

	_, err = Stamp(out, pos, config)
	assert.ErrorContains(t, err, "already has a receipt stamp")

	config.Force = true
	_, err = Stamp(out, pos, config)
	assert.NoError(t, err)
}

func TestStampRejects(t *testing.T) {
	input := samplePDF(t)
	config := quietConfig()

	_, err := Stamp(nil, WritePosition{Page: 1}, config)
	assert.Error(t, err)

	_, err = Stamp(input, WritePosition{Page: 3}, config)
	assert.ErrorContains(t, err, "out of range")

	config.DateText = "令和8年10月18日"
	_, err = Stamp(input, WritePosition{Page: 1, Date: Slot{Height: 12}}, config)
	assert.ErrorContains(t, err, "TrueType")
}

func TestDecodeUTF16BE(t *testing.T) {
	s, err := decodeUTF16BE([]byte("\xfe\xff\x00R\x30\x6e"))
	require.NoError(t, err)
	assert.Equal(t, "Rの", s)

	_, err = decodeUTF16BE([]byte("Receipt"))
	assert.Error(t, err)
}

func TestUnescapePDFString(t *testing.T) {
	assert.Equal(t, `a(b)\c`, unescapePDFString(`a\(b\)\\c`))
}
