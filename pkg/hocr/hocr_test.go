package hocr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/japanese"

	"github.com/gardar/faxreceipt/pkg/receipt"
)

const sample = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.0 Transitional//EN" "http://www.w3.org/TR/xhtml1/DTD/xhtml1-transitional.dtd">
<html xmlns="http://www.w3.org/1999/xhtml" xml:lang="ja" lang="ja">
 <head>
  <title>receipt</title>
  <meta http-equiv="Content-Type" content="text/html;charset=utf-8"/>
  <meta name='ocr-system' content='tesseract 5.3.0'/>
  <meta name='ocr-capabilities' content='ocr_page ocr_carea ocr_par ocr_line ocrx_word'/>
 </head>
 <body>
  <div class='ocr_page' id='page_1' title='image "p1.png"; bbox 0 0 2480 3508; ppageno 0'>
   <div class='ocr_carea' id='block_1_1' title="bbox 100 100 900 300">
    <p class='ocr_par' id='par_1_1' title="bbox 100 100 900 300">
     <span class='ocr_line' id='line_1_1' title="bbox 100 100 400 150; baseline 0 -5">
      <span class='ocrx_word' id='word_1_1' title='bbox 100 100 400 150; x_wconf 96'>受領書</span>
     </span>
     <span class='ocr_textfloat' id='line_1_2' title="bbox 100 200 900 250">
      <span class='ocrx_word' id='word_1_2' title='bbox 100 200 200 250; x_wconf 91'>令和</span>
      <span class='ocrx_word' id='word_1_3' title='bbox 300 200 340 250; x_wconf 88'><strong>年</strong></span>
      <span class='ocrx_word' id='word_1_4' title='bbox 400 200 440 250'> </span>
     </span>
    </p>
   </div>
  </div>
  <div class='ocr_page' id='page_2' title='bbox 0 0 1240 1754'>
   <p class='ocr_par' id='par_2_1'>
    <span class='ocrx_word' id='word_2_1' title='bbox 10 20 60 40'>原告</span>
    <span class='ocrx_word' id='word_2_2' title='bbox 80 10 160 50'>代理人</span>
    <span class='ocrx_word' id='word_2_3'>nobox</span>
   </p>
  </div>
 </body>
</html>`

func TestParse(t *testing.T) {
	doc, err := Parse([]byte(sample))
	require.NoError(t, err)

	assert.Equal(t, "receipt", doc.Title)
	assert.Equal(t, "ja", doc.Language)
	assert.Equal(t, "tesseract 5.3.0", doc.System)
	assert.Contains(t, doc.Metadata, "ocr-capabilities")
	require.Len(t, doc.Pages, 2)

	p1 := doc.Pages[0]
	assert.Equal(t, "page_1", p1.ID)
	assert.Equal(t, 1, p1.Number)
	assert.Equal(t, "p1.png", p1.ImageName)
	assert.Equal(t, receipt.NewBoundingBox(0, 0, 2480, 3508), p1.BBox)
	require.Len(t, p1.Lines, 2)
	assert.Equal(t, "line_1_2", p1.Lines[1].ID)
	assert.Equal(t, []receipt.Word{
		{Text: "令和", BBox: receipt.NewBoundingBox(100, 200, 200, 250), Confidence: 91},
		{Text: "年", BBox: receipt.NewBoundingBox(300, 200, 340, 250), Confidence: 88},
	}, p1.Lines[1].Words)

	p2 := doc.Pages[1]
	assert.Equal(t, 2, p2.Number)
	require.Len(t, p2.Lines, 1)
	assert.Equal(t, receipt.NewBoundingBox(10, 10, 160, 50), p2.Lines[0].BBox)
	assert.Len(t, p2.Lines[0].Words, 2)
}

func TestReceiptPagesAndText(t *testing.T) {
	doc, err := Parse([]byte(sample))
	require.NoError(t, err)

	pages := doc.ReceiptPages()
	require.Len(t, pages, 2)
	assert.Equal(t, 2480.0, pages[0].Width)
	assert.Equal(t, 3508.0, pages[0].Height)
	assert.Len(t, pages[0].Words, 3)
	assert.Equal(t, 2, pages[1].Number)

	assert.Equal(t, "受領書\n令和 年\n\n原告 代理人\n", doc.Text())
}

func TestParseLocatesReceipt(t *testing.T) {
	doc, err := Parse([]byte(sample))
	require.NoError(t, err)

	located, ok := receipt.New(receipt.DefaultConfig()).Locate(doc.ReceiptPages())
	require.True(t, ok)
	assert.Equal(t, 1, located.Page.Number)
}

func TestParseErrors(t *testing.T) {
	_, err := Parse([]byte("<html><body><p>no pages</p></body></html>"))
	assert.ErrorContains(t, err, "no ocr_page")
}

func TestParseLatin1(t *testing.T) {
	data := []byte("<html><head><meta http-equiv='Content-Type' content='text/html; charset=ISO-8859-1'></head>" +
		"<body><div class='ocr_page' title='bbox 0 0 100 100'>" +
		"<span class='ocrx_word' title='bbox 1 1 20 10'>Gr\xfc\xdfe</span></div></body></html>")
	doc, err := Parse(data)
	require.NoError(t, err)
	require.Len(t, doc.Pages, 1)
	assert.Equal(t, "Grüße", doc.Pages[0].Words()[0].Text)
}

func TestParseShiftJIS(t *testing.T) {
	word, err := japanese.ShiftJIS.NewEncoder().String("受領書")
	require.NoError(t, err)
	data := []byte("<html><head><meta http-equiv='Content-Type' content='text/html; charset=Shift_JIS'></head>" +
		"<body><div class='ocr_page' title='bbox 0 0 100 100'>" +
		"<span class='ocrx_word' title='bbox 1 1 20 10'>" + word + "</span></div></body></html>")
	doc, err := Parse(data)
	require.NoError(t, err)
	require.Len(t, doc.Pages, 1)
	assert.Equal(t, "受領書", doc.Pages[0].Words()[0].Text)
}

func TestParseUnknownCharset(t *testing.T) {
	data := []byte("<html><head><meta charset='x-made-up'></head>" +
		"<body><div class='ocr_page' title='bbox 0 0 100 100'>" +
		"<span class='ocrx_word' title='bbox 1 1 20 10'>受領書</span></div></body></html>")
	doc, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, "受領書", doc.Pages[0].Words()[0].Text)
}

func TestParseTitle(t *testing.T) {
	props := ParseTitle(`image "a b.png"; bbox 1 2 3 4;x_wconf 95; `)
	assert.Equal(t, []string{"1", "2", "3", "4"}, props["bbox"])
	assert.Equal(t, []string{"95"}, props["x_wconf"])
	assert.Len(t, props, 3)

	_, ok := parseBBox(ParseTitle("bbox 1 2 x 4"))
	assert.False(t, ok)
}

func TestDeclaredCharset(t *testing.T) {
	assert.Equal(t, "utf-8", declaredCharset([]byte(`<meta charset="UTF-8">`)))
	assert.Equal(t, "iso-8859-1", declaredCharset([]byte(`content='text/html; charset=ISO-8859-1'`)))
	assert.Equal(t, "", declaredCharset([]byte(`<html>`)))
}
