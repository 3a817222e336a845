package pdfmark

// Mapper converts pixel coordinates of a rasterized page into PDF document
// space: points, origin at the bottom-left corner.
type Mapper struct {
	ImageWidth  float64 // pixels
	ImageHeight float64 // pixels
	PageWidth   float64 // points
	PageHeight  float64 // points
}

// Point maps a pixel position to document space.
func (m Mapper) Point(px, py float64) (float64, float64) {
	return MapPoint(px, py, m.ImageWidth, m.ImageHeight, m.PageWidth, m.PageHeight)
}

// MapPoint scales (px, py) from an imgW x imgH image to a pageW x pageH page and
// flips the vertical axis. A zero image dimension leaves that axis unscaled.
func MapPoint(px, py, imgW, imgH, pageW, pageH float64) (float64, float64) {
	if imgW == 0 {
		imgW = pageW
	}
	if imgH == 0 {
		imgH = pageH
	}
	x, y := normalizeCoords(px, py, imgW, imgH, pageW, pageH)
	return x, pageH - y
}

// normalizeCoords rescales pixel coords to page coords, keeping the top-left origin.
func normalizeCoords(x, y, imgW, imgH, pageW, pageH float64) (float64, float64) {
	nx := (x / imgW) * pageW
	ny := (y / imgH) * pageH
	return nx, ny
}
