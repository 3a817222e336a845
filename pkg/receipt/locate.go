package receipt

import (
	"math"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/gardar/faxreceipt/pkg/textnorm"
)

// PageScore is the receipt likelihood of one page and the terms it was built from.
type PageScore struct {
	Label               int `json:"label"`
	Era                 int `json:"era"`
	Agent               int `json:"agent"`
	LongPagePenalty     int `json:"longPagePenalty"`
	VeryLongPagePenalty int `json:"veryLongPagePenalty"`
	Total               int `json:"total"`
}

// ScorePage scores words as a candidate receipt page.
func ScorePage(words []Word, cfg Config) PageScore {
	var s PageScore
	if _, ok := findToken(words, cfg.Label, cfg.SplitTolerance); ok {
		s.Label = cfg.LabelScore
	}
	if _, ok := findToken(words, cfg.EraToken, cfg.SplitTolerance); ok {
		s.Era = cfg.EraScore
	}
	if _, ok := findToken(words, cfg.AgentToken, cfg.SplitTolerance); ok {
		s.Agent = cfg.AgentScore
	}
	if len(words) > cfg.LongPage {
		s.LongPagePenalty = -cfg.LongPagePenalty
	}
	if len(words) > cfg.VeryLongPage {
		s.VeryLongPagePenalty = -cfg.LongPagePenalty
	}
	s.Total = s.Label + s.Era + s.Agent + s.LongPagePenalty + s.VeryLongPagePenalty
	return s
}

// ScanOrder returns the page indices of an n-page document in scan order:
// first, last, then the second through the second-to-last.
func ScanOrder(n int) []int {
	if n <= 0 {
		return nil
	}
	order := []int{0}
	if n > 1 {
		order = append(order, n-1)
	}
	for i := 1; i < n-1; i++ {
		order = append(order, i)
	}
	return order
}

// Located is the outcome of a page scan.
type Located struct {
	Index   int       `json:"index"` // position of Page in the scanned slice
	Page    Page      `json:"page"`
	Score   PageScore `json:"score"`
	Visited []int     `json:"visited"` // indices scored, in scan order
}

// Locate picks the receipt page of pages. A single page is returned without
// scanning. Otherwise the first page in scan order that reaches the confident
// score wins; failing that, the best score seen, earliest in scan order on ties.
// ok is false only when pages is empty.
func (f *Finder) Locate(pages []Page) (Located, bool) {
	switch len(pages) {
	case 0:
		return Located{}, false
	case 1:
		return Located{Index: 0, Page: pages[0], Visited: []int{0}}, true
	}

	best := Located{Index: -1}
	bestTotal := math.MinInt
	for _, i := range ScanOrder(len(pages)) {
		score := ScorePage(pages[i].Words, f.cfg)
		best.Visited = append(best.Visited, i)
		f.log.WithFields(logrus.Fields{
			"page":  pages[i].Number,
			"index": i,
			"score": score.Total,
			"label": score.Label,
			"era":   score.Era,
			"agent": score.Agent,
			"words": len(pages[i].Words),
		}).Debug("scored receipt page candidate")

		if score.Total > bestTotal {
			bestTotal = score.Total
			best.Index, best.Page, best.Score = i, pages[i], score
		}
		if score.Total >= f.cfg.ConfidentScore {
			break
		}
	}
	return best, true
}

// findToken locates token on a page: inside a single word first, else as a run
// of words on one line whose texts spell the token left to right.
func findToken(words []Word, token string, tol float64) (BoundingBox, bool) {
	if token == "" {
		return BoundingBox{}, false
	}
	for _, w := range words {
		if strings.Contains(cleanText(w.Text), token) {
			return w.BBox, true
		}
	}
	for i, w := range words {
		t := cleanText(w.Text)
		if t == "" || !strings.HasPrefix(token, t) {
			continue
		}
		box, rest, prev := w.BBox, strings.TrimPrefix(token, t), words[i]
		for rest != "" {
			next, ok := nextPiece(words, prev, rest, tol)
			if !ok {
				break
			}
			nt := cleanText(next.Text)
			if strings.HasPrefix(nt, rest) {
				rest = ""
			} else {
				rest = strings.TrimPrefix(rest, nt)
			}
			box, prev = box.union(next.BBox), next
		}
		if rest == "" {
			return box, true
		}
	}
	return BoundingBox{}, false
}

// nextPiece returns the nearest word right of prev, on its line, that continues rest.
func nextPiece(words []Word, prev Word, rest string, tol float64) (Word, bool) {
	var best Word
	found := false
	for _, w := range words {
		t := cleanText(w.Text)
		if t == "" || w.BBox.X1 <= prev.BBox.X1 {
			continue
		}
		if math.Abs(w.BBox.CenterY()-prev.BBox.CenterY()) > tol {
			continue
		}
		if !strings.HasPrefix(rest, t) && !strings.HasPrefix(t, rest) {
			continue
		}
		if !found || w.BBox.X1 < best.BBox.X1 {
			best, found = w, true
		}
	}
	return best, found
}

func cleanText(s string) string {
	return textnorm.StripSpaces(s)
}
