// Package richtext substitutes values into documents whose visible text is
// split into independently styled runs.
//
// A Block is one paragraph: an ordered list of Runs. A value may start in one
// run and end in another; Replace splices it without moving any styling
// boundary outside the match and without deleting runs.
package richtext

import "strings"

// Run is a fragment of text sharing one set of style attributes. Attrs is
// opaque and carried through unchanged.
type Run struct {
	Attrs string
	Text  string
}

// Block is an ordered list of runs forming one paragraph.
type Block struct {
	Runs []Run
}

// Text returns the concatenated text of the block.
func (b Block) Text() string {
	var sb strings.Builder
	for _, r := range b.Runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

// Replace substitutes the first occurrence of old in b with new. It returns b
// unchanged and false when old does not occur. Runs before and after the match
// keep their text; a run inside the match is emptied, never removed.
func Replace(b Block, old, new string) (Block, bool) {
	if old == "" {
		return b, false
	}
	start := strings.Index(b.Text(), old)
	if start < 0 {
		return b, false
	}
	return replaceAt(b, start, start+len(old), new), true
}

// ReplaceAll substitutes every non-overlapping occurrence of old, left to
// right, and returns the number of substitutions.
func ReplaceAll(b Block, old, new string) (Block, int) {
	if old == "" {
		return b, 0
	}
	count := 0
	for pos := 0; ; {
		i := strings.Index(b.Text()[pos:], old)
		if i < 0 {
			return b, count
		}
		start := pos + i
		b = replaceAt(b, start, start+len(old), new)
		pos = start + len(new)
		count++
	}
}

// replaceAt splices new over the byte span [start, end) of the block text.
func replaceAt(b Block, start, end int, new string) Block {
	out := Block{Runs: make([]Run, len(b.Runs))}
	copy(out.Runs, b.Runs)

	first, last := -1, -1
	firstStart, lastStart := 0, 0
	offset := 0
	for i, r := range b.Runs {
		runStart, runEnd := offset, offset+len(r.Text)
		offset = runEnd
		if runEnd <= start || runStart >= end {
			continue
		}
		if first < 0 {
			first, firstStart = i, runStart
		}
		last, lastStart = i, runStart
	}

	if first == last {
		t := b.Runs[first].Text
		out.Runs[first].Text = t[:start-firstStart] + new + t[end-firstStart:]
		return out
	}

	out.Runs[first].Text = b.Runs[first].Text[:start-firstStart] + new
	for i := first + 1; i < last; i++ {
		out.Runs[i].Text = ""
	}
	out.Runs[last].Text = b.Runs[last].Text[end-lastStart:]
	return out
}
