// Package scroll computes viewport offsets for a vertically laid out grid.
package scroll

// Clamp keeps off within [0, total-h].
func Clamp(off, h, total int) int {
	maxOff := total - h
	if maxOff < 0 {
		maxOff = 0
	}
	return clamp(off, 0, maxOff)
}

// Reveal returns the nearest offset that shows the rows [start,end]. A span
// that is already visible keeps the current offset. One row of context is
// kept above the span when there is room, so a group title stays visible
// when the first card row is revealed.
func Reveal(start, end, off, h, total int) int {
	if h <= 0 || total <= 0 {
		return 0
	}
	if start < 0 {
		start = 0
	}
	if end < start {
		end = start
	}
	if end >= total {
		end = total - 1
	}
	off = Clamp(off, h, total)

	if start >= off && end < off+h {
		return off
	}
	if start < off {
		return Clamp(start-1, h, total)
	}
	// Below the viewport: scroll just far enough to show the bottom edge,
	// unless the span is taller than the viewport.
	next := end - h + 1
	if next > start {
		next = start
	}
	return Clamp(next, h, total)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
