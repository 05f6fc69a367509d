package tui

import (
	"strings"

	xansi "github.com/charmbracelet/x/ansi"
)

// normalizePane forces s to exactly width columns (ANSI-aware) and height lines, so
// overlays land on predictable cells.
func normalizePane(s string, width, height int) string {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	lines := strings.Split(s, "\n")
	if height > 0 {
		if len(lines) > height {
			lines = lines[:height]
		}
		for len(lines) < height {
			lines = append(lines, "")
		}
	}
	for i, ln := range lines {
		lines[i] = fitLine(ln, width)
	}
	return strings.Join(lines, "\n")
}

func fitLine(ln string, width int) string {
	w := xansi.StringWidth(ln)
	if w > width {
		switch {
		case width <= 0:
			return ""
		case width == 1:
			ln = xansi.Cut(ln, 0, 1)
		default:
			ln = xansi.Cut(ln, 0, width-1) + "…"
		}
		w = xansi.StringWidth(ln)
	}
	if w < width {
		ln += strings.Repeat(" ", width-w)
	}
	return ln
}

// overlay draws fg on top of bg with fg's top-left corner at (x, y). Cells of bg outside
// fg are kept. bg is assumed normalized (see normalizePane); fg rows that fall outside
// bg are dropped.
func overlay(bg, fg string, x, y int) string {
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	bgLines := strings.Split(bg, "\n")
	for i, fgLine := range strings.Split(fg, "\n") {
		row := y + i
		if row >= len(bgLines) {
			break
		}
		base := bgLines[row]
		baseW := xansi.StringWidth(base)
		fgW := xansi.StringWidth(fgLine)
		if x >= baseW {
			continue
		}
		if x+fgW > baseW {
			fgLine = xansi.Cut(fgLine, 0, baseW-x)
			fgW = baseW - x
		}
		left := xansi.Cut(base, 0, x)
		right := xansi.Cut(base, x+fgW, baseW)
		bgLines[row] = left + fgLine + right
	}
	return strings.Join(bgLines, "\n")
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
