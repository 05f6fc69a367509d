package tui

import (
	"strings"
	"testing"

	xansi "github.com/charmbracelet/x/ansi"
)

func TestNormalizePane_PadsAndTruncates(t *testing.T) {
	got := normalizePane("abc\nlong line here", 6, 3)
	lines := strings.Split(got, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	for i, ln := range lines {
		if w := xansi.StringWidth(ln); w != 6 {
			t.Fatalf("line %d: expected width 6, got %d (%q)", i, w, ln)
		}
	}
	if !strings.HasSuffix(lines[1], "…") {
		t.Fatalf("expected truncated line to end with ellipsis, got %q", lines[1])
	}
}

func TestOverlay_PlacesForegroundAtOffset(t *testing.T) {
	bg := normalizePane("", 8, 3)
	got := overlay(bg, "XY\nZW", 3, 1)
	lines := strings.Split(got, "\n")
	if lines[0] != "        " {
		t.Fatalf("expected first row untouched, got %q", lines[0])
	}
	if lines[1] != "   XY   " || lines[2] != "   ZW   " {
		t.Fatalf("unexpected overlay rows %q / %q", lines[1], lines[2])
	}
}

func TestOverlay_ClipsAtRightEdgeAndBottom(t *testing.T) {
	bg := normalizePane("", 5, 2)
	got := overlay(bg, "abcdef\nghijkl\nmnopqr", 2, 1)
	lines := strings.Split(got, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected background height kept, got %d lines", len(lines))
	}
	if lines[1] != "  abc" {
		t.Fatalf("expected clipped row, got %q", lines[1])
	}
}
