package format

import (
	"bytes"
	"strings"
	"testing"
)

type testTable [][]string

func (t testTable) Header() []string { return []string{"ID", "TITLE"} }
func (t testTable) Rows() [][]string { return t }

func TestWrite_JSONEnvelope(t *testing.T) {
	var b bytes.Buffer
	if err := Write(&b, map[string]any{"data": "x"}, "", false); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got := strings.TrimSpace(b.String()); got != `{"data":"x"}` {
		t.Fatalf("unexpected json: %s", got)
	}
}

func TestWrite_TextTableUnwrapsEnvelope(t *testing.T) {
	var b bytes.Buffer
	v := map[string]any{"data": testTable{{"note-abc", "Groceries"}, {"note-defghi", "Plan"}}}
	if err := Write(&b, v, "text", false); err != nil {
		t.Fatalf("write: %v", err)
	}
	lines := strings.Split(strings.TrimRight(b.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %q", b.String())
	}
	if strings.Index(lines[1], "Groceries") != strings.Index(lines[2], "Plan") {
		t.Fatalf("expected aligned columns:\n%s", b.String())
	}
}

func TestWrite_UnknownFormat(t *testing.T) {
	if err := Write(&bytes.Buffer{}, 1, "edn", false); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}
