package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// Table is implemented by values with a columnar text rendering.
type Table interface {
	Header() []string
	Rows() [][]string
}

// Write writes output in the requested format.
//
// Supported formats:
// - json (default)
// - text
func Write(w io.Writer, v any, format string, pretty bool) error {
	switch format {
	case "", "json":
		return WriteJSON(w, v, pretty)
	case "text":
		return WriteText(w, v)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// WriteJSON writes strict JSON output for CLI commands.
func WriteJSON(w io.Writer, v any, pretty bool) error {
	var b []byte
	var err error
	if pretty {
		b, err = json.MarshalIndent(v, "", "  ")
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(b))
	return err
}

// WriteText writes a human-readable rendering. The {"data": ...} envelope is unwrapped;
// Tables are column-aligned, strings are printed as is, anything else falls back to
// indented JSON.
func WriteText(w io.Writer, v any) error {
	if env, ok := v.(map[string]any); ok {
		if data, ok := env["data"]; ok && len(env) == 1 {
			v = data
		}
	}
	switch t := v.(type) {
	case Table:
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		if h := t.Header(); len(h) > 0 {
			fmt.Fprintln(tw, strings.Join(h, "\t"))
		}
		for _, r := range t.Rows() {
			fmt.Fprintln(tw, strings.Join(r, "\t"))
		}
		return tw.Flush()
	case string:
		_, err := fmt.Fprintln(w, t)
		return err
	default:
		return WriteJSON(w, v, true)
	}
}
