package main

import (
	"os"
	"strings"

	"notewin/internal/cli"
	"notewin/internal/store"
)

// rewriteDirectNoteArgs makes `notewin <note-id>...` work like `notewin open <note-id>...`.
//
// Cobra treats the first non-flag token as a subcommand, so argv is rewritten before
// parsing. Persistent flags may come first (`notewin --dir ... note-x`), so this looks
// for the first positional token, not just argv[1].
func rewriteDirectNoteArgs(argv []string) []string {
	if len(argv) < 2 {
		return argv
	}

	// Flags we don't recognize are skipped without skipping a value, so a note id is
	// never consumed by accident.
	valueFlags := map[string]bool{
		"--dir":       true,
		"--workspace": true,
		"--actor":     true,
		"--format":    true,
		"--log-level": true,
	}
	boolFlags := map[string]bool{
		"--pretty": true,
	}

	insertOpen := func(at int) []string {
		out := make([]string, 0, len(argv)+1)
		out = append(out, argv[:at]...)
		out = append(out, "open")
		return append(out, argv[at:]...)
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			if i+1 < len(argv) && store.IsNoteID(argv[i+1]) {
				return insertOpen(i + 1)
			}
			return argv
		}

		if strings.HasPrefix(a, "-") {
			switch {
			case strings.Contains(a, "="), boolFlags[a]:
			case valueFlags[a]:
				i++
			}
			continue
		}

		if store.IsNoteID(a) {
			return insertOpen(i)
		}
		return argv
	}

	return argv
}

func main() {
	os.Args = rewriteDirectNoteArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
