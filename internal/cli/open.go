package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

func newOpenCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "open <note-id>...",
		Short: "Start the TUI with one window per note",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]string, 0, len(args))
			for _, a := range args {
				if a = strings.TrimSpace(a); a != "" {
					ids = append(ids, a)
				}
			}
			return runTUI(cmd, app, ids)
		},
	}
}
