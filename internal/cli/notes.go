package cli

import (
	"errors"
	"io"
	"strings"

	"notewin/internal/model"
	"notewin/internal/store"

	"github.com/spf13/cobra"
)

func newNotesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notes",
		Short: "Create, inspect and change notes",
	}

	cmd.AddCommand(newNotesCreateCmd(app))
	cmd.AddCommand(newNotesListCmd(app))
	cmd.AddCommand(newNotesShowCmd(app))
	cmd.AddCommand(newNotesTitleCmd(app))
	cmd.AddCommand(newNotesBodyCmd(app))
	cmd.AddCommand(newNotesAccessCmd(app))
	cmd.AddCommand(newNotesShareCmd(app))
	cmd.AddCommand(newNotesRmCmd(app))

	return cmd
}

// noteEnv resolves the store and the acting identity for a note command.
func noteEnv(app *App) (store.Store, string, error) {
	s, err := loadStore(app)
	if err != nil {
		return store.Store{}, "", err
	}
	actorID, err := currentActorID(app)
	if err != nil {
		return store.Store{}, "", err
	}
	return s, actorID, nil
}

func newNotesCreateCmd(app *App) *cobra.Command {
	var title, body, access string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a note owned by the current actor",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, actorID, err := noteEnv(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			a, ok := model.ParseAccess(access)
			if !ok {
				return writeErr(cmd, store.ErrInvalidAccess)
			}
			v, err := s.CreateNote(cmd.Context(), actorID, title, body, a)
			if err != nil {
				return writeErr(cmd, err)
			}
			app.log.Info("note created", "note", v.ID, "actor", actorID)
			return writeOut(cmd, app, map[string]any{"data": noteDetail(v)})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Note title")
	cmd.Flags().StringVar(&body, "body", "", "Note body (markdown)")
	cmd.Flags().StringVar(&access, "access", string(model.AccessAdmin), "Access level (admin|public)")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func newNotesListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List notes visible to the current actor (most recently updated first)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, actorID, err := noteEnv(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			notes, err := s.ListNotes(cmd.Context(), actorID)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": noteTable(notes)})
		},
	}
}

func newNotesShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <note-id>",
		Short: "Show a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, actorID, err := noteEnv(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			id := strings.TrimSpace(args[0])
			v, err := s.FetchNote(cmd.Context(), actorID, id)
			if err != nil {
				return writeErr(cmd, noteErr(err, actorID, "view", id))
			}
			return writeOut(cmd, app, map[string]any{"data": noteDetail(v)})
		},
	}
}

func newNotesTitleCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "title <note-id> <title>",
		Short: "Set a note's title",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, actorID, err := noteEnv(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			id := strings.TrimSpace(args[0])
			v, err := s.UpdateNoteTitle(cmd.Context(), actorID, id, args[1])
			if err != nil {
				return writeErr(cmd, noteErr(err, actorID, "edit", id))
			}
			return writeOut(cmd, app, map[string]any{"data": noteDetail(v)})
		},
	}
}

func newNotesBodyCmd(app *App) *cobra.Command {
	var fromStdin bool

	cmd := &cobra.Command{
		Use:   "body <note-id> [<body>]",
		Short: "Set a note's body",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, actorID, err := noteEnv(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			id := strings.TrimSpace(args[0])
			var body string
			switch {
			case fromStdin:
				b, err := readAll(cmd)
				if err != nil {
					return writeErr(cmd, err)
				}
				body = b
			case len(args) == 2:
				body = args[1]
			default:
				return writeErr(cmd, errors.New("missing body (pass it as an argument or use --stdin)"))
			}
			v, err := s.UpdateNoteBody(cmd.Context(), actorID, id, body)
			if err != nil {
				return writeErr(cmd, noteErr(err, actorID, "edit", id))
			}
			return writeOut(cmd, app, map[string]any{"data": noteDetail(v)})
		},
	}
	cmd.Flags().BoolVar(&fromStdin, "stdin", false, "Read the body from stdin")
	return cmd
}

func newNotesAccessCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:       "access <note-id> admin|public",
		Short:     "Change a note's access level",
		Args:      cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, actorID, err := noteEnv(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			id := strings.TrimSpace(args[0])
			a, ok := model.ParseAccess(args[1])
			if !ok {
				return writeErr(cmd, store.ErrInvalidAccess)
			}
			v, err := s.UpdateNoteAccess(cmd.Context(), actorID, id, a)
			if err != nil {
				return writeErr(cmd, noteErr(err, actorID, "change access of", id))
			}
			return writeOut(cmd, app, map[string]any{"data": noteDetail(v)})
		},
	}
}

func newNotesShareCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "share <note-id>",
		Short: "Share a public note (records a share event)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, actorID, err := noteEnv(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			id := strings.TrimSpace(args[0])
			if err := s.ShareNote(cmd.Context(), actorID, id); err != nil {
				return writeErr(cmd, noteErr(err, actorID, "share", id))
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"id": id, "shared": true}})
		},
	}
}

func newNotesRmCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <note-id>",
		Short: "Delete a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, actorID, err := noteEnv(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			id := strings.TrimSpace(args[0])
			if err := s.DeleteNote(cmd.Context(), actorID, id); err != nil {
				return writeErr(cmd, noteErr(err, actorID, "delete", id))
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"id": id, "deleted": true}})
		},
	}
}

func readAll(cmd *cobra.Command) (string, error) {
	b, err := io.ReadAll(cmd.InOrStdin())
	return string(b), err
}
