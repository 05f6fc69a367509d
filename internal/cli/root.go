package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"notewin/internal/format"
	"notewin/internal/logging"
	"notewin/internal/store"
	"notewin/internal/tui"

	"github.com/spf13/cobra"
)

type App struct {
	Dir        string
	Workspace  string
	ActorID    string
	PrettyJSON bool
	Format     string
	LogLevel   string

	log *slog.Logger
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "notewin",
		Short:        "notewin: windowed note viewer (TUI) + scriptable note CLI",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  notewin

  # Open notes in windows (shortcut: notewin <note-id>)
  notewin open note-4k2q7z note-x81fda

  # Scriptable commands
  notewin notes create --title "Groceries" --access public
  notewin notes list --format text
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(cmd, app, nil)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		level, err := logging.ParseLevel(app.LogLevel)
		if err != nil {
			return writeErr(cmd, err)
		}
		app.log = logging.New(cmd.ErrOrStderr(), level).With("component", "cli")
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("NOTEWIN_DIR", ""), "Path to store dir (overrides workspace resolution)")
	cmd.PersistentFlags().StringVar(&app.Workspace, "workspace", envOr("NOTEWIN_WORKSPACE", ""), "Workspace name (default: 'default')")
	cmd.PersistentFlags().StringVar(&app.ActorID, "actor", envOr("NOTEWIN_ACTOR", ""), "Actor id (overrides currentActorId in config.json)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("NOTEWIN_FORMAT", "json"), "Output format (json|text)")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", envOr("NOTEWIN_LOG_LEVEL", "warn"), "Log level (debug|info|warn|error)")

	cmd.AddCommand(newOpenCmd(app))
	cmd.AddCommand(newNotesCmd(app))
	cmd.AddCommand(newEventsCmd(app))
	cmd.AddCommand(newIdentityCmd(app))

	return cmd
}

func runTUI(cmd *cobra.Command, app *App, noteIDs []string) error {
	s, err := loadStore(app)
	if err != nil {
		return writeErr(cmd, err)
	}
	actorID, err := currentActorID(app)
	if err != nil {
		return writeErr(cmd, err)
	}
	cfg, err := store.LoadConfig()
	if err != nil {
		return writeErr(cmd, err)
	}
	cfgDir, err := store.ConfigDir()
	if err != nil {
		return writeErr(cmd, err)
	}
	level, _ := logging.ParseLevel(app.LogLevel)
	logger, closer, err := logging.OpenFile(cfgDir, level)
	if err != nil {
		return writeErr(cmd, err)
	}
	defer closer.Close()

	var theme string
	if cfg.TUI != nil {
		theme = cfg.TUI.Theme
	}
	logger.Info("tui start", "dir", s.Dir, "actor", actorID, "windows", len(noteIDs))
	return tui.Run(tui.Options{
		Store:         s,
		ActorID:       actorID,
		OpenNoteIDs:   noteIDs,
		TitleAutosave: cfg.TitleAutosave(),
		Theme:         theme,
		Logger:        logger,
	})
}

func loadStore(app *App) (store.Store, error) {
	dir := app.Dir
	if dir == "" {
		// Workspace-first:
		// 1) --workspace
		// 2) ~/.notewin/config.json currentWorkspace
		// 3) default workspace ("default")
		name := app.Workspace
		if name == "" {
			if cfg, err := store.LoadConfig(); err == nil && cfg.CurrentWorkspace != "" {
				name = cfg.CurrentWorkspace
			} else {
				name = "default"
			}
		}
		d, err := store.WorkspaceDir(name)
		if err != nil {
			return store.Store{}, err
		}
		app.Workspace = name
		app.Dir = d
		dir = d
	}
	s := store.Store{Dir: dir}
	if err := s.Ensure(); err != nil {
		return store.Store{}, err
	}
	return s, nil
}

func currentActorID(app *App) (string, error) {
	if id := strings.TrimSpace(app.ActorID); id != "" {
		return id, nil
	}
	cfg, err := store.LoadConfig()
	if err != nil {
		return "", err
	}
	if cfg.CurrentActorID != "" {
		return cfg.CurrentActorID, nil
	}
	return "", errors.New("no current actor; run `notewin identity use <actor-id>` (or pass --actor)")
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
