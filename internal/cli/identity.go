package cli

import (
	"strings"

	"notewin/internal/model"
	"notewin/internal/store"

	"github.com/spf13/cobra"
)

func newIdentityCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "identity",
		Short: "Manage the acting identity (actor)",
	}

	cmd.AddCommand(newIdentityUseCmd(app))
	cmd.AddCommand(newIdentityWhoamiCmd(app))

	return cmd
}

func newIdentityUseCmd(app *App) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "use <actor-id>",
		Short: "Register an actor and make it the current one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			id := strings.TrimSpace(args[0])
			if id == "" {
				return writeErr(cmd, store.ErrNoActor)
			}
			a, found, err := s.FindActor(cmd.Context(), id)
			if err != nil {
				return writeErr(cmd, err)
			}
			if !found || name != "" {
				a = model.Actor{ID: id, Name: name}
				if err := s.UpsertActor(cmd.Context(), a); err != nil {
					return writeErr(cmd, err)
				}
				if a, _, err = s.FindActor(cmd.Context(), id); err != nil {
					return writeErr(cmd, err)
				}
			}

			cfg, err := store.LoadConfig()
			if err != nil {
				return writeErr(cmd, err)
			}
			cfg.CurrentActorID = id
			if err := store.SaveConfig(cfg); err != nil {
				return writeErr(cmd, err)
			}
			app.ActorID = id
			app.log.Info("identity use", "actor", id)
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"currentActorId": id, "name": a.Name}})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	return cmd
}

func newIdentityWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current actor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			id, err := currentActorID(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			a, found, err := s.FindActor(cmd.Context(), id)
			if err != nil {
				return writeErr(cmd, err)
			}
			if !found {
				a = model.Actor{ID: id}
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"actorId": a.ID, "name": a.Name, "registered": found}})
		},
	}
}
