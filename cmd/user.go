package main

import (
	"fmt"

	"travel-booking/internal/handler/middleware"
	"travel-booking/internal/infra/db"
	"travel-booking/internal/infra/query"
	"travel-booking/internal/infra/uow"
	"travel-booking/internal/pkg/config"
	"travel-booking/internal/usecase/commands"

	"github.com/spf13/cobra"
)

func newUserCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage accounts",
	}
	cmd.AddCommand(newUserCreateCommand())
	return cmd
}

// Registration has no public endpoint; owners and admins are provisioned here.
func newUserCreateCommand() *cobra.Command {
	var in commands.NewUserInput

	cmd := &cobra.Command{
		Use:          "create",
		Short:        "Create an account",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			middleware.NewLogger(cfg.Log)

			pool, cleanup, err := db.Connect(cmd.Context(), cfg.DB)
			if err != nil {
				return err
			}
			defer cleanup()

			users := commands.NewUserCommands(uow.NewPostgresUoW(pool, query.New()))
			id, err := users.CreateUser(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Email, "email", "", "login email")
	cmd.Flags().StringVar(&in.Name, "name", "", "display name")
	cmd.Flags().StringVar(&in.Password, "password", "", "initial password")
	cmd.Flags().StringVar(&in.Role, "role", "guest", "guest, owner or admin")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}
