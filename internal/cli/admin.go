package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCreateAdminCmd(env *environment) *cobra.Command {
	var name, email, password string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin user unless one with the email exists",
		Example: `  agentlistsctl create-admin --name "Ops" --email ops@example.com --password changeme`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			modules, _, closeAll, err := env.openModules(ctx, true)
			if err != nil {
				return err
			}
			defer closeAll()

			if err := modules.Migrate(ctx); err != nil {
				return err
			}
			user, created, err := modules.Auth.Commands.EnsureAdmin(ctx, name, email, password)
			if err != nil {
				return fmt.Errorf("create admin: %w", err)
			}
			if created {
				fmt.Fprintf(cmd.OutOrStdout(), "created admin %s (%s)\n", user.Email, user.ID)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "admin %s already exists (%s)\n", user.Email, user.ID)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "Administrator", "display name")
	cmd.Flags().StringVar(&email, "email", "", "login email")
	cmd.Flags().StringVar(&password, "password", "", "login password, at least 6 characters")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newMigrateCmd(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database tables of every module",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			modules, _, closeAll, err := env.openModules(ctx, true)
			if err != nil {
				return err
			}
			defer closeAll()

			if err := modules.Migrate(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
}
