package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/dictionary-api/internal/auth"
)

func newUserCommand() *cobra.Command {
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "Manage API users",
	}
	userCmd.AddCommand(newUserCreateCommand())
	return userCmd
}

func newUserCreateCommand() *cobra.Command {
	var name, email string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user and print its API token",
		Long:  "Create a user and print its API token. Only the token hash is stored, so the token cannot be shown again.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := openDatabase(cfg)
			if err != nil {
				return err
			}
			defer func() {
				_ = db.Close()
			}()

			token := auth.GenerateToken()
			user, err := auth.NewDBUserRepository(db).Create(cmd.Context(), name, email, auth.HashToken(token))
			if err != nil {
				return fmt.Errorf("users.Create() > %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Created user %d <%s>\n", user.ID, user.Email)
			fmt.Fprintf(out, "Token: %s\n", token)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "user name")
	cmd.Flags().StringVar(&email, "email", "", "user email")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}
