package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/dictionary-api/internal/database"
	"github.com/at-ishikawa/dictionary-api/schemas"
)

func newMigrateCommand() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migration commands",
	}
	migrateCmd.AddCommand(
		newMigrateDirectionCommand(database.Up, "Apply all pending migrations"),
		newMigrateDirectionCommand(database.Down, "Roll back every applied migration"),
	)
	return migrateCmd
}

func newMigrateDirectionCommand(direction database.Direction, short string) *cobra.Command {
	return &cobra.Command{
		Use:   string(direction),
		Short: short,
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

			if err := database.Migrate(db, schemas.Migrations, schemas.MigrationsDir, direction); err != nil {
				return fmt.Errorf("database.Migrate(%s) > %w", direction, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Migrated %s\n", direction)
			return nil
		},
	}
}
