package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/dictionary-api/internal/dictionary"
	"github.com/at-ishikawa/dictionary-api/internal/importer"
)

func newImportCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import the word list into the database",
		Long:  "Import words from a words_dictionary.json file, downloading import.source_url unless --file is given.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
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

			imp := importer.New(dictionary.NewDBWordRepository(db), cfg.Import, importer.WithLogger(slog.Default()))
			defer func() {
				_ = imp.Close()
			}()

			var count int
			if file != "" {
				count, err = imp.ImportFile(ctx, file)
			} else {
				count, err = imp.ImportURL(ctx, cfg.Import.SourceURL)
			}
			if err != nil {
				return fmt.Errorf("importer.Import > %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d words\n", count)
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "local words_dictionary.json to import instead of downloading")
	return cmd
}
