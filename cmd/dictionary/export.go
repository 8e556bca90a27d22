package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/dictionary-api/internal/datasync"
	"github.com/at-ishikawa/dictionary-api/internal/dictionary"
)

func newExportCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export archived word documents to YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if output == "" {
				output = cfg.Outputs.ExportDirectory
			}
			db, err := openDatabase(cfg)
			if err != nil {
				return err
			}
			defer func() {
				_ = db.Close()
			}()

			path, count, err := datasync.NewExporter(dictionary.NewDBDocumentArchive(db), output).Export(cmd.Context())
			if err != nil {
				return fmt.Errorf("exporter.Export() > %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d documents to %s\n", count, path)
			return nil
		},
	}
	cmd.Flags().StringVar(&output, "output", "", "output directory (defaults to outputs.export_directory)")
	return cmd
}

func newRestoreCommand() *cobra.Command {
	var input string
	var opts datasync.RestoreOptions

	cmd := &cobra.Command{
		Use:   "restore",
		Short: "Restore archived word documents from an exported YAML file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(input)
			if err != nil {
				return fmt.Errorf("os.Open(%s) > %w", input, err)
			}
			defer func() {
				_ = f.Close()
			}()
			docs, err := datasync.ReadDocuments(f)
			if err != nil {
				return fmt.Errorf("datasync.ReadDocuments() > %w", err)
			}

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

			out := cmd.OutOrStdout()
			result, err := datasync.NewRestorer(dictionary.NewDBDocumentArchive(db), out).Restore(cmd.Context(), docs, opts)
			if err != nil {
				return fmt.Errorf("restorer.Restore() > %w", err)
			}
			fmt.Fprintln(out, "\nRestore Summary:")
			if opts.DryRun {
				fmt.Fprintln(out, "  (dry-run mode, no changes made)")
			}
			fmt.Fprintf(out, "  Word documents: %d new, %d skipped, %d updated\n", result.New, result.Skipped, result.Updated)
			return nil
		},
	}
	cmd.Flags().StringVar(&input, "input", "", "exported word_documents.yml")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Preview changes without modifying the database")
	cmd.Flags().BoolVar(&opts.UpdateExisting, "update-existing", false, "Update existing records with new data")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}
