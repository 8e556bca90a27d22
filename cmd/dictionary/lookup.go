package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/at-ishikawa/dictionary-api/internal/cache"
	"github.com/at-ishikawa/dictionary-api/internal/dictionary/rapidapi"
)

func newLookupCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <word>",
		Short: "Look up a word through the response cache",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			lookups, store, err := newLookupCache(cfg)
			if err != nil {
				return err
			}
			defer func() {
				_ = store.Close()
			}()

			doc, decoration, err := lookups.Lookup(cmd.Context(), strings.ToLower(args[0]))
			if err != nil {
				return fmt.Errorf("lookups.Lookup > %w", err)
			}
			response, err := rapidapi.Parse(doc)
			if err != nil {
				return fmt.Errorf("rapidapi.Parse > %w", err)
			}
			showResponse(cmd.OutOrStdout(), response, decoration)
			return nil
		},
	}
}

func showResponse(w io.Writer, response rapidapi.Response, decoration cache.Decoration) {
	bold := color.New(color.Bold)
	italic := color.New(color.Italic)

	header := bold.Sprint(response.Word)
	if response.Pronunciation.All != "" {
		header += " /" + response.Pronunciation.All + "/"
	}
	fmt.Fprintln(w, header)
	for i, result := range response.Results {
		line := fmt.Sprintf("%d: %s\t%s", i+1, italic.Sprintf("(%s)", result.PartOfSpeech), result.Definition)
		if len(result.Synonyms) > 0 {
			line += "\t" + strings.Join(result.Synonyms, ", ")
		}
		fmt.Fprintln(w, line)
	}

	status := color.GreenString(string(decoration.Status))
	if decoration.Status == cache.StatusMiss {
		status = color.YellowString(string(decoration.Status))
	}
	fmt.Fprintf(w, "[%s %s]\n", status, decoration.ResponseTime())
}
