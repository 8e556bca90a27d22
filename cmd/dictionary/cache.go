package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newCacheCommand() *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the response cache",
	}
	cacheCmd.AddCommand(newCacheEvictCommand())
	return cacheCmd
}

func newCacheEvictCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "evict <word>",
		Short: "Drop the cached provider document for a word",
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

			word := strings.ToLower(args[0])
			if err := lookups.Evict(cmd.Context(), word); err != nil {
				return fmt.Errorf("lookups.Evict(%s) > %w", word, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Evicted %q from the %s cache\n", word, cfg.Cache.Backend)
			return nil
		},
	}
}
