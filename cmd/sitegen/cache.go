package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ruofeng/sitegen/imagecache"
)

func newCacheCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or prune the preview image cache",
	}

	open := func() (*imagecache.SQLite, error) {
		cfg, err := c.loadConfig()
		if err != nil {
			return nil, err
		}
		if cfg.CachePath == "-" {
			return nil, errors.New("image cache is disabled (cache_path = \"-\")")
		}
		return imagecache.OpenSQLite(cfg.CachePath)
	}

	stats := &cobra.Command{
		Use:   "stats",
		Short: "Print the number of cached images",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open()
			if err != nil {
				return err
			}
			defer s.Close()
			n, err := s.Count(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d images\n", n)
			return nil
		},
	}

	var olderThan time.Duration
	prune := &cobra.Command{
		Use:   "prune",
		Short: "Delete images rendered before --older-than",
		Long: `Delete cached images older than the given age. Keys change whenever a post
or the font changes, so old entries are usually unreachable.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open()
			if err != nil {
				return err
			}
			defer s.Close()
			n, err := s.Prune(cmd.Context(), time.Now().Add(-olderThan))
			if err != nil {
				return err
			}
			c.logger.Info("pruned image cache", "removed", n)
			return nil
		},
	}
	prune.Flags().DurationVar(&olderThan, "older-than", 30*24*time.Hour, "minimum age of removed entries")

	cmd.AddCommand(stats, prune)
	return cmd
}
