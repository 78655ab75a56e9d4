package main

import (
	"errors"
	"io/fs"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ruofeng/sitegen"
)

// defaultConfigPath is read when --config is not given and the file exists.
const defaultConfigPath = "sitegen.toml"

type cli struct {
	configPath string
	verbose    bool
	logger     *log.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:   "sitegen",
		Short: "Static blog generator with rendered preview images",
		Long: `sitegen builds a static blog from a directory of Markdown posts, including a
1200x630 Open Graph image for the site and for every post.

Example usage:
  sitegen build                  # Write the site to dist/
  sitegen serve                  # Serve the site on :4321
  sitegen og hello-world         # Render one post's preview image
  sitegen redirects --derive     # Print the redirect table`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := log.InfoLevel
			if c.verbose {
				level = log.DebugLevel
			}
			c.logger = log.NewWithOptions(cmd.ErrOrStderr(), log.Options{
				ReportTimestamp: true,
				Level:           level,
			})
		},
	}

	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (default is ./sitegen.toml when present)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "verbose output")

	root.AddCommand(
		newBuildCmd(c),
		newServeCmd(c),
		newOGCmd(c),
		newRedirectsCmd(c),
		newCacheCmd(c),
		newVersionCmd(),
	)
	return root
}

func (c *cli) loadConfig() (sitegen.SiteConfig, error) {
	path := c.configPath
	if path == "" {
		if _, err := os.Stat(defaultConfigPath); err == nil {
			path = defaultConfigPath
		} else if !errors.Is(err, fs.ErrNotExist) {
			return sitegen.SiteConfig{}, err
		}
	}
	cfg, err := sitegen.LoadConfig(path)
	if err != nil {
		return cfg, err
	}
	if path != "" {
		c.logger.Debug("configuration loaded", "path", path, "site", cfg.Website, "content", cfg.ContentDir)
	}
	return cfg, nil
}

// newApp loads the configuration, lets mutate adjust it, and builds the App.
func (c *cli) newApp(mutate func(*sitegen.SiteConfig)) (*sitegen.App, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	if mutate != nil {
		mutate(&cfg)
	}
	return sitegen.New(cfg, sitegen.WithLogger(c.logger))
}
