package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ruofeng/sitegen"
)

func newBuildCmd(c *cli) *cobra.Command {
	var (
		out string
		dev bool
	)
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Write the static site",
		Long: `Render every page, feed, and preview image and write them to the output
directory, together with redirect pages and a copy of the public directory.

Examples:
  sitegen build                  # Write to dist/
  sitegen build -o public_html   # Write to public_html/`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			app, err := c.newApp(func(cfg *sitegen.SiteConfig) {
				if dev {
					cfg.Dev = true
				}
			})
			if err != nil {
				return err
			}
			defer app.Close()
			return app.Build(ctx, out)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "dist", "output directory")
	cmd.Flags().BoolVar(&dev, "dev", false, "include scheduled posts")
	return cmd
}
