package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ruofeng/sitegen"
)

func newServeCmd(c *cli) *cobra.Command {
	var (
		addr string
		dev  bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the site over HTTP",
		Long: `Serve the site with the same handlers the build uses. Posts are reloaded
from disk when the post cache expires and preview images are rendered on
demand.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			app, err := c.newApp(func(cfg *sitegen.SiteConfig) {
				if addr != "" {
					cfg.Addr = addr
				}
				if dev {
					cfg.Dev = true
				}
			})
			if err != nil {
				return err
			}
			defer app.Close()
			return app.Start(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides the config)")
	cmd.Flags().BoolVar(&dev, "dev", false, "include scheduled posts")
	return cmd
}
