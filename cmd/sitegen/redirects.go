package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ruofeng/sitegen/redirects"
)

func newRedirectsCmd(c *cli) *cobra.Command {
	var derive bool
	cmd := &cobra.Command{
		Use:   "redirects",
		Short: "Print the redirect table",
		Long: `Print every redirect the site answers, sorted by source path. With
--derive, the dated paths of all published posts are included as well.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.newApp(nil)
			if err != nil {
				return err
			}
			defer app.Close()

			table := app.Redirects
			if derive {
				posts, err := app.PublishedPosts()
				if err != nil {
					return err
				}
				table = table.Merge(redirects.FromPosts(posts, app.Location()))
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			for _, e := range table.Entries() {
				fmt.Fprintf(w, "%s\t%s\n", e.From, e.To)
			}
			return w.Flush()
		},
	}
	cmd.Flags().BoolVar(&derive, "derive", false, "include /YYYY/MM/DD/<slug> paths of published posts")
	return cmd
}
