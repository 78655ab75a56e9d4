package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ruofeng/sitegen/content"
)

func newOGCmd(c *cli) *cobra.Command {
	var (
		out string
		svg bool
	)
	cmd := &cobra.Command{
		Use:   "og [slug]",
		Short: "Render a preview image",
		Long: `Render the preview image of the post with the given slug, or of the site
when no slug is given. Drafts and scheduled posts can be rendered too.

Examples:
  sitegen og                     # Site image to og.png
  sitegen og hello-world --svg   # Vector stage to hello-world.svg
  sitegen og hello-world -o -    # PNG to stdout`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.newApp(nil)
			if err != nil {
				return err
			}
			defer app.Close()

			name := "og"
			var data []byte
			if len(args) == 0 {
				if svg {
					data, err = app.Generator.SiteSVG()
				} else {
					data, err = app.Generator.ForSite(cmd.Context())
				}
			} else {
				posts, lerr := app.Posts.All()
				if lerr != nil {
					return lerr
				}
				post, ferr := content.Find(posts, args[0])
				if ferr != nil {
					return fmt.Errorf("post %q: %w", args[0], ferr)
				}
				name = post.Slug
				if svg {
					data, err = app.Generator.PostSVG(post)
				} else {
					data, err = app.Generator.ForPost(cmd.Context(), post)
				}
			}
			if err != nil {
				return err
			}

			if out == "-" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if out == "" {
				out = name + ".png"
				if svg {
					out = name + ".svg"
				}
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return err
			}
			c.logger.Info("wrote", "file", out, "bytes", len(data))
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", `output file, "-" for stdout (default <slug>.png)`)
	cmd.Flags().BoolVar(&svg, "svg", false, "write the SVG instead of the PNG")
	return cmd
}
