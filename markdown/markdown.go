// Package markdown renders post bodies to HTML with goldmark. On top of
// GitHub-flavoured Markdown it builds a collapsible table of contents under a
// "Table of contents" heading and highlights fenced code with chroma,
// honouring filename captions and [!code ...] line notations.
package markdown

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
)

// Heading is a section heading collected while rendering.
type Heading struct {
	Level int
	ID    string
	Text  string
}

// Result is a rendered document.
type Result struct {
	HTML     string
	Headings []Heading
}

type config struct {
	tocHeading string
	tocMin     int
	tocMax     int
	lightStyle string
	darkStyle  string
}

// Option configures a Renderer.
type Option func(*config)

// WithThemes sets the chroma styles used for the light and dark stylesheets.
func WithThemes(light, dark string) Option {
	return func(c *config) {
		if light != "" {
			c.lightStyle = light
		}
		if dark != "" {
			c.darkStyle = dark
		}
	}
}

// WithTOCHeading sets the heading text that receives the table of contents
// (default "Table of contents", matched case-insensitively).
func WithTOCHeading(text string) Option {
	return func(c *config) { c.tocHeading = text }
}

// WithTOCDepth limits the heading levels listed in the table of contents.
func WithTOCDepth(min, max int) Option {
	return func(c *config) {
		c.tocMin, c.tocMax = min, max
	}
}

// Renderer converts Markdown to HTML. It is safe for concurrent use.
type Renderer struct {
	cfg config
	md  goldmark.Markdown
}

// New returns a Renderer.
func New(opts ...Option) *Renderer {
	cfg := config{
		tocHeading: "Table of contents",
		tocMin:     2,
		tocMax:     4,
		lightStyle: "rose-pine-dawn",
		darkStyle:  "nord",
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Footnote),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
			parser.WithASTTransformers(
				util.Prioritized(&tocTransformer{cfg: &cfg}, 100),
			),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
			renderer.WithNodeRenderers(
				util.Prioritized(&codeRenderer{}, 200),
				util.Prioritized(&detailsRenderer{}, 500),
			),
		),
	)
	return &Renderer{cfg: cfg, md: md}
}

// Render converts src to HTML and returns the collected headings.
func (r *Renderer) Render(src []byte) (Result, error) {
	ctx := parser.NewContext()
	var buf bytes.Buffer
	if err := r.md.Convert(src, &buf, parser.WithContext(ctx)); err != nil {
		return Result{}, fmt.Errorf("markdown: convert: %w", err)
	}
	headings, _ := ctx.Get(headingsKey).([]Heading)
	return Result{HTML: buf.String(), Headings: headings}, nil
}

// Markdown returns a templ.Component that renders md as HTML. Rendering
// errors are returned from Render.
func (r *Renderer) Markdown(md string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		res, err := r.Render([]byte(md))
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, res.HTML)
		return err
	})
}

// CSS returns the highlighting stylesheet: the light style at the top level
// and the dark style nested under html[data-theme="dark"].
func (r *Renderer) CSS() (string, error) {
	var b strings.Builder
	if err := writeStyleCSS(&b, r.cfg.lightStyle); err != nil {
		return "", err
	}
	b.WriteString("html[data-theme=\"dark\"] {\n")
	if err := writeStyleCSS(&b, r.cfg.darkStyle); err != nil {
		return "", err
	}
	b.WriteString("}\n")
	b.WriteString(lineCSS)
	return b.String(), nil
}

const lineCSS = `.code-block .line { display: inline-block; min-width: 100%; }
.code-block .line.highlighted { background-color: rgba(101, 117, 133, 0.16); }
.code-block .line.diff.add { background-color: rgba(16, 185, 129, 0.16); }
.code-block .line.diff.remove { background-color: rgba(244, 63, 94, 0.16); opacity: 0.7; }
.code-block .highlighted-word { border: 1px solid rgba(101, 117, 133, 0.5); border-radius: 2px; }
.code-block .code-filename { font-size: 0.85em; opacity: 0.8; }
`
