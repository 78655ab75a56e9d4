// Package views renders the site's pages. The document shell is a templ
// component; the head, header, footer and each page's main content are
// html/template files embedded in the binary.
package views

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/a-h/templ"

	"github.com/ruofeng/sitegen/content"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{"home", "list", "post", "tags", "archives", "error"}

// Options configures the page templates.
type Options struct {
	// Location is the timezone dates are shown in (default UTC).
	Location *time.Location
	// CSS is appended to the base stylesheet, typically the code
	// highlighting styles.
	CSS string
}

// card is a post listing entry; Level is the heading level of its title,
// 3 inside sections that already have their own h2.
type card struct {
	content.Post
	Level int
}

// Views holds the parsed page templates. It is safe for concurrent use.
type Views struct {
	pages map[string]*template.Template
}

// New parses the embedded templates.
func New(opts Options) (*Views, error) {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	funcs := template.FuncMap{
		"date": func(t time.Time) string {
			return t.In(loc).Format("Jan 2, 2006")
		},
		"isoDate": func(t time.Time) string {
			return t.UTC().Format(time.RFC3339)
		},
		"year": func() int {
			return time.Now().In(loc).Year()
		},
		"tagSlug": content.Slugify,
		"card": func(p content.Post, level int) card {
			return card{Post: p, Level: level}
		},
		"raw": func(s string) template.HTML {
			return template.HTML(s)
		},
		"jsonLD": func(s string) template.JS {
			return template.JS(s)
		},
		"extraCSS": func() template.CSS {
			return template.CSS(opts.CSS)
		},
	}

	base, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("views: parse layout: %w", err)
	}
	v := &Views{pages: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		t, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("views: clone layout: %w", err)
		}
		if _, err := t.ParseFS(templateFS, "templates/"+name+".html"); err != nil {
			return nil, fmt.Errorf("views: parse %s: %w", name, err)
		}
		if t.Lookup("main") == nil {
			return nil, fmt.Errorf("views: %s defines no main template", name)
		}
		v.pages[name] = t
	}
	return v, nil
}

func (v *Views) page(name string, b Base, data any) templ.Component {
	t := v.pages[name]
	part := func(name string) templ.Component {
		return templ.FromGoHTML(t.Lookup(name), data)
	}
	return Layout(b, part("head"), part("header"), part("main"), part("footer"))
}

// Layout is the HTML document around a page: the html element carries the
// site language, direction and, with the theme toggle on, the theme.
func Layout(b Base, head, header, main, footer templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		open := `<!doctype html>` + "\n" + `<html lang="` + templ.EscapeString(b.Site.Lang) +
			`" dir="` + templ.EscapeString(b.Site.Dir) + `"`
		if b.Site.LightAndDarkMode {
			open += ` data-theme="` + templ.EscapeString(b.Theme) + `"`
		}
		open += ">\n<head>\n"
		return templ.Join(
			templ.Raw(open),
			head,
			templ.Raw("</head>\n<body>\n"),
			header,
			templ.Raw(`<main id="main-content">`+"\n"),
			main,
			templ.Raw("\n</main>\n"),
			footer,
			templ.Raw("</body>\n</html>\n"),
		).Render(ctx, w)
	})
}

// Home renders the index page.
func (v *Views) Home(p HomePage) templ.Component { return v.page("home", p.Base, p) }

// List renders a paginated list of posts.
func (v *Views) List(p ListPage) templ.Component { return v.page("list", p.Base, p) }

// Post renders a single post.
func (v *Views) Post(p PostPage) templ.Component { return v.page("post", p.Base, p) }

// Tags renders the tag index.
func (v *Views) Tags(p TagsPage) templ.Component { return v.page("tags", p.Base, p) }

// Archives renders the archives page.
func (v *Views) Archives(p ArchivesPage) templ.Component { return v.page("archives", p.Base, p) }

// Error renders an error page.
func (v *Views) Error(p ErrorPage) templ.Component { return v.page("error", p.Base, p) }
