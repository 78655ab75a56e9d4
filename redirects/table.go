// Package redirects maps legacy URL paths to their current location. Tables
// are built once at startup and only read afterwards.
package redirects

import (
	"fmt"
	"html"
	"net/http"
	"sort"
	"strings"

	"github.com/labstack/echo/v4"
)

// Entry is a single redirect.
type Entry struct {
	From string
	To   string
}

// Table is an immutable set of redirects keyed by exact path.
type Table struct {
	m map[string]string
}

// New builds a table from a from→to map. Sources must be absolute paths and
// must not redirect to themselves.
func New(entries map[string]string) (*Table, error) {
	t := &Table{m: make(map[string]string, len(entries))}
	for from, to := range entries {
		if err := t.add(from, to); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// FromPairs builds a table from ordered pairs. A repeated source is an
// error.
func FromPairs(pairs [][2]string) (*Table, error) {
	t := &Table{m: make(map[string]string, len(pairs))}
	for _, p := range pairs {
		if _, dup := t.m[normalize(p[0])]; dup {
			return nil, fmt.Errorf("redirects: duplicate source %q", p[0])
		}
		if err := t.add(p[0], p[1]); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (t *Table) add(from, to string) error {
	if !strings.HasPrefix(from, "/") {
		return fmt.Errorf("redirects: source %q must start with /", from)
	}
	if to == "" {
		return fmt.Errorf("redirects: empty target for %q", from)
	}
	key := normalize(from)
	if key == normalize(to) {
		return fmt.Errorf("redirects: %q redirects to itself", from)
	}
	t.m[key] = to
	return nil
}

// normalize drops a single trailing slash from everything but the root.
func normalize(p string) string {
	if len(p) > 1 && strings.HasSuffix(p, "/") {
		return p[:len(p)-1]
	}
	return p
}

// Merge returns a new table holding the entries of t and others. When two
// tables redirect the same source, the earlier one wins.
func (t *Table) Merge(others ...*Table) *Table {
	out := &Table{m: make(map[string]string, t.Len())}
	for _, src := range append([]*Table{t}, others...) {
		if src == nil {
			continue
		}
		for from, to := range src.m {
			if _, ok := out.m[from]; !ok {
				out.m[from] = to
			}
		}
	}
	return out
}

// Resolve returns the target for path. Matching is exact apart from a
// single trailing slash.
func (t *Table) Resolve(path string) (string, bool) {
	if t == nil {
		return "", false
	}
	to, ok := t.m[normalize(path)]
	return to, ok
}

// Len returns the number of entries.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.m)
}

// Entries returns every redirect sorted by source.
func (t *Table) Entries() []Entry {
	out := make([]Entry, 0, t.Len())
	if t == nil {
		return out
	}
	for from, to := range t.m {
		out = append(out, Entry{From: from, To: to})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].From < out[j].From })
	return out
}

// Middleware answers requests for a redirected path with 301 Moved
// Permanently. Register it with Echo.Pre so it runs before routing.
func (t *Table) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if req.Method != http.MethodGet && req.Method != http.MethodHead {
				return next(c)
			}
			if to, ok := t.Resolve(req.URL.Path); ok {
				return c.Redirect(http.StatusMovedPermanently, to)
			}
			return next(c)
		}
	}
}

// Stub returns the HTML page a static host serves at a redirected path. It
// refreshes immediately to to, marks itself noindex and links the canonical
// target. base, when set, makes the canonical link absolute.
func Stub(from, to, base string) []byte {
	canonical := to
	if base != "" && strings.HasPrefix(to, "/") {
		canonical = strings.TrimSuffix(base, "/") + to
	}
	f, t, c := html.EscapeString(from), html.EscapeString(to), html.EscapeString(canonical)
	return []byte(fmt.Sprintf(`<!doctype html>
<title>Redirecting to: %[2]s</title>
<meta http-equiv="refresh" content="0;url=%[2]s">
<meta name="robots" content="noindex">
<link rel="canonical" href="%[3]s">
<body>
<a href="%[2]s">Redirecting from <code>%[1]s</code> to <code>%[2]s</code></a>
</body>
`, f, t, c))
}
