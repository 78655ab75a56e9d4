package sitegen

// RouteKind says how a static build stores a route's response.
type RouteKind int

const (
	// RoutePage is an HTML page; directory paths are written as index.html.
	RoutePage RouteKind = iota
	// RouteFile is written under its own name (feeds, robots.txt, favicon).
	RouteFile
	// RouteImage is a generated preview image. A 404 means the image was
	// skipped and nothing is written.
	RouteImage
	// RouteNotFound is the 404 page, expected to answer 404.
	RouteNotFound
)

// Route is a path of the site.
type Route struct {
	Path string
	Kind RouteKind
}

// OutputPath returns the file a static build writes the route to, relative
// to the output directory.
func (r Route) OutputPath() string {
	p := r.Path
	if len(p) > 0 && p[0] == '/' {
		p = p[1:]
	}
	if p == "" || p[len(p)-1] == '/' {
		return p + "index.html"
	}
	return p
}
