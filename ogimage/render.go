package ogimage

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/font/sfnt"
)

// Canvas size of every preview image.
const (
	CanvasWidth  = 1200
	CanvasHeight = 630
)

// RenderOptions configures the vector stage.
type RenderOptions struct {
	Width, Height int
	// EmbedFont draws text as glyph outlines. When false text is emitted as
	// <text> elements that reference the family by name.
	EmbedFont bool
}

// DefaultRenderOptions returns the fixed configuration used for preview
// images: 1200×630 with embedded glyphs.
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{Width: CanvasWidth, Height: CanvasHeight, EmbedFont: true}
}

// RenderSVG lays out the tree rooted at root and returns it as SVG markup.
// The root must be a box sized exactly to the canvas. Output is
// deterministic for identical inputs.
func RenderSVG(root Node, fonts *FontSet, opts RenderOptions) ([]byte, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, newError(CodeRender, "invalid canvas %dx%d", opts.Width, opts.Height)
	}
	box, ok := root.(*Box)
	if !ok || box == nil {
		return nil, newError(CodeRender, "root must be a box, got %T", root)
	}
	if box.Style.Width != float64(opts.Width) || box.Style.Height != float64(opts.Height) {
		return nil, newError(CodeRender, "root is %sx%s, canvas is %dx%d",
			num(box.Style.Width), num(box.Style.Height), opts.Width, opts.Height)
	}
	if box.Style.Position == Absolute {
		return nil, newError(CodeRender, "root cannot be absolutely positioned")
	}

	r := &renderer{
		fonts:   fonts,
		embed:   opts.EmbedFont,
		buf:     &sfnt.Buffer{},
		shapers: make(map[shaperKey]*shaper),
	}
	fmt.Fprintf(&r.out, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`,
		opts.Width, opts.Height, opts.Width, opts.Height)
	if err := r.place(box, 0, 0, box.Style.Width, box.Style.Height, Typography{}); err != nil {
		return nil, err
	}
	r.out.WriteString("</svg>")
	return r.out.Bytes(), nil
}

type shaperKey struct {
	face FontFace
	size float64
}

type renderer struct {
	fonts   *FontSet
	embed   bool
	buf     *sfnt.Buffer
	shapers map[shaperKey]*shaper
	out     bytes.Buffer
}

func (r *renderer) shaper(t Typography) (*shaper, error) {
	if t.Size <= 0 {
		return nil, newError(CodeRender, "font size must be positive, got %s", num(t.Size))
	}
	key := shaperKey{face: t.face(), size: t.Size}
	if s, ok := r.shapers[key]; ok {
		return s, nil
	}
	f, err := r.fonts.Lookup(key.face)
	if err != nil {
		return nil, err
	}
	s, err := newShaper(f, r.buf, t.Size)
	if err != nil {
		return nil, err
	}
	r.shapers[key] = s
	return s, nil
}

func (r *renderer) lines(t *Text, s *shaper, maxWidth float64) []string {
	return s.clamp(s.wrap(t.Content, maxWidth), t.MaxLines, maxWidth)
}

// measure returns the size n occupies when given at most maxWidth.
func (r *renderer) measure(n Node, maxWidth float64, inh Typography) (w, h float64, err error) {
	switch n := n.(type) {
	case *Text:
		typ := inh.merge(n.Font)
		s, err := r.shaper(typ)
		if err != nil {
			return 0, 0, err
		}
		lines := r.lines(n, s, maxWidth)
		for _, l := range lines {
			w = math.Max(w, s.width(l))
		}
		return w, float64(len(lines)) * typ.lineHeight(), nil
	case *Box:
		return r.measureBox(n, maxWidth, inh)
	default:
		return 0, 0, newError(CodeRender, "unknown node %T", n)
	}
}

func insets(st Style) (h, v float64) {
	return st.Padding.Left + st.Padding.Right + 2*st.BorderWidth,
		st.Padding.Top + st.Padding.Bottom + 2*st.BorderWidth
}

func (r *renderer) measureBox(b *Box, maxWidth float64, inh Typography) (w, h float64, err error) {
	st := b.Style
	if st.Width < 0 || st.Height < 0 || st.BorderWidth < 0 || st.Gap < 0 {
		return 0, 0, newError(CodeRender, "negative box dimension")
	}
	typ := inh.merge(st.Font)
	insetH, insetV := insets(st)

	outer := maxWidth
	if st.Width > 0 {
		if st.Width > maxWidth+fitEpsilon {
			return 0, 0, newError(CodeRender, "box width %s exceeds available %s", num(st.Width), num(maxWidth))
		}
		outer = st.Width
	}
	inner := outer - insetH
	if inner < 0 {
		return 0, 0, newError(CodeRender, "padding and border (%s) exceed box width %s", num(insetH), num(outer))
	}
	if st.Height > 0 && insetV > st.Height {
		return 0, 0, newError(CodeRender, "padding and border (%s) exceed box height %s", num(insetV), num(st.Height))
	}

	cw, ch, err := r.contentSize(b, inner, typ)
	if err != nil {
		return 0, 0, err
	}
	w, h = st.Width, st.Height
	if w == 0 {
		w = cw + insetH
	}
	if h == 0 {
		h = ch + insetV
	}
	return w, h, nil
}

func flowChildren(b *Box) []Node {
	var out []Node
	for _, c := range b.Children {
		if cb, ok := c.(*Box); ok && cb.Style.Position == Absolute {
			continue
		}
		out = append(out, c)
	}
	return out
}

type childSize struct {
	node Node
	w, h float64
}

// sizeChildren measures the flow children of b inside a content box of
// width inner.
func (r *renderer) sizeChildren(b *Box, inner float64, typ Typography) ([]childSize, error) {
	flow := flowChildren(b)
	sizes := make([]childSize, 0, len(flow))
	remaining := inner
	for _, c := range flow {
		avail := inner
		if b.Style.Direction == Row {
			avail = math.Max(remaining, 0)
		}
		w, h, err := r.measure(c, avail, typ)
		if err != nil {
			return nil, err
		}
		sizes = append(sizes, childSize{node: c, w: w, h: h})
		remaining -= w + b.Style.Gap
	}
	return sizes, nil
}

func (r *renderer) contentSize(b *Box, inner float64, typ Typography) (w, h float64, err error) {
	sizes, err := r.sizeChildren(b, inner, typ)
	if err != nil {
		return 0, 0, err
	}
	gaps := b.Style.Gap * float64(max(len(sizes)-1, 0))
	for _, s := range sizes {
		if b.Style.Direction == Row {
			w += s.w
			h = math.Max(h, s.h)
		} else {
			w = math.Max(w, s.w)
			h += s.h
		}
	}
	if b.Style.Direction == Row {
		w += gaps
	} else {
		h += gaps
	}
	return w, h, nil
}

// stretches reports whether n takes the cross size of its parent.
func stretches(n Node, dir Direction) bool {
	b, ok := n.(*Box)
	if !ok {
		return true
	}
	if dir == Column {
		return b.Style.Width == 0
	}
	return b.Style.Height == 0
}

// place draws n into the rectangle (x, y, w, h).
func (r *renderer) place(n Node, x, y, w, h float64, inh Typography) error {
	switch n := n.(type) {
	case *Text:
		return r.drawText(n, x, y, w, inh)
	case *Box:
		return r.placeBox(n, x, y, w, h, inh)
	default:
		return newError(CodeRender, "unknown node %T", n)
	}
}

func (r *renderer) placeBox(b *Box, x, y, w, h float64, inh Typography) error {
	st := b.Style
	typ := inh.merge(st.Font)
	r.drawBox(st, x, y, w, h)

	insetH, insetV := insets(st)
	innerW, innerH := w-insetH, h-insetV
	if innerW < 0 || innerH < 0 {
		return newError(CodeRender, "padding and border exceed box %sx%s", num(w), num(h))
	}
	cx := x + st.BorderWidth + st.Padding.Left
	cy := y + st.BorderWidth + st.Padding.Top

	sizes, err := r.sizeChildren(b, innerW, typ)
	if err != nil {
		return err
	}

	mainSize, crossSize := innerH, innerW
	if st.Direction == Row {
		mainSize, crossSize = innerW, innerH
	}
	total := st.Gap * float64(max(len(sizes)-1, 0))
	for _, s := range sizes {
		if st.Direction == Row {
			total += s.w
		} else {
			total += s.h
		}
	}
	free := mainSize - total
	offset, spacing := 0.0, st.Gap
	if free > 0 {
		switch st.Justify {
		case JustifyCenter:
			offset = free / 2
		case JustifyEnd:
			offset = free
		case JustifySpaceBetween:
			if len(sizes) > 1 {
				spacing += free / float64(len(sizes)-1)
			}
		}
	}

	type slot struct{ x, y, w, h float64 }
	slots := make([]slot, 0, len(sizes))
	pos := offset
	for _, s := range sizes {
		main, cross := s.h, s.w
		if st.Direction == Row {
			main, cross = s.w, s.h
		}
		if st.Align == AlignStretch && stretches(s.node, st.Direction) {
			cross = crossSize
		}
		var crossPos float64
		switch st.Align {
		case AlignCenter:
			crossPos = (crossSize - cross) / 2
		case AlignEnd:
			crossPos = crossSize - cross
		}
		if st.Direction == Row {
			slots = append(slots, slot{cx + pos, cy + crossPos, main, cross})
		} else {
			slots = append(slots, slot{cx + crossPos, cy + pos, cross, main})
		}
		pos += main + spacing
	}

	// Children paint in document order; absolute boxes keep their place
	// in the stacking order.
	next := 0
	for _, c := range b.Children {
		if cb, ok := c.(*Box); ok && cb.Style.Position == Absolute {
			cw, ch, err := r.measureBox(cb, w, typ)
			if err != nil {
				return err
			}
			if err := r.placeBox(cb, x+cb.Style.Left, y+cb.Style.Top, cw, ch, typ); err != nil {
				return err
			}
			continue
		}
		sl := slots[next]
		next++
		if err := r.place(c, sl.x, sl.y, sl.w, sl.h, typ); err != nil {
			return err
		}
	}
	return nil
}

func (r *renderer) drawBox(st Style, x, y, w, h float64) {
	if st.Background != "" {
		fmt.Fprintf(&r.out, `<rect x="%s" y="%s" width="%s" height="%s"%s fill="%s"/>`,
			num(x), num(y), num(w), num(h), radius(st.BorderRadius), attr(st.Background))
	}
	if st.BorderWidth > 0 {
		bw := st.BorderWidth
		color := st.BorderColor
		if color == "" {
			color = "#000"
		}
		fmt.Fprintf(&r.out, `<rect x="%s" y="%s" width="%s" height="%s"%s fill="none" stroke="%s" stroke-width="%s"/>`,
			num(x+bw/2), num(y+bw/2), num(w-bw), num(h-bw), radius(st.BorderRadius), attr(color), num(bw))
	}
}

func radius(r float64) string {
	if r <= 0 {
		return ""
	}
	return fmt.Sprintf(` rx="%s" ry="%s"`, num(r), num(r))
}

func (r *renderer) drawText(t *Text, x, y, w float64, inh Typography) error {
	typ := inh.merge(t.Font)
	s, err := r.shaper(typ)
	if err != nil {
		return err
	}
	color := typ.Color
	if color == "" {
		color = "#000"
	}
	lh := typ.lineHeight()
	for i, line := range r.lines(t, s, w) {
		if line == "" {
			continue
		}
		lx := x
		switch t.Align {
		case TextCenter:
			lx += (w - s.width(line)) / 2
		case TextRight:
			lx += w - s.width(line)
		}
		top := y + float64(i)*lh
		baseline := top + (lh-(s.ascent+s.descent))/2 + s.ascent

		if !r.embed {
			face := typ.face()
			fmt.Fprintf(&r.out, `<text x="%s" y="%s" font-family="%s" font-size="%s" font-weight="%d" font-style="%s" fill="%s">`,
				num(lx), num(baseline), attr(face.Family), num(typ.Size), face.Weight, attr(string(face.Style)), attr(color))
			_ = xml.EscapeText(&r.out, []byte(line))
			r.out.WriteString("</text>")
			continue
		}
		var d strings.Builder
		if err := s.outline(&d, line, lx, baseline); err != nil {
			return err
		}
		if d.Len() == 0 {
			continue
		}
		fmt.Fprintf(&r.out, `<path d="%s" fill="%s"/>`, d.String(), attr(color))
	}
	return nil
}

func attr(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

// num formats a coordinate with at most two decimals.
func num(v float64) string {
	v = math.Round(v*100) / 100
	if v == 0 {
		v = 0 // drop negative zero
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
