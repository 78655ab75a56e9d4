package ogimage

// Node is an element of the visual tree. The only implementations are
// *Box and *Text.
type Node interface {
	node()
}

// Box is a rectangular container that lays out its children along one axis.
type Box struct {
	Style    Style
	Children []Node
}

// Text is a run of text wrapped to the width its parent gives it.
type Text struct {
	Content string
	// Font overrides the inherited typography field by field; zero fields
	// inherit.
	Font     Typography
	MaxLines int // 0 means unlimited
	Align    TextAlign
}

func (*Box) node()  {}
func (*Text) node() {}

// Direction is the main axis of a box.
type Direction int

const (
	Row Direction = iota
	Column
)

// Justify distributes children along the main axis.
type Justify int

const (
	JustifyStart Justify = iota
	JustifyCenter
	JustifyEnd
	JustifySpaceBetween
)

// Align positions children on the cross axis.
type Align int

const (
	AlignStretch Align = iota
	AlignStart
	AlignCenter
	AlignEnd
)

// Position selects flow or absolute placement.
type Position int

const (
	Static Position = iota
	// Absolute boxes are placed at Top/Left relative to their parent's
	// border box and take no space in the flow.
	Absolute
)

// TextAlign positions lines inside a text node.
type TextAlign int

const (
	TextLeft TextAlign = iota
	TextCenter
	TextRight
)

// Edges holds per-side lengths in pixels.
type Edges struct {
	Top, Right, Bottom, Left float64
}

// Uniform returns edges of v on every side.
func Uniform(v float64) Edges { return Edges{v, v, v, v} }

// Symmetric returns edges of v vertically and h horizontally.
func Symmetric(v, h float64) Edges { return Edges{v, h, v, h} }

// Typography describes how text is drawn. Boxes pass it down to their
// descendants.
type Typography struct {
	Family     string
	Weight     int
	Style      FontStyle
	Size       float64 // pixels
	Color      string
	LineHeight float64 // multiple of Size; 0 means 1.2
}

// merge returns t with the non-zero fields of o applied.
func (t Typography) merge(o Typography) Typography {
	if o.Family != "" {
		t.Family = o.Family
	}
	if o.Weight != 0 {
		t.Weight = o.Weight
	}
	if o.Style != "" {
		t.Style = o.Style
	}
	if o.Size != 0 {
		t.Size = o.Size
	}
	if o.Color != "" {
		t.Color = o.Color
	}
	if o.LineHeight != 0 {
		t.LineHeight = o.LineHeight
	}
	return t
}

func (t Typography) face() FontFace {
	style := t.Style
	if style == "" {
		style = StyleNormal
	}
	return FontFace{Family: t.Family, Weight: t.Weight, Style: style}
}

func (t Typography) lineHeight() float64 {
	if t.LineHeight > 0 {
		return t.Size * t.LineHeight
	}
	return t.Size * 1.2
}

// Style holds the layout and paint attributes of a box. Zero Width or
// Height means the size comes from the content (or the parent, when
// stretched).
type Style struct {
	Width, Height float64
	Padding       Edges
	Direction     Direction
	Justify       Justify
	Align         Align
	Gap           float64

	Position  Position
	Top, Left float64

	Background   string
	BorderWidth  float64
	BorderColor  string
	BorderRadius float64

	Font Typography
}
