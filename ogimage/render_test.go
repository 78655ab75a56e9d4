package ogimage

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/sfnt"
)

func canvas(children ...Node) *Box {
	return &Box{
		Style: Style{
			Width:     CanvasWidth,
			Height:    CanvasHeight,
			Direction: Column,
			Font:      Typography{Family: DefaultFontFamily, Weight: DefaultFontWeight, Size: 32},
		},
		Children: children,
	}
}

func TestRenderPostSVG(t *testing.T) {
	fonts := testFonts(t)
	svg, err := RenderSVG(testTemplate().Post(helloWorld()), fonts, DefaultRenderOptions())
	require.NoError(t, err)

	s := string(svg)
	assert.True(t, strings.HasPrefix(s, `<svg xmlns="http://www.w3.org/2000/svg" width="1200" height="630" viewBox="0 0 1200 630">`))
	assert.True(t, strings.HasSuffix(s, "</svg>"))
	assert.Contains(t, s, `fill="#fefbfb"`)
	assert.Contains(t, s, `stroke-width="4"`)
	assert.Contains(t, s, "<path d=\"M")
	assert.NotContains(t, s, "<text", "embedded fonts draw outlines only")
	assert.NotContains(t, s, "Hello World")
}

func TestRenderWithoutEmbedding(t *testing.T) {
	fonts := testFonts(t)
	opts := DefaultRenderOptions()
	opts.EmbedFont = false

	svg, err := RenderSVG(testTemplate().Post(helloWorld()), fonts, opts)
	require.NoError(t, err)
	s := string(svg)
	assert.Contains(t, s, ">Hello World</text>")
	assert.Contains(t, s, ">A first post</text>")
	assert.Contains(t, s, ">by Lei</text>")
	assert.Contains(t, s, ">Ruofeng&#39;s Blog</text>")
	assert.Contains(t, s, `font-family="Smiley Sans Oblique"`)
	assert.Contains(t, s, `font-weight="600"`)
}

func TestRenderDeterministic(t *testing.T) {
	fonts := testFonts(t)
	a, err := RenderSVG(testTemplate().Post(helloWorld()), fonts, DefaultRenderOptions())
	require.NoError(t, err)
	b, err := RenderSVG(testTemplate().Post(helloWorld()), fonts, DefaultRenderOptions())
	require.NoError(t, err)
	assert.True(t, bytes.Equal(a, b))
}

func TestRenderEmptyTitle(t *testing.T) {
	p := helloWorld()
	p.Title = ""
	_, err := RenderSVG(testTemplate().Post(p), testFonts(t), DefaultRenderOptions())
	assert.NoError(t, err)
}

func TestRenderLongTitleIsClamped(t *testing.T) {
	p := helloWorld()
	p.Title = strings.Repeat("An extraordinarily long title that keeps going ", 12)
	p.Description = strings.Repeat("word ", 200)
	opts := DefaultRenderOptions()
	opts.EmbedFont = false

	svg, err := RenderSVG(testTemplate().Post(p), testFonts(t), opts)
	require.NoError(t, err)
	s := string(svg)
	// Three title lines, two description lines, author and site title.
	assert.Equal(t, 7, strings.Count(s, "<text "))
	assert.True(t, strings.Contains(s, "…</text>") || strings.Contains(s, "...</text>"), "clamped text ends in an ellipsis")
}

func TestRenderSiteSVG(t *testing.T) {
	opts := DefaultRenderOptions()
	opts.EmbedFont = false
	svg, err := RenderSVG(testTemplate().SiteTree(), testFonts(t), opts)
	require.NoError(t, err)
	assert.Contains(t, string(svg), ">ruofeng.me</text>")
}

func TestRenderErrors(t *testing.T) {
	fonts := testFonts(t)
	tests := []struct {
		name string
		root Node
	}{
		{"text root", &Text{Content: "x"}},
		{"nil box root", (*Box)(nil)},
		{"wrong root size", &Box{Style: Style{Width: 800, Height: 600}}},
		{"absolute root", &Box{Style: Style{Width: CanvasWidth, Height: CanvasHeight, Position: Absolute}}},
		{"child wider than parent", canvas(&Box{Style: Style{Width: 1300}})},
		{"padding exceeds width", canvas(&Box{Style: Style{Width: 100, Padding: Symmetric(0, 60)}})},
		{"padding exceeds height", canvas(&Box{Style: Style{Height: 10, Padding: Uniform(8)}})},
		{"root padding exceeds canvas", &Box{Style: Style{Width: CanvasWidth, Height: CanvasHeight, Padding: Symmetric(400, 0)}}},
		{"negative font size", canvas(&Text{Content: "x", Font: Typography{Size: -1}})},
		{"unknown family", canvas(&Text{Content: "x", Font: Typography{Family: "Comic Sans"}})},
		{"unknown weight", canvas(&Text{Content: "x", Font: Typography{Weight: 400}})},
		{"nil child", canvas(nil)},
		{"negative width", canvas(&Box{Style: Style{Width: -5}})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := RenderSVG(tt.root, fonts, DefaultRenderOptions())
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrRender)
		})
	}
}

func TestRenderMissingSize(t *testing.T) {
	root := &Box{
		Style:    Style{Width: CanvasWidth, Height: CanvasHeight, Font: Typography{Family: DefaultFontFamily, Weight: DefaultFontWeight}},
		Children: []Node{&Text{Content: "no size"}},
	}
	_, err := RenderSVG(root, testFonts(t), DefaultRenderOptions())
	assert.ErrorIs(t, err, ErrRender)
}

func TestRenderInvalidCanvas(t *testing.T) {
	_, err := RenderSVG(canvas(), testFonts(t), RenderOptions{})
	assert.ErrorIs(t, err, ErrRender)
}

func TestLayoutPositions(t *testing.T) {
	root := &Box{
		Style: Style{
			Width:     CanvasWidth,
			Height:    CanvasHeight,
			Direction: Row,
			Justify:   JustifySpaceBetween,
			Align:     AlignCenter,
			Padding:   Uniform(10),
		},
		Children: []Node{
			&Box{Style: Style{Width: 100, Height: 50, Background: "#111"}},
			&Box{Style: Style{Width: 100, Height: 50, Background: "#222"}},
			&Box{Style: Style{Position: Absolute, Left: 5, Top: 6, Width: 7, Height: 8, Background: "#333"}},
		},
	}
	svg, err := RenderSVG(root, testFonts(t), DefaultRenderOptions())
	require.NoError(t, err)
	s := string(svg)
	assert.Contains(t, s, `<rect x="10" y="290" width="100" height="50" fill="#111"/>`)
	assert.Contains(t, s, `<rect x="1090" y="290" width="100" height="50" fill="#222"/>`)
	assert.Contains(t, s, `<rect x="5" y="6" width="7" height="8" fill="#333"/>`)
}

func TestPaintsInDocumentOrder(t *testing.T) {
	svg, err := RenderSVG(testTemplate().Post(helloWorld()), testFonts(t), DefaultRenderOptions())
	require.NoError(t, err)
	s := string(svg)
	shadowAt := strings.Index(s, `fill="#ecebeb"`)
	require.GreaterOrEqual(t, shadowAt, 0)
	assert.Less(t, shadowAt, strings.Index(s, `height="504" rx="4" ry="4" fill="#fefbfb"`), "shadow before the card")
	assert.Less(t, shadowAt, strings.Index(s, "<path "), "shadow before the text")

	root := canvas(
		&Box{Style: Style{Width: 10, Height: 10, Background: "#111"}},
		&Box{Style: Style{Position: Absolute, Width: 10, Height: 10, Background: "#222"}},
		&Box{Style: Style{Width: 10, Height: 10, Background: "#333"}},
	)
	svg, err = RenderSVG(root, testFonts(t), DefaultRenderOptions())
	require.NoError(t, err)
	s = string(svg)
	first, abs, last := strings.Index(s, "#111"), strings.Index(s, "#222"), strings.Index(s, "#333")
	assert.True(t, first < abs && abs < last, "absolute child keeps its place: %d %d %d", first, abs, last)
}

func TestBorderIsInset(t *testing.T) {
	root := canvas(&Box{Style: Style{Width: 100, Height: 40, BorderWidth: 4, BorderColor: "#f00", BorderRadius: 3}})
	svg, err := RenderSVG(root, testFonts(t), DefaultRenderOptions())
	require.NoError(t, err)
	assert.Contains(t, string(svg),
		`<rect x="2" y="2" width="96" height="36" rx="3" ry="3" fill="none" stroke="#f00" stroke-width="4"/>`)
}

func testShaper(t *testing.T, size float64) *shaper {
	t.Helper()
	f, err := testFonts(t).Lookup(DefaultFontFace())
	require.NoError(t, err)
	s, err := newShaper(f, &sfnt.Buffer{}, size)
	require.NoError(t, err)
	return s
}

func TestWrap(t *testing.T) {
	s := testShaper(t, 20)
	text := "the quick brown fox jumps over the lazy dog"
	maxWidth := s.width("the quick brown")

	lines := s.wrap(text, maxWidth)
	require.Greater(t, len(lines), 1)
	assert.Equal(t, "the quick brown", lines[0])
	for _, l := range lines {
		assert.LessOrEqual(t, s.width(l), maxWidth+fitEpsilon, "line %q", l)
	}
	assert.Equal(t, text, strings.Join(lines, " "))
}

func TestWrapEdgeCases(t *testing.T) {
	s := testShaper(t, 20)

	assert.Equal(t, []string{""}, s.wrap("", 100))
	assert.Equal(t, []string{"a", "", "b"}, s.wrap("a\n\nb", 100))

	// A word longer than the line is broken between runes.
	long := strings.Repeat("m", 40)
	lines := s.wrap(long, s.width("mmmmm"))
	assert.Equal(t, long, strings.Join(lines, ""))
	for _, l := range lines {
		assert.NotEmpty(t, l)
		assert.LessOrEqual(t, s.width(l), s.width("mmmmm")+fitEpsilon)
	}
}

func TestTokenizeCJK(t *testing.T) {
	toks := tokenize("写 Go 代码")
	var got []string
	for _, tok := range toks {
		got = append(got, tok.text)
	}
	assert.Equal(t, []string{"写", "Go", "代", "码"}, got)
	assert.False(t, toks[0].spaceBefore)
	assert.True(t, toks[1].spaceBefore)
	assert.True(t, toks[2].spaceBefore)
	assert.False(t, toks[3].spaceBefore)
}

func TestClamp(t *testing.T) {
	s := testShaper(t, 20)
	lines := []string{"first line", "second line", "third line"}
	maxWidth := s.width("second line")

	got := s.clamp(lines, 2, maxWidth)
	require.Len(t, got, 2)
	assert.Equal(t, "first line", got[0])
	assert.True(t, strings.HasSuffix(got[1], "…") || strings.HasSuffix(got[1], "..."))
	assert.LessOrEqual(t, s.width(got[1]), maxWidth+fitEpsilon)

	assert.Equal(t, lines, s.clamp(lines, 0, maxWidth))
	assert.Equal(t, lines, s.clamp(lines, 3, maxWidth))
}

func TestNum(t *testing.T) {
	tests := map[float64]string{
		0:        "0",
		-0.001:   "0",
		1.005:    "1",
		12.346:   "12.35",
		-3.5:     "-3.5",
		1200:     "1200",
		0.333333: "0.33",
	}
	for in, want := range tests {
		assert.Equal(t, want, num(in), "num(%v)", in)
	}
}
