package ogimage

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// shaper measures and outlines text in one font at one size. It owns an
// sfnt.Buffer and must not be shared between goroutines.
type shaper struct {
	font    *sfnt.Font
	buf     *sfnt.Buffer
	ppem    fixed.Int26_6
	ascent  float64
	descent float64
}

func newShaper(f *sfnt.Font, buf *sfnt.Buffer, size float64) (*shaper, error) {
	ppem := fixed.Int26_6(size*64 + 0.5)
	m, err := f.Metrics(buf, ppem, font.HintingNone)
	if err != nil {
		return nil, wrapError(CodeRender, err, "read font metrics")
	}
	return &shaper{
		font:    f,
		buf:     buf,
		ppem:    ppem,
		ascent:  toFloat(m.Ascent),
		descent: toFloat(m.Descent),
	}, nil
}

func toFloat(v fixed.Int26_6) float64 { return float64(v) / 64 }

func (s *shaper) glyph(r rune) sfnt.GlyphIndex {
	// A missing rune maps to glyph 0 (.notdef), which is drawn as-is.
	g, _ := s.font.GlyphIndex(s.buf, r)
	return g
}

func (s *shaper) kern(a, b sfnt.GlyphIndex) float64 {
	k, err := s.font.Kern(s.buf, a, b, s.ppem, font.HintingNone)
	if err != nil {
		return 0
	}
	return toFloat(k)
}

// width returns the advance width of str including pair kerning.
func (s *shaper) width(str string) float64 {
	var w float64
	prev := sfnt.GlyphIndex(0)
	first := true
	for _, r := range str {
		g := s.glyph(r)
		if !first {
			w += s.kern(prev, g)
		}
		adv, err := s.font.GlyphAdvance(s.buf, g, s.ppem, font.HintingNone)
		if err == nil {
			w += toFloat(adv)
		}
		prev, first = g, false
	}
	return w
}

// outline appends the glyph outlines of str, with its baseline origin at
// (x, y), to d as SVG path commands.
func (s *shaper) outline(d *strings.Builder, str string, x, y float64) error {
	prev := sfnt.GlyphIndex(0)
	first := true
	for _, r := range str {
		g := s.glyph(r)
		if !first {
			x += s.kern(prev, g)
		}
		segs, err := s.font.LoadGlyph(s.buf, g, s.ppem, nil)
		if err != nil {
			return wrapError(CodeRender, err, "load glyph for %q", r)
		}
		open := false
		for _, seg := range segs {
			switch seg.Op {
			case sfnt.SegmentOpMoveTo:
				if open {
					d.WriteString("Z")
				}
				writeCmd(d, "M", x, y, seg.Args[0])
				open = true
			case sfnt.SegmentOpLineTo:
				writeCmd(d, "L", x, y, seg.Args[0])
			case sfnt.SegmentOpQuadTo:
				writeCmd(d, "Q", x, y, seg.Args[0], seg.Args[1])
			case sfnt.SegmentOpCubeTo:
				writeCmd(d, "C", x, y, seg.Args[0], seg.Args[1], seg.Args[2])
			}
		}
		if open {
			d.WriteString("Z")
		}
		adv, err := s.font.GlyphAdvance(s.buf, g, s.ppem, font.HintingNone)
		if err == nil {
			x += toFloat(adv)
		}
		prev, first = g, false
	}
	return nil
}

func writeCmd(d *strings.Builder, cmd string, ox, oy float64, pts ...fixed.Point26_6) {
	d.WriteString(cmd)
	for i, p := range pts {
		if i > 0 {
			d.WriteByte(' ')
		}
		d.WriteString(num(ox + toFloat(p.X)))
		d.WriteByte(' ')
		d.WriteString(num(oy + toFloat(p.Y)))
	}
}

// token is a unit of line breaking: a word, or a single CJK rune.
type token struct {
	text        string
	spaceBefore bool
}

func isCJK(r rune) bool {
	return unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana, unicode.Hangul) ||
		(r >= 0x3000 && r <= 0x303f) || (r >= 0xff00 && r <= 0xffef)
}

func tokenize(paragraph string) []token {
	var toks []token
	var word strings.Builder
	space := false
	flush := func() {
		if word.Len() > 0 {
			toks = append(toks, token{text: word.String(), spaceBefore: space})
			word.Reset()
			space = false
		}
	}
	for _, r := range paragraph {
		switch {
		case unicode.IsSpace(r):
			flush()
			if len(toks) > 0 {
				space = true
			}
		case isCJK(r):
			flush()
			toks = append(toks, token{text: string(r), spaceBefore: space})
			space = false
		default:
			word.WriteRune(r)
		}
	}
	flush()
	return toks
}

const fitEpsilon = 0.01

// wrap breaks content into lines no wider than maxWidth. Explicit newlines
// start new lines. Tokens wider than a whole line are broken between runes.
// Empty content yields a single empty line.
func (s *shaper) wrap(content string, maxWidth float64) []string {
	var lines []string
	for _, para := range strings.Split(content, "\n") {
		toks := tokenize(para)
		if len(toks) == 0 {
			lines = append(lines, "")
			continue
		}
		line := ""
		for _, tok := range toks {
			candidate := tok.text
			if line != "" {
				if tok.spaceBefore {
					candidate = line + " " + tok.text
				} else {
					candidate = line + tok.text
				}
			}
			if s.width(candidate) <= maxWidth+fitEpsilon {
				line = candidate
				continue
			}
			if line != "" {
				lines = append(lines, line)
				line = ""
			}
			if s.width(tok.text) <= maxWidth+fitEpsilon {
				line = tok.text
				continue
			}
			pieces := s.breakRunes(tok.text, maxWidth)
			lines = append(lines, pieces[:len(pieces)-1]...)
			line = pieces[len(pieces)-1]
		}
		lines = append(lines, line)
	}
	return lines
}

// breakRunes splits a word that does not fit on one line. Every piece holds
// at least one rune.
func (s *shaper) breakRunes(word string, maxWidth float64) []string {
	var pieces []string
	cur := ""
	for _, r := range word {
		next := cur + string(r)
		if cur != "" && s.width(next) > maxWidth+fitEpsilon {
			pieces = append(pieces, cur)
			next = string(r)
		}
		cur = next
	}
	return append(pieces, cur)
}

// clamp limits lines to max, ending the last kept line with an ellipsis
// that fits in maxWidth.
func (s *shaper) clamp(lines []string, max int, maxWidth float64) []string {
	if max <= 0 || len(lines) <= max {
		return lines
	}
	out := append([]string(nil), lines[:max]...)
	ellipsis := "…"
	if s.glyph('…') == 0 {
		ellipsis = "..."
	}
	last := strings.TrimRightFunc(out[max-1], unicode.IsSpace)
	for last != "" && s.width(last+ellipsis) > maxWidth+fitEpsilon {
		_, size := utf8.DecodeLastRuneInString(last)
		last = strings.TrimRightFunc(last[:len(last)-size], unicode.IsSpace)
	}
	out[max-1] = last + ellipsis
	return out
}
