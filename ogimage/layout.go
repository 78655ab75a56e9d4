package ogimage

import (
	"net/url"
	"strings"

	"github.com/ruofeng/sitegen/content"
)

// SiteInfo is the site metadata shown on preview images.
type SiteInfo struct {
	Title       string
	Description string
	URL         string
}

// Host returns the host name of the site URL, or the URL itself when it
// cannot be parsed.
func (s SiteInfo) Host() string {
	u, err := url.Parse(s.URL)
	if err != nil || u.Host == "" {
		return strings.TrimSuffix(strings.TrimPrefix(strings.TrimPrefix(s.URL, "https://"), "http://"), "/")
	}
	return u.Hostname()
}

// Template builds the visual trees of preview images. Building is pure and
// never fails; size and font problems surface when the tree is rendered.
type Template struct {
	Site SiteInfo
	Font FontFace
}

const (
	paper  = "#fefbfb"
	shadow = "#ecebeb"
	ink    = "#000000"

	cardWidth  = 1056
	cardHeight = 504
	cardBorder = 4
	cardRadius = 4
	cardOffset = 12
)

func (t Template) typography() Typography {
	face := t.Font
	if face.Family == "" {
		face = DefaultFontFace()
	}
	return Typography{
		Family: face.Family,
		Weight: face.Weight,
		Style:  face.Style,
		Size:   28,
		Color:  ink,
	}
}

// frame returns the canvas root with the offset shadow and an empty card
// centered on it.
func (t Template) frame() (root, card *Box) {
	left := float64(CanvasWidth-cardWidth) / 2
	top := float64(CanvasHeight-cardHeight) / 2
	card = &Box{Style: Style{
		Width:        cardWidth,
		Height:       cardHeight,
		Padding:      Symmetric(36, 44),
		Direction:    Column,
		Justify:      JustifySpaceBetween,
		Background:   paper,
		BorderWidth:  cardBorder,
		BorderColor:  ink,
		BorderRadius: cardRadius,
	}}
	root = &Box{
		Style: Style{
			Width:      CanvasWidth,
			Height:     CanvasHeight,
			Direction:  Column,
			Justify:    JustifyCenter,
			Align:      AlignCenter,
			Background: paper,
			Font:       t.typography(),
		},
		Children: []Node{
			&Box{Style: Style{
				Position:     Absolute,
				Left:         left + cardOffset,
				Top:          top + cardOffset,
				Width:        cardWidth,
				Height:       cardHeight,
				Background:   shadow,
				BorderWidth:  cardBorder,
				BorderColor:  ink,
				BorderRadius: cardRadius,
			}},
			card,
		},
	}
	return root, card
}

// Post returns the preview tree of a post: its title (at most three lines),
// its description (at most two lines, omitted when empty) and a footer with
// the author and the site title.
func (t Template) Post(p content.Post) *Box {
	root, card := t.frame()

	head := &Box{Style: Style{Direction: Column, Gap: 20}}
	head.Children = append(head.Children, &Text{
		Content:  p.Title,
		Font:     Typography{Size: 72, LineHeight: 1.15},
		MaxLines: 3,
	})
	if desc := strings.TrimSpace(p.Description); desc != "" {
		head.Children = append(head.Children, &Text{
			Content:  desc,
			Font:     Typography{Size: 28, LineHeight: 1.3, Color: "#3b3b3b"},
			MaxLines: 2,
		})
	}

	footer := &Box{
		Style: Style{Direction: Row, Justify: JustifySpaceBetween, Align: AlignEnd, Gap: 24},
		Children: []Node{
			&Text{Content: "by " + p.Author, MaxLines: 1},
			&Text{Content: t.Site.Title, MaxLines: 1, Align: TextRight},
		},
	}
	card.Children = []Node{head, footer}
	return root
}

// SiteTree returns the site-wide preview tree: title and description centered
// with the host name in the footer.
func (t Template) SiteTree() *Box {
	root, card := t.frame()

	head := &Box{
		Style: Style{Direction: Column, Align: AlignCenter, Gap: 16},
		Children: []Node{
			&Text{Content: t.Site.Title, Font: Typography{Size: 72, LineHeight: 1.15}, MaxLines: 2, Align: TextCenter},
			&Text{Content: t.Site.Description, Font: Typography{Size: 28, LineHeight: 1.3}, MaxLines: 2, Align: TextCenter},
		},
	}
	middle := &Box{
		Style:    Style{Height: 340, Direction: Column, Justify: JustifyCenter},
		Children: []Node{head},
	}
	footer := &Box{
		Style:    Style{Direction: Row, Justify: JustifyEnd},
		Children: []Node{&Text{Content: t.Site.Host(), MaxLines: 1}},
	}
	card.Children = []Node{middle, footer}
	return root
}
