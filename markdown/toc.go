package markdown

import (
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

var headingsKey = parser.NewContextKey()

// KindDetails is the node kind of a collapsible section.
var KindDetails = ast.NewNodeKind("Details")

// Details is a block rendered as <details> with a <summary>.
type Details struct {
	ast.BaseBlock
	Summary string
}

// Kind implements ast.Node.
func (n *Details) Kind() ast.NodeKind { return KindDetails }

// Dump implements ast.Node.
func (n *Details) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Summary": n.Summary}, nil)
}

// tocTransformer collects headings and replaces the section under the
// table-of-contents heading with a collapsible nested list of links.
type tocTransformer struct {
	cfg *config
}

func (t *tocTransformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	source := reader.Source()

	var headings []Heading
	var tocNode *ast.Heading
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		h, ok := n.(*ast.Heading)
		if !ok {
			continue
		}
		txt := strings.TrimSpace(plainText(h, source))
		if tocNode == nil && strings.EqualFold(txt, t.cfg.tocHeading) {
			tocNode = h
			continue
		}
		headings = append(headings, Heading{Level: h.Level, ID: headingID(h), Text: txt})
	}
	pc.Set(headingsKey, headings)

	if tocNode == nil {
		return
	}

	// Drop whatever sat between the heading and the next heading.
	for n := tocNode.NextSibling(); n != nil; {
		if _, ok := n.(*ast.Heading); ok {
			break
		}
		next := n.NextSibling()
		doc.RemoveChild(doc, n)
		n = next
	}

	var entries []Heading
	for _, h := range headings {
		if h.Level >= t.cfg.tocMin && h.Level <= t.cfg.tocMax && h.ID != "" {
			entries = append(entries, h)
		}
	}
	if len(entries) == 0 {
		return
	}
	details := &Details{Summary: "Open " + t.cfg.tocHeading}
	details.AppendChild(details, buildTOCList(entries))
	doc.InsertAfter(doc, tocNode, details)
}

func buildTOCList(entries []Heading) *ast.List {
	base := entries[0].Level
	for _, e := range entries {
		if e.Level < base {
			base = e.Level
		}
	}

	type level struct {
		list  *ast.List
		depth int
	}
	root := newTightList()
	stack := []level{{list: root, depth: base}}
	for _, e := range entries {
		for len(stack) > 1 && e.Level < stack[len(stack)-1].depth {
			stack = stack[:len(stack)-1]
		}
		top := stack[len(stack)-1]
		if e.Level > top.depth {
			parent, ok := top.list.LastChild().(*ast.ListItem)
			if !ok {
				parent = ast.NewListItem(2)
				top.list.AppendChild(top.list, parent)
			}
			sub := newTightList()
			parent.AppendChild(parent, sub)
			stack = append(stack, level{list: sub, depth: e.Level})
			top = stack[len(stack)-1]
		}

		link := ast.NewLink()
		link.Destination = []byte("#" + e.ID)
		link.AppendChild(link, ast.NewString([]byte(e.Text)))
		block := ast.NewTextBlock()
		block.AppendChild(block, link)
		item := ast.NewListItem(2)
		item.AppendChild(item, block)
		top.list.AppendChild(top.list, item)
	}
	return root
}

func newTightList() *ast.List {
	l := ast.NewList('-')
	l.IsTight = true
	return l
}

func headingID(h *ast.Heading) string {
	v, ok := h.AttributeString("id")
	if !ok {
		return ""
	}
	switch id := v.(type) {
	case []byte:
		return string(id)
	case string:
		return id
	}
	return ""
}

// plainText concatenates the text content below n.
func plainText(n ast.Node, source []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(source))
			if t.SoftLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}

type detailsRenderer struct{}

func (r *detailsRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindDetails, r.render)
}

func (r *detailsRenderer) render(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	n := node.(*Details)
	if entering {
		_, _ = w.WriteString("<details><summary>")
		_, _ = w.Write(util.EscapeHTML([]byte(n.Summary)))
		_, _ = w.WriteString("</summary>\n")
		return ast.WalkContinue, nil
	}
	_, _ = w.WriteString("</details>\n")
	return ast.WalkContinue, nil
}
