// Package richtext cleans the HTML-bearing body text of sections before it
// is rendered into the public page.
package richtext

import (
	"bytes"
	"html/template"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Elements removed together with their content.
var dropped = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Template: true,
	atom.Iframe:   true,
	atom.Object:   true,
	atom.Embed:    true,
	atom.Form:     true,
	atom.Input:    true,
	atom.Button:   true,
	atom.Textarea: true,
	atom.Select:   true,
	atom.Link:     true,
	atom.Meta:     true,
	atom.Base:     true,
	atom.Svg:      true,
	atom.Math:     true,
}

// Elements kept as is. Anything else is replaced by its cleaned children.
var allowed = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Span: true, atom.Br: true,
	atom.A: true, atom.Strong: true, atom.B: true, atom.Em: true, atom.I: true, atom.U: true,
	atom.Ul: true, atom.Ol: true, atom.Li: true, atom.Blockquote: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Img: true, atom.Code: true, atom.Pre: true,
}

var allowedAttrs = map[string]bool{
	"href": true, "src": true, "alt": true, "title": true,
	"class": true, "target": true, "rel": true, "width": true, "height": true,
}

var urlAttrs = map[string]bool{"href": true, "src": true}

// Sanitize parses raw as a body fragment and renders back only the allowed
// elements and attributes. Unknown elements are replaced by their content.
// Plain text passes through escaped.
func Sanitize(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(raw), body)
	if err != nil {
		return template.HTMLEscapeString(raw)
	}

	root := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	for _, n := range nodes {
		root.AppendChild(n)
	}
	clean(root)

	var out bytes.Buffer
	for n := root.FirstChild; n != nil; n = n.NextSibling {
		if err := html.Render(&out, n); err != nil {
			return template.HTMLEscapeString(raw)
		}
	}
	return out.String()
}

// HTML returns the sanitized fragment typed for html/template.
func HTML(raw string) template.HTML {
	return template.HTML(Sanitize(raw))
}

// Text strips all markup and collapses whitespace.
func Text(raw string) string {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(raw), body)
	if err != nil {
		return strings.Join(strings.Fields(raw), " ")
	}
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && dropped[n.DataAtom] {
			return
		}
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range nodes {
		walk(n)
	}
	return strings.Join(strings.Fields(sb.String()), " ")
}

func clean(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		switch {
		case c.Type == html.CommentNode, c.Type == html.ElementNode && dropped[c.DataAtom]:
			n.RemoveChild(c)
		case c.Type != html.ElementNode:
		case !allowed[c.DataAtom] || c.Namespace != "":
			clean(c)
			for gc := c.FirstChild; gc != nil; gc = c.FirstChild {
				c.RemoveChild(gc)
				n.InsertBefore(gc, c)
			}
			n.RemoveChild(c)
		default:
			c.Attr = cleanAttrs(c.Attr)
			clean(c)
		}
		c = next
	}
}

func cleanAttrs(in []html.Attribute) []html.Attribute {
	attrs := in[:0]
	for _, a := range in {
		key := strings.ToLower(a.Key)
		if a.Namespace != "" || !allowedAttrs[key] {
			continue
		}
		if urlAttrs[key] && unsafeURL(a.Val) {
			continue
		}
		attrs = append(attrs, a)
	}
	return attrs
}

func unsafeURL(raw string) bool {
	v := strings.ToLower(strings.Join(strings.Fields(raw), ""))
	return strings.HasPrefix(v, "javascript:") || strings.HasPrefix(v, "vbscript:") ||
		(strings.HasPrefix(v, "data:") && !strings.HasPrefix(v, "data:image/"))
}
