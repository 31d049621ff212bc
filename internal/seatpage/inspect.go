package seatpage

import (
	"io"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// PageInfo is what Inspect extracts from a seat page.
type PageInfo struct {
	// Title is the text of the <title> element.
	Title string

	// IDs are all element id attributes in document order.
	IDs []string

	// ScriptSources are the src attributes of external scripts.
	ScriptSources []string

	// InlineScripts are the bodies of inline <script> elements.
	InlineScripts []string
}

// seatOneID matches ids that still belong to seat 1, e.g. "seat1-count" or
// "SEAT1-legacy". Case is ignored because the rules are not.
var seatOneID = regexp.MustCompile(`(?i)(^|[^0-9])seat1($|[^0-9])`)

// Inspect parses an HTML page and collects its title, ids and scripts.
func Inspect(r io.Reader) (*PageInfo, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	info := &PageInfo{
		IDs:           make([]string, 0),
		ScriptSources: make([]string, 0),
		InlineScripts: make([]string, 0),
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if id := getAttr(n, "id"); id != "" {
				info.IDs = append(info.IDs, id)
			}
			switch n.Data {
			case "title":
				if n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
					info.Title = strings.TrimSpace(n.FirstChild.Data)
				}
			case "script":
				if src := getAttr(n, "src"); src != "" {
					info.ScriptSources = append(info.ScriptSources, src)
				} else if n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
					info.InlineScripts = append(info.InlineScripts, n.FirstChild.Data)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return info, nil
}

// LeftoverIDs returns the ids that still name seat 1.
func (p *PageInfo) LeftoverIDs() []string {
	var ids []string
	for _, id := range p.IDs {
		if seatOneID.MatchString(id) {
			ids = append(ids, id)
		}
	}
	return ids
}

func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
