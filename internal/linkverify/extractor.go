// Package linkverify checks the relative links of a generated site.
package linkverify

import (
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"git.home.luguber.info/inful/sitegen/internal/foundation/errors"
)

// Link is a URL reference found in an HTML document.
type Link struct {
	URL       string
	Tag       string // a, img, script, link, source
	Attribute string // href or src
}

var linkAttrs = map[string]string{
	"a":      "href",
	"link":   "href",
	"img":    "src",
	"script": "src",
	"source": "src",
	"video":  "src",
	"audio":  "src",
}

// ExtractLinks returns every link-bearing attribute in document order.
func ExtractLinks(r io.Reader) ([]Link, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryValidation, "failed to parse HTML").
			WithSeverity(errors.SeverityError).
			Build()
	}

	var links []Link
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if attr, ok := linkAttrs[n.Data]; ok {
				if v := strings.TrimSpace(getAttr(n, attr)); v != "" {
					links = append(links, Link{URL: v, Tag: n.Data, Attribute: attr})
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return links, nil
}

func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

// IsLocal reports whether the link targets a file of the generated site:
// no scheme, no host and not a pure fragment.
func IsLocal(link string) bool {
	if link == "" || strings.HasPrefix(link, "#") || strings.HasPrefix(link, "//") {
		return false
	}
	u, err := url.Parse(link)
	if err != nil {
		return false
	}
	return u.Scheme == "" && u.Host == "" && u.Path != ""
}
