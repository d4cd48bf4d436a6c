// Package resources finds the sub-resources (images, scripts, stylesheets,
// frames) an HTML page pulls in, so a scenario can replay them as the
// page's embedded requests.
package resources

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/PuerkitoBio/purell"
	"golang.org/x/net/html"

	"github.com/raysh454/harplay/internal/model"
)

const normalizeFlags = purell.FlagsSafe | purell.FlagRemoveFragment

var skippedSchemes = []string{"data:", "javascript:", "about:", "mailto:", "tel:", "blob:"}

// HTMLExtractor implements interfaces.ResourceExtractor over goquery.
type HTMLExtractor struct{}

func NewHTMLExtractor() *HTMLExtractor {
	return &HTMLExtractor{}
}

// Extract returns absolute, de-duplicated resource URLs in document order.
// Resources inside IE conditional comments are included only when ua is an
// Internet Explorer whose version satisfies the condition.
func (x *HTMLExtractor) Extract(baseURL, document string, ua *model.UserAgent) []string {
	out := []string{}

	base, err := url.Parse(baseURL)
	if err != nil || !base.IsAbs() {
		return out
	}

	root, err := html.Parse(strings.NewReader(document))
	if err != nil {
		return out
	}
	doc := goquery.NewDocumentFromNode(root)

	if href, ok := doc.Find("base[href]").First().Attr("href"); ok {
		if b, err := base.Parse(strings.TrimSpace(href)); err == nil && b.IsAbs() {
			base = b
		}
	}

	w := &walker{base: base, ua: ua, seen: make(map[string]struct{}), out: out}
	w.walk(doc.Selection)
	return w.out
}

type walker struct {
	base *url.URL
	ua   *model.UserAgent
	seen map[string]struct{}
	out  []string
}

func (w *walker) walk(s *goquery.Selection) {
	s.Contents().Each(func(_ int, child *goquery.Selection) {
		n := child.Get(0)
		switch n.Type {
		case html.ElementNode:
			w.element(child, n.Data)
			w.walk(child)
		case html.CommentNode:
			w.comment(n.Data)
		}
	})
}

func (w *walker) element(s *goquery.Selection, tag string) {
	switch tag {
	case "img":
		w.attr(s, "src")
		w.srcset(s)
	case "script", "iframe", "frame", "embed":
		w.attr(s, "src")
	case "link":
		if rel, ok := s.Attr("rel"); ok && isResourceRel(rel) {
			w.attr(s, "href")
		}
	case "object":
		w.attr(s, "data")
	case "input":
		if strings.EqualFold(strings.TrimSpace(s.AttrOr("type", "")), "image") {
			w.attr(s, "src")
		}
	case "body":
		w.attr(s, "background")
	case "video":
		w.attr(s, "poster")
	case "source":
		w.attr(s, "src")
		w.srcset(s)
	case "style":
		w.css(s.Text())
	}

	if style, ok := s.Attr("style"); ok {
		w.css(style)
	}
}

func (w *walker) attr(s *goquery.Selection, name string) {
	if v, ok := s.Attr(name); ok {
		w.add(v)
	}
}

// srcset candidates are "url descriptor" pairs separated by commas.
func (w *walker) srcset(s *goquery.Selection) {
	v, ok := s.Attr("srcset")
	if !ok {
		return
	}
	for _, candidate := range strings.Split(v, ",") {
		if fields := strings.Fields(candidate); len(fields) > 0 {
			w.add(fields[0])
		}
	}
}

func (w *walker) css(text string) {
	for _, ref := range cssReferences(text) {
		w.add(ref)
	}
}

func (w *walker) comment(data string) {
	inner, ok := conditionalContent(data, w.ua)
	if !ok {
		return
	}
	root, err := html.Parse(strings.NewReader(inner))
	if err != nil {
		return
	}
	w.walk(goquery.NewDocumentFromNode(root).Selection)
}

func (w *walker) add(raw string) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.HasPrefix(raw, "#") {
		return
	}
	lower := strings.ToLower(raw)
	for _, p := range skippedSchemes {
		if strings.HasPrefix(lower, p) {
			return
		}
	}

	ref, err := url.Parse(raw)
	if err != nil {
		return
	}
	abs := w.base.ResolveReference(ref)
	if abs.Scheme != "http" && abs.Scheme != "https" {
		return
	}

	resolved := purell.NormalizeURL(abs, normalizeFlags)
	if _, dup := w.seen[resolved]; dup {
		return
	}
	w.seen[resolved] = struct{}{}
	w.out = append(w.out, resolved)
}

func isResourceRel(rel string) bool {
	for _, token := range strings.Fields(strings.ToLower(rel)) {
		switch token {
		case "stylesheet", "icon", "apple-touch-icon":
			return true
		}
	}
	return false
}
