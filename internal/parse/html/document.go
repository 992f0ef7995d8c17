// Package html wraps goquery/x-net-html into the tree-query surface
// the crawler needs: headline/article/figure extraction, canonical
// URL discovery, metadata, and link resolution.
package html

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/p4o1o/dysdera/internal/weburl"
)

// xmlDeclaration strips a leading XML or XML-comment processing
// instruction some feeds/pages prepend, which confuses HTML parsing
// otherwise (ground: original AntParser.__init__'s `<!--?xml` /
// `<?xml` handling).
var xmlDeclaration = regexp.MustCompile(`(?s)^\s*(<!--\?xml\s.*?\?-->|<\?xml\s.*?\?>)`)

// Document is a parsed HTML page.
type Document struct {
	doc *goquery.Document
}

// Parse builds a Document from a decoded text body.
func Parse(body string) (*Document, error) {
	cleaned := xmlDeclaration.ReplaceAllString(body, "")
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(cleaned))
	if err != nil {
		return nil, err
	}
	return &Document{doc: doc}, nil
}

// IsHTML reports whether the document has an <html> root element.
func (d *Document) IsHTML() bool {
	return d.doc.Find("html").Length() > 0
}

// PageTitle returns the <head><title> text, or "" if absent.
func (d *Document) PageTitle() string {
	return strings.TrimSpace(d.doc.Find("head title").First().Text())
}

// Headings returns the text of every h1-h3 element in the document.
func (d *Document) Headings() []string {
	return collectText(d.doc.Find("body h1, body h2, body h3"))
}

// ParagraphText returns the text of every <p> element in the document.
func (d *Document) ParagraphText() []string {
	return collectText(d.doc.Find("body p"))
}

// articleScope selects <article> elements, falling back to any element
// whose class attribute contains "article" (ground: original's
// `contains(@class, 'article')` xpath fallback).
func (d *Document) articleScope() *goquery.Selection {
	scope := d.doc.Find("body article")
	if scope.Length() > 0 {
		return scope
	}
	return d.doc.Find(`body [class*="article"]`)
}

// ArticleHeadings returns h1-h3 text within the article scope only.
func (d *Document) ArticleHeadings() []string {
	return collectText(d.articleScope().Find("h1, h2, h3"))
}

// ArticleText returns <p> text within the article scope only.
func (d *Document) ArticleText() []string {
	return collectText(d.articleScope().Find("p"))
}

// Figcaptions returns the text of every <figcaption> element.
func (d *Document) Figcaptions() []string {
	return collectText(d.doc.Find("body figcaption"))
}

// CanonicalURL returns the href of <link rel="canonical">, resolved
// against base, if present.
func (d *Document) CanonicalURL(base weburl.URL) (weburl.URL, bool) {
	href, ok := d.doc.Find(`link[rel="canonical"]`).First().Attr("href")
	if !ok || href == "" {
		return weburl.URL{}, false
	}
	u, err := base.Resolve(href)
	if err != nil {
		return weburl.URL{}, false
	}
	return u, true
}

// Metadata holds the page-level metadata fields.
type Metadata struct {
	Description string
	Keywords    string
	Author      string
	Language    string
}

// Metadata extracts description/keywords/author meta tags and the
// document's declared language.
func (d *Document) Metadata() Metadata {
	get := func(name string) string {
		v, _ := d.doc.Find(`meta[name="` + name + `"]`).First().Attr("content")
		return v
	}
	lang, _ := d.doc.Find("html").First().Attr("lang")
	return Metadata{
		Description: get("description"),
		Keywords:    get("keywords"),
		Author:      get("author"),
		Language:    lang,
	}
}

// Links returns every <a href> resolved against base, skipping a lone
// "/" and silently dropping malformed references.
func (d *Document) Links(base weburl.URL) []weburl.URL {
	var out []weburl.URL
	d.doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if href == "" || href == "/" {
			return
		}
		u, err := base.Resolve(href)
		if err != nil {
			return
		}
		out = append(out, u)
	})
	return out
}

func collectText(sel *goquery.Selection) []string {
	var out []string
	sel.Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if text != "" {
			out = append(out, text)
		}
	})
	return out
}

// CollapseWhitespace collapses runs of whitespace to a single space,
// used when building the persistence schema for a document sink.
func CollapseWhitespace(s string) string {
	return whitespaceRun.ReplaceAllString(strings.TrimSpace(s), " ")
}

var whitespaceRun = regexp.MustCompile(`\s+`)
