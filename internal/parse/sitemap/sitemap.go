// Package sitemap parses XML sitemaps: sitemap indexes (lists of child
// sitemap URLs) and urlsets (lists of target pages, optionally carrying
// Google News extension fields). Namespace handling mirrors the
// teacher's RSS parser's sniff-then-unmarshal technique
// (ground: _examples/Nibir1-Aether/internal/rss/parser.go), generalized
// to the sitemapindex/urlset root-element dispatch this format needs.
//
// Namespaces recognized (spec.md §6): sitemaps.org/schemas/sitemap/0.9
// (primary), google.com/schemas/sitemap/0.84 (legacy), and the
// sitemap-news/0.9 extension. encoding/xml matches elements by local
// name when a struct tag carries no namespace prefix, so a single set
// of struct tags transparently accepts both the primary and legacy
// namespace without per-namespace branching.
package sitemap

import (
	"bytes"
	"encoding/xml"
	"sort"
	"strings"

	"github.com/p4o1o/dysdera/internal/crawlerr"
	"github.com/p4o1o/dysdera/internal/weburl"
)

// IndexEntry is one child sitemap referenced by a sitemap index.
type IndexEntry struct {
	URL     weburl.URL
	Lastmod string
}

// Index is a parsed <sitemapindex>.
type Index struct {
	Entries    []IndexEntry
	HasLastmod bool
}

// NewsEntry holds the Google News extension fields of a urlset entry.
type NewsEntry struct {
	Name            string
	Language        string
	PublicationDate string
	Title           string
	Keywords        string
}

// URLEntry is one target page referenced by a urlset.
type URLEntry struct {
	URL        weburl.URL
	Lastmod    string
	ChangeFreq string
	Priority   string
	News       *NewsEntry
}

// URLSet is a parsed <urlset>.
type URLSet struct {
	Entries []URLEntry
}

type xmlLoc struct {
	Text string `xml:",chardata"`
}

type xmlSitemapEntry struct {
	Loc     xmlLoc  `xml:"loc"`
	Lastmod *string `xml:"lastmod"`
}

type xmlSitemapIndex struct {
	XMLName  xml.Name          `xml:"sitemapindex"`
	Sitemaps []xmlSitemapEntry `xml:"sitemap"`
}

type xmlNews struct {
	Publication struct {
		Name     string `xml:"name"`
		Language string `xml:"language"`
	} `xml:"publication"`
	PublicationDate string `xml:"publication_date"`
	Title           string `xml:"title"`
	Keywords        string `xml:"keywords"`
}

type xmlURLEntry struct {
	Loc        xmlLoc   `xml:"loc"`
	Lastmod    *string  `xml:"lastmod"`
	ChangeFreq *string  `xml:"changefreq"`
	Priority   *string  `xml:"priority"`
	News       *xmlNews `xml:"news"`
}

type xmlURLSet struct {
	XMLName xml.Name      `xml:"urlset"`
	URLs    []xmlURLEntry `xml:"url"`
}

// rootName peeks at the document's root element without fully decoding
// it, to choose which struct to unmarshal into.
func rootName(body []byte) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(body))
	for {
		tok, err := dec.Token()
		if err != nil {
			return "", crawlerr.New(crawlerr.KindMalformedXML, "reading sitemap root element", err)
		}
		if start, ok := tok.(xml.StartElement); ok {
			return start.Name.Local, nil
		}
	}
}

// Parse dispatches on the root element and returns either an Index or
// a URLSet (exactly one of the two return values is non-nil).
func Parse(body []byte, base weburl.URL) (*Index, *URLSet, error) {
	root, err := rootName(body)
	if err != nil {
		return nil, nil, err
	}

	switch root {
	case "sitemapindex":
		var raw xmlSitemapIndex
		if err := xml.Unmarshal(body, &raw); err != nil {
			return nil, nil, crawlerr.New(crawlerr.KindMalformedXML, "parsing sitemap index", err)
		}
		idx, err := buildIndex(raw, base)
		return idx, nil, err
	case "urlset":
		var raw xmlURLSet
		if err := xml.Unmarshal(body, &raw); err != nil {
			return nil, nil, crawlerr.New(crawlerr.KindMalformedXML, "parsing urlset", err)
		}
		set, err := buildURLSet(raw, base)
		return nil, set, err
	default:
		return nil, nil, crawlerr.UnsupportedSitemap(root)
	}
}

func buildIndex(raw xmlSitemapIndex, base weburl.URL) (*Index, error) {
	idx := &Index{}
	for _, s := range raw.Sitemaps {
		loc := strings.TrimSpace(s.Loc.Text)
		if loc == "" {
			continue
		}
		u, err := weburl.Parse(loc, &base)
		if err != nil {
			continue
		}
		entry := IndexEntry{URL: u}
		if s.Lastmod != nil && strings.TrimSpace(*s.Lastmod) != "" {
			entry.Lastmod = strings.TrimSpace(*s.Lastmod)
			idx.HasLastmod = true
		}
		idx.Entries = append(idx.Entries, entry)
	}
	if idx.HasLastmod {
		sort.SliceStable(idx.Entries, func(i, j int) bool {
			return idx.Entries[i].Lastmod < idx.Entries[j].Lastmod
		})
	}
	return idx, nil
}

func buildURLSet(raw xmlURLSet, base weburl.URL) (*URLSet, error) {
	set := &URLSet{}
	for _, u := range raw.URLs {
		loc := strings.TrimSpace(u.Loc.Text)
		if loc == "" {
			continue
		}
		parsed, err := weburl.Parse(loc, &base)
		if err != nil {
			continue
		}
		entry := URLEntry{URL: parsed}
		if u.Lastmod != nil {
			entry.Lastmod = strings.TrimSpace(*u.Lastmod)
		}
		if u.ChangeFreq != nil {
			entry.ChangeFreq = strings.TrimSpace(*u.ChangeFreq)
		}
		if u.Priority != nil {
			entry.Priority = strings.TrimSpace(*u.Priority)
		}
		if u.News != nil {
			entry.News = &NewsEntry{
				Name:            strings.TrimSpace(u.News.Publication.Name),
				Language:        strings.TrimSpace(u.News.Publication.Language),
				PublicationDate: strings.TrimSpace(u.News.PublicationDate),
				Title:           strings.TrimSpace(u.News.Title),
				Keywords:        strings.TrimSpace(u.News.Keywords),
			}
		}
		set.Entries = append(set.Entries, entry)
	}
	return set, nil
}
