package dysdera

import (
	"github.com/p4o1o/dysdera/internal/fetch"
	"github.com/p4o1o/dysdera/internal/parse/html"
	"github.com/p4o1o/dysdera/internal/parse/sitemap"
	"github.com/p4o1o/dysdera/internal/worker"
)

// PageState is one URL's progress through the fetch pipeline.
type PageState = fetch.PageState

// SitemapEntry is one target page referenced by a sitemap urlset.
type SitemapEntry = sitemap.URLEntry

// Document is a parsed HTML page.
type Document = html.Document

// ExtractInput is everything a Sink needs to persist one fetched page.
type ExtractInput = worker.ExtractInput

// Sink receives every page the policy decided to fetch, after robots
// and duplicate filtering. Implementations must be safe for concurrent
// use: workers for different origins call Extract concurrently.
type Sink = worker.Sink
