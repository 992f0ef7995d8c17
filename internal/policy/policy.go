// Package policy implements the crawler's pluggable Policy bundle: the
// predicates and cost functions that decide what gets visited,
// followed, and how it is prioritized (spec.md §4.7).
//
// Ground: _examples/original_source/dysdera/policy.py's Policy class;
// represented here as a struct of function fields rather than an
// object with overridable methods, per spec.md §9's "record of
// function values" guidance for statically-typed targets.
package policy

import (
	"context"
	"time"

	"github.com/p4o1o/dysdera/internal/fetch"
	"github.com/p4o1o/dysdera/internal/parse/html"
	"github.com/p4o1o/dysdera/internal/parse/sitemap"
	"github.com/p4o1o/dysdera/internal/weburl"
)

// LastVisitSource supplies the timestamp a URL was last fetched, used
// to compute the conditional-request hint. It generalizes the
// original's MongoMemoryPolicy.was_not_modified without hardcoding a
// database.
type LastVisitSource interface {
	LastVisit(u weburl.URL) (time.Time, bool)
}

// Policy bundles every option spec.md §4.7 names.
type Policy struct {
	FocusPolicy            func(ctx context.Context, page *fetch.PageState) bool
	SelectionPolicy        func(ctx context.Context, page *fetch.PageState) bool
	SitemapSelectionPolicy func(entry sitemap.URLEntry) bool
	HeadersBeforeVisit     func(ctx context.Context, page *fetch.PageState) bool
	SchedulingCost         func(page *fetch.PageState) int
	SitemapSchedulingCost  func(entry sitemap.URLEntry) int
	RespectRobots          bool
	AgentName              string
	CanonicalURL           bool
	DefaultDelay           time.Duration
	ForceWithoutSSL        func(page *fetch.PageState) bool
	VisitSitemap           func(origin string) bool
	DloadIfModifiedSince   func(ctx context.Context, u weburl.URL) (time.Time, bool)
}

// Default returns a Policy with every option at the bracketed default
// from spec.md §4.7: visit and follow everything, robots respected,
// canonical URLs followed, sitemaps visited, no conditional hint.
func Default() *Policy {
	return &Policy{
		FocusPolicy:            func(context.Context, *fetch.PageState) bool { return true },
		SelectionPolicy:        func(context.Context, *fetch.PageState) bool { return true },
		SitemapSelectionPolicy: func(sitemap.URLEntry) bool { return true },
		HeadersBeforeVisit:     func(context.Context, *fetch.PageState) bool { return false },
		SchedulingCost:         func(*fetch.PageState) int { return 1 },
		SitemapSchedulingCost:  func(sitemap.URLEntry) int { return 1 },
		RespectRobots:          true,
		CanonicalURL:           true,
		DefaultDelay:           5 * time.Second,
		ForceWithoutSSL:        func(*fetch.PageState) bool { return false },
		VisitSitemap:           func(string) bool { return true },
		DloadIfModifiedSince: func(context.Context, weburl.URL) (time.Time, bool) {
			return time.Time{}, false
		},
	}
}

// ShouldVisit composes selection_policy with, when a sitemap context
// is given, sitemap_selection_policy (spec.md §4.7).
func (p *Policy) ShouldVisit(ctx context.Context, page *fetch.PageState, entry *sitemap.URLEntry) bool {
	if !p.SelectionPolicy(ctx, page) {
		return false
	}
	if entry == nil {
		return true
	}
	return p.SitemapSelectionPolicy(*entry)
}

// ShouldCrawl requires both header-based and body-based HTML
// confirmation before consulting focus_policy (spec.md §4.7/§4.8).
func (p *Policy) ShouldCrawl(ctx context.Context, page *fetch.PageState, doc *html.Document) bool {
	if !page.IsHTML() || doc == nil || !doc.IsHTML() {
		return false
	}
	return p.FocusPolicy(ctx, page)
}

// QueueWeight is the cost used for a plain (non-sitemap) enqueue.
func (p *Policy) QueueWeight(page *fetch.PageState) int {
	return p.SchedulingCost(page)
}

// SitemapQueueWeight sums the general scheduling cost with the
// sitemap-specific cost, per the spec's resolved Open Question on
// sitemap cost weighting (spec.md §9).
func (p *Policy) SitemapQueueWeight(page *fetch.PageState, entry sitemap.URLEntry) int {
	return p.SchedulingCost(page) + p.SitemapSchedulingCost(entry)
}

// EffectiveDelay returns robotsDelay if positive, else DefaultDelay.
func (p *Policy) EffectiveDelay(robotsDelay int) time.Duration {
	if robotsDelay > 0 {
		return time.Duration(robotsDelay) * time.Second
	}
	return p.DefaultDelay
}
