package policy

import (
	"context"
	"strings"
	"time"

	"github.com/p4o1o/dysdera/internal/fetch"
	"github.com/p4o1o/dysdera/internal/parse/sitemap"
	"github.com/p4o1o/dysdera/internal/weburl"
)

// SelectionFunc decides whether a fetched page should be visited or
// crawled further.
type SelectionFunc func(ctx context.Context, page *fetch.PageState) bool

// SitemapSelectionFunc is the sitemap-entry counterpart.
type SitemapSelectionFunc func(entry sitemap.URLEntry) bool

// SameDomain reports whether the page's URL shares a host with any of
// domains. Domains are compared by weburl.URL.SameHost, matching the
// original's URL.same_domain.
func SameDomain(domains ...string) SelectionFunc {
	targets := make([]weburl.URL, 0, len(domains))
	for _, d := range domains {
		if u, err := weburl.Parse(d, nil); err == nil {
			targets = append(targets, u)
		}
	}
	return func(_ context.Context, page *fetch.PageState) bool {
		for _, t := range targets {
			if page.URL.SameHost(t) {
				return true
			}
		}
		return false
	}
}

// Not negates a selection predicate.
func Not(f SelectionFunc) SelectionFunc {
	return func(ctx context.Context, page *fetch.PageState) bool { return !f(ctx, page) }
}

// AllTrue requires every predicate to hold.
func AllTrue(fs ...SelectionFunc) SelectionFunc {
	return func(ctx context.Context, page *fetch.PageState) bool {
		for _, f := range fs {
			if !f(ctx, page) {
				return false
			}
		}
		return true
	}
}

// AtLeastOneTrue requires at least one predicate to hold.
func AtLeastOneTrue(fs ...SelectionFunc) SelectionFunc {
	return func(ctx context.Context, page *fetch.PageState) bool {
		for _, f := range fs {
			if f(ctx, page) {
				return true
			}
		}
		return false
	}
}

// MustContain reports whether the page's URL contains word, matching
// the original's SelectionPolicy.must_contain.
func MustContain(word string) SelectionFunc {
	word = strings.ToLower(word)
	return func(_ context.Context, page *fetch.PageState) bool {
		return strings.Contains(strings.ToLower(page.URL.String()), word)
	}
}

// ModifyOnlyBefore reports whether the page's Last-Modified header
// predates date; ifAbsent is returned when no header was captured.
func ModifyOnlyBefore(date time.Time, ifAbsent bool) SelectionFunc {
	return func(_ context.Context, page *fetch.PageState) bool {
		if page.Head.LastModified.IsZero() {
			return ifAbsent
		}
		return page.Head.LastModified.Before(date)
	}
}

// ModifyOnlyAfter reports whether the page's Last-Modified header
// postdates date; ifAbsent is returned when no header was captured.
func ModifyOnlyAfter(date time.Time, ifAbsent bool) SelectionFunc {
	return func(_ context.Context, page *fetch.PageState) bool {
		if page.Head.LastModified.IsZero() {
			return ifAbsent
		}
		return page.Head.LastModified.After(date)
	}
}

// ModifyBetween reports whether the page's Last-Modified header falls
// strictly between start and end. The resolved semantics require
// start < t < end (the original's guard, read literally, never holds
// for a conforming clock; this module follows the evidently intended
// strict-interval reading instead).
func ModifyBetween(start, end time.Time, ifAbsent bool) SelectionFunc {
	return func(_ context.Context, page *fetch.PageState) bool {
		if page.Head.LastModified.IsZero() {
			return ifAbsent
		}
		t := page.Head.LastModified
		return t.After(start) && t.Before(end)
	}
}

// SitemapModifyBetween is ModifyBetween's sitemap-entry counterpart,
// operating on an entry's parsed Lastmod field.
func SitemapModifyBetween(start, end time.Time, ifAbsent bool) SitemapSelectionFunc {
	return func(entry sitemap.URLEntry) bool {
		if entry.Lastmod == "" {
			return ifAbsent
		}
		t, ok := parseLenientDate(entry.Lastmod)
		if !ok {
			return ifAbsent
		}
		return t.After(start) && t.Before(end)
	}
}

// SitemapIsNews reports whether an entry carries a news extension.
func SitemapIsNews() SitemapSelectionFunc {
	return func(entry sitemap.URLEntry) bool { return entry.News != nil }
}

// SitemapNewsContains reports whether word appears in an entry's news
// title, name, or keywords (case-insensitive), matching the original's
// SitemapSelectionPolicy.news_contains.
func SitemapNewsContains(word string) SitemapSelectionFunc {
	word = strings.ToLower(word)
	return func(entry sitemap.URLEntry) bool {
		if entry.News == nil {
			return false
		}
		if strings.Contains(strings.ToLower(entry.News.Title), word) {
			return true
		}
		if strings.Contains(strings.ToLower(entry.News.Name), word) {
			return true
		}
		return strings.Contains(strings.ToLower(entry.News.Keywords), word)
	}
}

// AgedSelection reports whether a LastVisitSource has no record for
// the page's URL, or recorded one older than maxAge.
func AgedSelection(source LastVisitSource, maxAge time.Duration, notPresent bool) SelectionFunc {
	return func(_ context.Context, page *fetch.PageState) bool {
		last, ok := source.LastVisit(page.URL)
		if !ok {
			return notPresent
		}
		return time.Since(last) > maxAge
	}
}

// SameDomainPolicy builds a Policy that only visits pages in the given
// domains and follows outlinks from every page it visits, matching the
// original's DomainPolicy: selection restricted to the domain set,
// focus wide open.
func SameDomainPolicy(domains ...string) *Policy {
	p := Default()
	p.SelectionPolicy = SameDomain(domains...)
	return p
}

// ExtendedDomainPolicy builds a Policy that visits every page reached
// but only crawls onward from pages in the given domains, matching the
// original's ExtendedDomainPolicy.
func ExtendedDomainPolicy(domains ...string) *Policy {
	p := Default()
	p.FocusPolicy = SameDomain(domains...)
	return p
}
