package dysdera

import (
	"context"
	"time"

	"github.com/p4o1o/dysdera/internal/policy"
	"github.com/p4o1o/dysdera/internal/weburl"
)

// WebURL is the crawler's normalized, comparable URL value.
type WebURL = weburl.URL

// SelectionFunc decides whether a fetched page should be visited or
// crawled further.
type SelectionFunc = policy.SelectionFunc

// SitemapSelectionFunc is the sitemap-entry counterpart.
type SitemapSelectionFunc = policy.SitemapSelectionFunc

// SameDomain reports whether a page's URL shares a host with any of domains.
func SameDomain(domains ...string) SelectionFunc { return policy.SameDomain(domains...) }

// Not negates a selection predicate.
func Not(f SelectionFunc) SelectionFunc { return policy.Not(f) }

// AllTrue requires every predicate to hold.
func AllTrue(fs ...SelectionFunc) SelectionFunc { return policy.AllTrue(fs...) }

// AtLeastOneTrue requires at least one predicate to hold.
func AtLeastOneTrue(fs ...SelectionFunc) SelectionFunc { return policy.AtLeastOneTrue(fs...) }

// MustContain reports whether the page's URL contains word.
func MustContain(word string) SelectionFunc { return policy.MustContain(word) }

// ModifyOnlyBefore reports whether the page's Last-Modified header predates date.
func ModifyOnlyBefore(date time.Time, ifAbsent bool) SelectionFunc {
	return policy.ModifyOnlyBefore(date, ifAbsent)
}

// ModifyOnlyAfter reports whether the page's Last-Modified header postdates date.
func ModifyOnlyAfter(date time.Time, ifAbsent bool) SelectionFunc {
	return policy.ModifyOnlyAfter(date, ifAbsent)
}

// ModifyBetween reports whether the page's Last-Modified header falls
// strictly between start and end.
func ModifyBetween(start, end time.Time, ifAbsent bool) SelectionFunc {
	return policy.ModifyBetween(start, end, ifAbsent)
}

// SitemapModifyBetween is ModifyBetween's sitemap-entry counterpart.
func SitemapModifyBetween(start, end time.Time, ifAbsent bool) SitemapSelectionFunc {
	return policy.SitemapModifyBetween(start, end, ifAbsent)
}

// SitemapIsNews reports whether a sitemap entry carries a news extension.
func SitemapIsNews() SitemapSelectionFunc { return policy.SitemapIsNews() }

// SitemapNewsContains reports whether word appears in an entry's news
// title, name, or keywords.
func SitemapNewsContains(word string) SitemapSelectionFunc { return policy.SitemapNewsContains(word) }

// AgedSelection reports whether source has no record for the page's
// URL, or recorded one older than maxAge.
func AgedSelection(source LastVisitSource, maxAge time.Duration, notPresent bool) SelectionFunc {
	return policy.AgedSelection(source, maxAge, notPresent)
}

// LastModifiedSince builds a dload_if_modified_since callback backed by
// source, generalizing the original's MongoMemoryPolicy.was_not_modified.
func LastModifiedSince(source LastVisitSource) func(ctx context.Context, u WebURL) (time.Time, bool) {
	return func(_ context.Context, u WebURL) (time.Time, bool) {
		return source.LastVisit(u)
	}
}
