package policy

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/p4o1o/dysdera/internal/fetch"
	"github.com/p4o1o/dysdera/internal/parse/sitemap"
	"github.com/p4o1o/dysdera/internal/weburl"
)

func pageAt(raw string) *fetch.PageState {
	return fetch.New(weburl.MustParse(raw), fetch.TargetWeb, nil, nil)
}

func TestDefault_VisitsAndCrawlsEverything(t *testing.T) {
	p := Default()
	ctx := context.Background()
	page := pageAt("https://example.com/a")
	assert.True(t, p.ShouldVisit(ctx, page, nil))
	assert.Equal(t, 1, p.QueueWeight(page))
}

func TestShouldCrawl_RequiresHeadReportedHTML(t *testing.T) {
	p := Default()
	page := pageAt("https://example.com/a")
	assert.False(t, p.ShouldCrawl(context.Background(), page, nil))
}

func TestShouldVisit_ConsultsSitemapSelectionWhenEntryGiven(t *testing.T) {
	p := Default()
	p.SitemapSelectionPolicy = func(sitemap.URLEntry) bool { return false }
	ctx := context.Background()
	page := pageAt("https://example.com/a")
	entry := sitemap.URLEntry{URL: page.URL}
	assert.False(t, p.ShouldVisit(ctx, page, &entry))
	assert.True(t, p.ShouldVisit(ctx, page, nil))
}

func TestEffectiveDelay_PrefersRobotsDelay(t *testing.T) {
	p := Default()
	assert.Equal(t, 3*time.Second, p.EffectiveDelay(3))
	assert.Equal(t, p.DefaultDelay, p.EffectiveDelay(0))
}

func TestSitemapQueueWeight_SumsBothCosts(t *testing.T) {
	p := Default()
	p.SchedulingCost = func(*fetch.PageState) int { return 2 }
	p.SitemapSchedulingCost = func(sitemap.URLEntry) int { return 5 }
	page := pageAt("https://example.com/a")
	assert.Equal(t, 7, p.SitemapQueueWeight(page, sitemap.URLEntry{}))
}

func TestSameDomainPolicy_RestrictsSelectionNotFocus(t *testing.T) {
	p := SameDomainPolicy("https://example.com")
	ctx := context.Background()
	assert.True(t, p.ShouldVisit(ctx, pageAt("https://example.com/a"), nil))
	assert.False(t, p.ShouldVisit(ctx, pageAt("https://other.com/a"), nil))
}

func TestExtendedDomainPolicy_RestrictsFocusNotSelection(t *testing.T) {
	p := ExtendedDomainPolicy("https://example.com")
	ctx := context.Background()
	assert.True(t, p.ShouldVisit(ctx, pageAt("https://other.com/a"), nil))
	assert.True(t, p.FocusPolicy(ctx, pageAt("https://example.com/a")))
	assert.False(t, p.FocusPolicy(ctx, pageAt("https://other.com/a")))
}

func TestSumCost_WeightedSum(t *testing.T) {
	a := func(*fetch.PageState) int { return 2 }
	b := func(*fetch.PageState) int { return 3 }
	cost := SumCost([]WeightedCostFunc{{Func: a, Weight: 10}, {Func: b, Weight: 1}})
	require.Equal(t, 23, cost(pageAt("https://example.com/a")))
}

func TestURLContains_CaseInsensitive(t *testing.T) {
	cost := URLContains("BLOG", 5, 1)
	assert.Equal(t, 5, cost(pageAt("https://example.com/blog/post")))
	assert.Equal(t, 1, cost(pageAt("https://example.com/about")))
}

func TestSitemapLatestModify_NegatesUnixTimestamp(t *testing.T) {
	cost := SitemapLatestModify(0)
	earlier := sitemap.URLEntry{Lastmod: "2020-01-01"}
	later := sitemap.URLEntry{Lastmod: "2024-01-01"}
	assert.Less(t, cost(later), cost(earlier))
}

func TestSitemapLatestModify_MissingWhenUnparseable(t *testing.T) {
	cost := SitemapLatestModify(42)
	assert.Equal(t, 42, cost(sitemap.URLEntry{Lastmod: "not-a-date"}))
	assert.Equal(t, 42, cost(sitemap.URLEntry{}))
}

func TestAllTrue_ShortCircuitsOnFirstFalse(t *testing.T) {
	ctx := context.Background()
	yes := func(context.Context, *fetch.PageState) bool { return true }
	no := func(context.Context, *fetch.PageState) bool { return false }
	assert.False(t, AllTrue(yes, no, yes)(ctx, pageAt("https://example.com/a")))
	assert.True(t, AllTrue(yes, yes)(ctx, pageAt("https://example.com/a")))
}

func TestAtLeastOneTrue(t *testing.T) {
	ctx := context.Background()
	no := func(context.Context, *fetch.PageState) bool { return false }
	yes := func(context.Context, *fetch.PageState) bool { return true }
	assert.True(t, AtLeastOneTrue(no, yes)(ctx, pageAt("https://example.com/a")))
	assert.False(t, AtLeastOneTrue(no, no)(ctx, pageAt("https://example.com/a")))
}

func TestMustContain(t *testing.T) {
	ctx := context.Background()
	f := MustContain("blog")
	assert.True(t, f(ctx, pageAt("https://example.com/blog/x")))
	assert.False(t, f(ctx, pageAt("https://example.com/about")))
}

func TestSitemapNewsContains_SearchesTitleNameAndKeywords(t *testing.T) {
	f := SitemapNewsContains("earnings")
	assert.True(t, f(sitemap.URLEntry{News: &sitemap.NewsEntry{Title: "Q3 Earnings Report"}}))
	assert.True(t, f(sitemap.URLEntry{News: &sitemap.NewsEntry{Keywords: "earnings, stocks"}}))
	assert.False(t, f(sitemap.URLEntry{News: &sitemap.NewsEntry{Title: "Weather"}}))
	assert.False(t, f(sitemap.URLEntry{}))
}

type fakeLastVisit map[string]time.Time

func (f fakeLastVisit) LastVisit(u weburl.URL) (time.Time, bool) {
	t, ok := f[u.String()]
	return t, ok
}

func TestAgedSelection_NotPresentFallback(t *testing.T) {
	ctx := context.Background()
	src := fakeLastVisit{}
	f := AgedSelection(src, time.Hour, true)
	assert.True(t, f(ctx, pageAt("https://example.com/a")))
	f2 := AgedSelection(src, time.Hour, false)
	assert.False(t, f2(ctx, pageAt("https://example.com/a")))
}

func TestAgedSelection_ComparesAge(t *testing.T) {
	ctx := context.Background()
	u := pageAt("https://example.com/a")
	src := fakeLastVisit{u.URL.String(): time.Now().Add(-2 * time.Hour)}
	f := AgedSelection(src, time.Hour, false)
	assert.True(t, f(ctx, u))

	src2 := fakeLastVisit{u.URL.String(): time.Now()}
	f2 := AgedSelection(src2, time.Hour, false)
	assert.False(t, f2(ctx, u))
}
