// Package worker implements the per-domain crawl loop: robots
// discovery, sitemap ingestion, and priority-ordered fetching, one
// worker per origin (ground: _examples/original_source/dysdera/crawler.py's
// DysderaCrawler.crawl_domain).
//
// Sink and ExtractInput are declared here, not in the public package,
// so that the public facade can depend on this package without creating
// an import cycle: the facade re-exports both as type aliases.
package worker

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/p4o1o/dysdera/internal/crawlerr"
	"github.com/p4o1o/dysdera/internal/fetch"
	"github.com/p4o1o/dysdera/internal/frontier"
	"github.com/p4o1o/dysdera/internal/logging"
	"github.com/p4o1o/dysdera/internal/parse/html"
	"github.com/p4o1o/dysdera/internal/parse/robots"
	"github.com/p4o1o/dysdera/internal/parse/sitemap"
	"github.com/p4o1o/dysdera/internal/policy"
	"github.com/p4o1o/dysdera/internal/robotsdb"
	"github.com/p4o1o/dysdera/internal/visited"
	"github.com/p4o1o/dysdera/internal/weburl"
)

// ExtractInput is everything a Sink needs to persist one fetched page.
type ExtractInput struct {
	Page     *fetch.PageState
	Document *html.Document // nil for non-HTML or undecoded bodies
	Links    []weburl.URL
}

// Sink receives every page the policy decided to fetch, after robots
// and duplicate filtering. Implementations must be safe for concurrent
// use: workers for different origins call Extract concurrently.
type Sink interface {
	Extract(ctx context.Context, in ExtractInput) error
}

// NewDomain is the event a worker publishes when load_queue creates a
// frontier for an origin never seen before; the dispatcher consumes
// these to spawn new workers (spec.md §4.9/§4.10).
type NewDomain struct {
	Origin string
}

// Deps bundles the shared, cross-worker state and collaborators one
// Run call needs. All fields are shared by reference across every
// worker goroutine the dispatcher spawns.
type Deps struct {
	Transport fetch.Transport
	Robots    *robotsdb.Store
	Visited   *visited.Set
	Frontiers *frontier.Map[*fetch.PageState]
	Policy    *policy.Policy
	Sink      Sink
	Log       logging.Logger

	// DuplicateSensibility: 0 disables duplicate suppression, 1 requires
	// an exact content-hash match, >1 is a simhash Hamming-distance
	// threshold (spec.md §4.4).
	DuplicateSensibility int

	// NewDomains receives a NewDomain event whenever enqueue creates a
	// frontier for a not-yet-seen origin.
	NewDomains chan<- NewDomain
}

// Run executes the full per-domain worker entry point of spec.md §4.8
// for the given seed URL. It returns when the origin's frontier is
// drained or ctx is cancelled.
func Run(ctx context.Context, d *Deps, seed weburl.URL) error {
	w := &worker{Deps: d, origin: seed.Origin()}
	return w.run(ctx, seed)
}

type worker struct {
	*Deps
	origin  string
	limiter *rate.Limiter
}

func (w *worker) run(ctx context.Context, seed weburl.URL) error {
	sitemaps := w.fetchRobots(ctx, seed)

	delay := w.Policy.EffectiveDelay(w.Robots.Delay(w.origin))
	w.limiter = rate.NewLimiter(rate.Every(delay), 1)

	if w.Policy.VisitSitemap(w.origin) && len(sitemaps) > 0 {
		w.ingestSitemaps(ctx, sitemaps, delay)
	}

	q, _ := w.Frontiers.GetOrCreate(w.origin)
	w.enqueue(ctx, fetch.New(seed, fetch.TargetWeb, nil, nil), nil, w.Policy.QueueWeight)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		page, ok := q.Pop()
		if !ok {
			return nil
		}
		w.visitOne(ctx, page, delay)
	}
}

// fetchRobots implements spec.md §4.8 step 1.
func (w *worker) fetchRobots(ctx context.Context, seed weburl.URL) []weburl.URL {
	robotsURL, err := weburl.Parse("/robots.txt", &seed)
	if err != nil {
		return nil
	}
	page := fetch.New(robotsURL, fetch.TargetRobots, nil, nil)

	err = page.Download(ctx, w.Transport, false)
	if crawlerr.Is(err, crawlerr.KindTLSVerifyFailure) && w.Policy.ForceWithoutSSL(page) {
		err = page.Download(ctx, w.Transport, true)
	}
	w.Visited.Add(visited.Record{URL: robotsURL})
	if err != nil {
		w.Log.WarnAt("robots", robotsURL.String(), "robots.txt unavailable: "+err.Error())
		return nil
	}

	agents := []string{"*"}
	if w.Policy.AgentName != "" {
		agents = []string{w.Policy.AgentName, "*"}
	}
	rules := robots.Parse(page.Text, agents, robotsURL)
	w.Robots.Add(w.origin, rules)
	return rules.Sitemaps
}

// ingestSitemaps implements spec.md §4.8 step 3: a BFS over sitemap
// and sitemap-index documents, politely delayed between fetches.
func (w *worker) ingestSitemaps(ctx context.Context, roots []weburl.URL, delay time.Duration) {
	queue := append([]weburl.URL(nil), roots...)
	seenThisPass := make(map[string]struct{})

	for len(queue) > 0 {
		select {
		case <-ctx.Done():
			return
		default:
		}

		u := queue[0]
		queue = queue[1:]
		if w.Visited.ContainsURL(u) {
			continue
		}

		waitDelay(ctx, w.limiter.Reserve())
		page := fetch.New(u, fetch.TargetSitemap, nil, nil)
		err := page.Download(ctx, w.Transport, false)
		if crawlerr.Is(err, crawlerr.KindTLSVerifyFailure) && w.Policy.ForceWithoutSSL(page) {
			err = page.Download(ctx, w.Transport, true)
		}
		w.Visited.Add(visited.Record{URL: u})
		if err != nil {
			w.Log.WarnAt("sitemap", u.String(), "sitemap fetch failed: "+err.Error())
			continue
		}

		idx, set, err := sitemap.Parse(bodyBytes(page), u)
		if err != nil {
			w.Log.WarnAt("sitemap", u.String(), "sitemap parse failed: "+err.Error())
			continue
		}

		if idx != nil {
			for _, entry := range idx.Entries {
				if _, dup := seenThisPass[entry.URL.Key()]; dup {
					continue
				}
				seenThisPass[entry.URL.Key()] = struct{}{}
				queue = append(queue, entry.URL)
			}
		}
		if set != nil {
			for _, entry := range set.Entries {
				if w.Visited.ContainsURL(entry.URL) {
					continue
				}
				if w.Policy.RespectRobots && !w.Robots.IsPermitted(w.origin, entry.URL.Path()) {
					continue
				}
				if _, dup := seenThisPass[entry.URL.Key()]; dup {
					continue
				}
				seenThisPass[entry.URL.Key()] = struct{}{}
				ims := w.ifModifiedSince(ctx, entry.URL)
				target := fetch.New(entry.URL, fetch.TargetWeb, nil, ims)
				w.enqueue(ctx, target, &entry, w.Policy.QueueWeight)
			}
		}
	}
}

// visitOne implements spec.md §4.8 step 4 for a single dequeued page.
func (w *worker) visitOne(ctx context.Context, page *fetch.PageState, delay time.Duration) {
	if w.Visited.ContainsURL(page.URL) {
		return
	}

	// The reservation is waited out before the request, so successive
	// fetch starts for this origin are at least delay apart.
	waitDelay(ctx, w.limiter.Reserve())

	err := page.Download(ctx, w.Transport, false)
	if crawlerr.Is(err, crawlerr.KindTLSVerifyFailure) && w.Policy.ForceWithoutSSL(page) {
		err = page.Download(ctx, w.Transport, true)
	}
	if err != nil {
		if crawlerr.Is(err, crawlerr.KindNotModified) {
			return
		}
		w.Log.WarnAt("crawl", page.URL.String(), "fetch failed: "+err.Error())
		return
	}

	record := w.recordFor(page)
	if w.isDuplicate(record) {
		w.Log.InfoAt("crawl", page.URL.String(), "duplicate content, skipped")
		return
	}

	var doc *html.Document
	if page.IsText {
		if parsed, err := html.Parse(page.Text); err == nil {
			doc = parsed
		}
	}

	w.Visited.Add(record)

	if page.IsHTML() && doc != nil && w.Policy.CanonicalURL {
		if canon, ok := doc.CanonicalURL(page.URL); ok && !canon.Equal(page.URL) {
			if !w.Visited.ContainsURL(canon) && w.permitted(canon) {
				w.enqueue(ctx, fetch.New(canon, fetch.TargetWeb, &page.URL, nil), nil, w.Policy.QueueWeight)
			}
		}
	}

	var links []weburl.URL
	if w.Policy.ShouldCrawl(ctx, page, doc) {
		links = doc.Links(page.URL)
		for _, link := range links {
			if w.Visited.ContainsURL(link) || !w.permitted(link) {
				continue
			}
			ims := w.ifModifiedSince(ctx, link)
			ref := page.URL
			w.enqueue(ctx, fetch.New(link, fetch.TargetWeb, &ref, ims), nil, w.Policy.QueueWeight)
		}
	}

	if w.Sink != nil {
		if err := w.Sink.Extract(ctx, ExtractInput{Page: page, Document: doc, Links: links}); err != nil {
			w.Log.WarnAt("sink", page.URL.String(), "extract failed: "+err.Error())
		}
	}
}

func (w *worker) isDuplicate(record visited.Record) bool {
	switch {
	case w.DuplicateSensibility <= 0:
		return false
	case w.DuplicateSensibility == 1:
		return w.Visited.ContainsDuplicate(record)
	default:
		return w.Visited.ContainsNearDuplicate(record, w.DuplicateSensibility)
	}
}

func (w *worker) recordFor(page *fetch.PageState) visited.Record {
	hash, _ := page.ContentHash()
	sh, hasSH, _ := page.Simhash()
	return visited.Record{URL: page.URL, ContentHash: hash, Simhash: sh, HasSimhash: hasSH}
}

func (w *worker) permitted(u weburl.URL) bool {
	if !w.Policy.RespectRobots {
		return true
	}
	return w.Robots.IsPermitted(w.origin, u.Path())
}

func (w *worker) ifModifiedSince(ctx context.Context, u weburl.URL) *time.Time {
	t, ok := w.Policy.DloadIfModifiedSince(ctx, u)
	if !ok {
		return nil
	}
	return &t
}

// enqueue implements loadQueue, spec.md §4.9.
func (w *worker) enqueue(ctx context.Context, page *fetch.PageState, entry *sitemap.URLEntry, weight func(*fetch.PageState) int) {
	if w.Policy.HeadersBeforeVisit(ctx, page) {
		err := page.HeadFetch(ctx, w.Transport, false)
		if crawlerr.Is(err, crawlerr.KindTLSVerifyFailure) && w.Policy.ForceWithoutSSL(page) {
			err = page.HeadFetch(ctx, w.Transport, true)
		}
		if err != nil {
			return
		}
	}

	if !w.Policy.ShouldVisit(ctx, page, entry) {
		return
	}

	origin := page.URL.Origin()
	q, created := w.Frontiers.GetOrCreate(origin)
	if created && w.NewDomains != nil {
		select {
		case w.NewDomains <- NewDomain{Origin: origin}:
		case <-ctx.Done():
			return
		}
	}

	cost := weight(page)
	if entry != nil {
		cost = w.Policy.SitemapQueueWeight(page, *entry)
	}
	q.Push(page, cost)
}

func waitDelay(ctx context.Context, token *rate.Reservation) {
	if token == nil {
		return
	}
	d := token.Delay()
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}

// bodyBytes returns a page's downloaded body as raw bytes regardless
// of whether it was decoded to text (e.g. XML sitemaps, which the
// fetcher classifies as text) or kept binary.
func bodyBytes(page *fetch.PageState) []byte {
	if page.IsText {
		return []byte(page.Text)
	}
	return page.Bytes
}
