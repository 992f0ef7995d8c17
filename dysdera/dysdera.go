// Package dysdera is the public facade of a polite, focused web
// crawler: wire a Policy and a Sink together with a seed list and
// Crawl blocks until every reachable, permitted page has been visited.
//
// Ground: _examples/original_source/dysdera/crawler.py's
// DysderaCrawler, the top-level object the original library exposed.
package dysdera

import (
	"context"
	"time"

	"github.com/p4o1o/dysdera/internal/config"
	"github.com/p4o1o/dysdera/internal/dispatcher"
	"github.com/p4o1o/dysdera/internal/fetch"
	"github.com/p4o1o/dysdera/internal/frontier"
	"github.com/p4o1o/dysdera/internal/logging"
	"github.com/p4o1o/dysdera/internal/robotsdb"
	"github.com/p4o1o/dysdera/internal/visited"
	"github.com/p4o1o/dysdera/internal/weburl"
)

// Client bundles a crawl session's configuration and shared state
// ahead of a Crawl call.
type Client struct {
	Config *config.Config
	Log    logging.Logger

	robots    *robotsdb.Store
	visited   *visited.Set
	frontiers *frontier.Map[*fetch.PageState]
}

// New builds a Client from cfg, opening its log file. Callers that
// already have a Logger should set Client.Log directly instead.
func New(cfg *config.Config) (*Client, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	log, err := logging.New(cfg.LogPath, cfg.Verbose, cfg.VerboseLog)
	if err != nil {
		return nil, err
	}
	return &Client{
		Config:    cfg,
		Log:       log,
		robots:    robotsdb.New(),
		visited:   visited.New(),
		frontiers: frontier.NewMap[*fetch.PageState](),
	}, nil
}

// Crawl runs pol against sink, starting from seeds, until every
// reachable permitted page has been visited or ctx is cancelled.
func (c *Client) Crawl(ctx context.Context, seeds []string, pol *Policy, sink Sink) error {
	if pol == nil {
		pol = Default()
	}
	pol.DefaultDelay = orDefault(pol.DefaultDelay, c.Config.DefaultDelay)

	parsed := make([]weburl.URL, 0, len(seeds))
	for _, s := range seeds {
		u, err := weburl.Parse(s, nil)
		if err != nil {
			c.Log.WarnAt("crawl", s, "skipping malformed seed: "+err.Error())
			continue
		}
		parsed = append(parsed, u)
	}

	transport := fetch.NewHTTPTransport(c.Config.RequestTimeout)
	d := dispatcher.New(transport, c.robots, c.visited, c.frontiers, c.Log)
	return d.Start(ctx, parsed, pol, sink, c.Config.DuplicateSensibility)
}

func orDefault(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return d
}
