// Package dispatcher spawns and supervises one worker per seed origin,
// discovering new origins as workers find off-domain links, and
// tearing every worker down on cancellation (ground:
// _examples/original_source/dysdera/crawler.py's DysderaCrawler.start
// / terminate).
package dispatcher

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/p4o1o/dysdera/internal/fetch"
	"github.com/p4o1o/dysdera/internal/frontier"
	"github.com/p4o1o/dysdera/internal/logging"
	"github.com/p4o1o/dysdera/internal/policy"
	"github.com/p4o1o/dysdera/internal/robotsdb"
	"github.com/p4o1o/dysdera/internal/visited"
	"github.com/p4o1o/dysdera/internal/weburl"
	"github.com/p4o1o/dysdera/internal/worker"
)

// pollInterval is how often the dispatcher drains the new-domain event
// queue and spawns workers for origins discovered meanwhile (spec.md §4.10).
const pollInterval = 10 * time.Second

// Dispatcher owns the shared crawl state and the lifecycle of every
// per-origin worker.
type Dispatcher struct {
	deps        *worker.Deps
	runID       string
	seen        map[string]struct{}
	mu          sync.Mutex
	cancel      context.CancelFunc
	liveWorkers atomic.Int64
}

// New builds a Dispatcher sharing the given robots database, visited
// set, and frontier map across every worker it spawns.
func New(transport fetch.Transport, robots *robotsdb.Store, visitedSet *visited.Set, frontiers *frontier.Map[*fetch.PageState], log logging.Logger) *Dispatcher {
	return &Dispatcher{
		deps: &worker.Deps{
			Transport: transport,
			Robots:    robots,
			Visited:   visitedSet,
			Frontiers: frontiers,
			Log:       log,
		},
		seen:  make(map[string]struct{}),
		runID: uuid.NewString(),
	}
}

// RunID returns the UUID generated for this dispatcher by New. It is
// not written into any log line.
func (d *Dispatcher) RunID() string { return d.runID }

// Start spawns one worker per seed, polls for newly discovered
// origins every pollInterval, and blocks until every worker finishes
// or the context is cancelled. policy, sink, and duplicateSensibility
// are shared by every worker this dispatcher ever spawns.
func (d *Dispatcher) Start(ctx context.Context, seeds []weburl.URL, pol *policy.Policy, sink worker.Sink, duplicateSensibility int) error {
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	defer cancel()

	newDomains := make(chan worker.NewDomain, 64)
	d.deps.Policy = pol
	d.deps.Sink = sink
	d.deps.DuplicateSensibility = duplicateSensibility
	d.deps.NewDomains = newDomains

	g, gctx := errgroup.WithContext(ctx)

	for _, seed := range seeds {
		d.spawn(gctx, g, seed)
	}

	g.Go(func() error {
		ticker := time.NewTicker(pollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				d.drainNewDomains(gctx, g, newDomains)
				if d.liveWorkers.Load() == 0 {
					// Every spawned worker has drained its frontier and no
					// new-domain event is pending: nothing left to do
					// (spec.md §4.10's "exit when there are no live workers").
					return nil
				}
			}
		}
	})

	return g.Wait()
}

// drainNewDomains non-blockingly consumes every pending NewDomain event
// and spawns a worker for each origin not already seen.
func (d *Dispatcher) drainNewDomains(ctx context.Context, g *errgroup.Group, newDomains <-chan worker.NewDomain) {
	for {
		select {
		case ev := <-newDomains:
			if u, err := weburl.Parse(ev.Origin, nil); err == nil {
				d.spawn(ctx, g, u)
			}
		default:
			return
		}
	}
}

func (d *Dispatcher) spawn(ctx context.Context, g *errgroup.Group, seed weburl.URL) {
	origin := seed.Origin()
	d.mu.Lock()
	if _, ok := d.seen[origin]; ok {
		d.mu.Unlock()
		return
	}
	d.seen[origin] = struct{}{}
	d.mu.Unlock()

	d.liveWorkers.Add(1)
	g.Go(func() error {
		defer d.liveWorkers.Add(-1)
		if err := worker.Run(ctx, d.deps, seed); err != nil && ctx.Err() == nil {
			d.deps.Log.ErrorAt("dispatcher", origin, "worker exited: "+err.Error())
		}
		return nil
	})
}

// Terminate cancels every live worker; Start's Wait then returns once
// they each abort at their next suspension point.
func (d *Dispatcher) Terminate() {
	if d.cancel != nil {
		d.cancel()
	}
}
