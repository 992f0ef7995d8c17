package policy

import (
	"strings"
	"sync/atomic"
	"time"

	"github.com/p4o1o/dysdera/internal/fetch"
	"github.com/p4o1o/dysdera/internal/parse/sitemap"
)

// CostFunc assigns a scheduling cost to a fetched page; lower costs
// are popped from the frontier first.
type CostFunc func(page *fetch.PageState) int

// SitemapCostFunc is the sitemap-entry counterpart of CostFunc.
type SitemapCostFunc func(entry sitemap.URLEntry) int

// FIFO assigns every page the same cost, giving breadth-first order.
func FIFO() CostFunc { return func(*fetch.PageState) int { return 1 } }

// LIFO assigns each page a lower (more negative) cost than the page
// costed before it, so the most recently enqueued page is popped first,
// giving depth-first order against a min-heap frontier.
func LIFO() CostFunc {
	var seq atomic.Int64
	return func(*fetch.PageState) int { return int(seq.Add(-1)) }
}

// WeightedCostFunc pairs a cost function with the weight it
// contributes to a SumCost total.
type WeightedCostFunc struct {
	Func   CostFunc
	Weight int
}

// SumCost combines weighted costs the way the original's
// SchedulingCost.combine does: a weighted sum over the given funcs.
// Function values are not comparable in Go, so weighted pairs are
// passed as a slice rather than keyed by the function itself.
func SumCost(weighted []WeightedCostFunc) CostFunc {
	return func(page *fetch.PageState) int {
		total := 0
		for _, wf := range weighted {
			total += wf.Func(page) * wf.Weight
		}
		return total
	}
}

// WeightedCost multiplies two cost functions together.
func WeightedCost(a, b CostFunc) CostFunc {
	return func(page *fetch.PageState) int {
		return a(page) * b(page)
	}
}

// ConditionalCost returns onTrue's cost when pred holds, else onFalse.
func ConditionalCost(pred func(*fetch.PageState) bool, onTrue, onFalse int) CostFunc {
	return func(page *fetch.PageState) int {
		if pred(page) {
			return onTrue
		}
		return onFalse
	}
}

// URLContains gives cost when the page's URL contains word, else
// ifFalse (default fallback 100, per the original's url_contains).
func URLContains(word string, cost, ifFalse int) CostFunc {
	word = strings.ToLower(word)
	return func(page *fetch.PageState) int {
		if strings.Contains(strings.ToLower(page.URL.String()), word) {
			return cost
		}
		return ifFalse
	}
}

// WeightedSitemapCostFunc is WeightedCostFunc's sitemap-entry counterpart.
type WeightedSitemapCostFunc struct {
	Func   SitemapCostFunc
	Weight int
}

// SumSitemapCost is SumCost's sitemap-entry counterpart.
func SumSitemapCost(weighted []WeightedSitemapCostFunc) SitemapCostFunc {
	return func(entry sitemap.URLEntry) int {
		total := 0
		for _, wf := range weighted {
			total += wf.Func(entry) * wf.Weight
		}
		return total
	}
}

// SitemapFromSelection turns a sitemap selection predicate into a cost,
// mirroring SitemapSchedulingCost.from_selection_policy.
func SitemapFromSelection(pred func(sitemap.URLEntry) bool, onTrue, onFalse int) SitemapCostFunc {
	return func(entry sitemap.URLEntry) int {
		if pred(entry) {
			return onTrue
		}
		return onFalse
	}
}

// SitemapLatestModify prioritizes entries with the most recent
// lastmod first (negative timestamp so a min-heap pops them first);
// missing is returned when lastmod cannot be parsed.
func SitemapLatestModify(missing int) SitemapCostFunc {
	return func(entry sitemap.URLEntry) int {
		if entry.Lastmod == "" {
			return missing
		}
		t, ok := parseLenientDate(entry.Lastmod)
		if !ok {
			return missing
		}
		return -int(t.Unix())
	}
}

func parseLenientDate(value string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339, "2006-01-02", "2006-01-02T15:04:05Z07:00"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
