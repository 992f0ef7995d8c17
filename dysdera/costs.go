package dysdera

import "github.com/p4o1o/dysdera/internal/policy"

// CostFunc assigns a scheduling cost to a fetched page.
type CostFunc = policy.CostFunc

// SitemapCostFunc is the sitemap-entry counterpart of CostFunc.
type SitemapCostFunc = policy.SitemapCostFunc

// FIFO assigns every page the same cost (breadth-first order).
func FIFO() CostFunc { return policy.FIFO() }

// LIFO assigns a negative cost (depth-first order).
func LIFO() CostFunc { return policy.LIFO() }

// WeightedCostFunc pairs a cost function with the weight it
// contributes to a SumCost total.
type WeightedCostFunc = policy.WeightedCostFunc

// SumCost combines weighted costs into a single weighted sum.
func SumCost(weighted []WeightedCostFunc) CostFunc { return policy.SumCost(weighted) }

// WeightedCost multiplies two cost functions together.
func WeightedCost(a, b CostFunc) CostFunc { return policy.WeightedCost(a, b) }

// ConditionalCost returns onTrue's cost when pred holds, else onFalse.
func ConditionalCost(pred func(*PageState) bool, onTrue, onFalse int) CostFunc {
	return policy.ConditionalCost(pred, onTrue, onFalse)
}

// URLContains gives cost when the page's URL contains word, else ifFalse.
func URLContains(word string, cost, ifFalse int) CostFunc {
	return policy.URLContains(word, cost, ifFalse)
}

// WeightedSitemapCostFunc is WeightedCostFunc's sitemap-entry counterpart.
type WeightedSitemapCostFunc = policy.WeightedSitemapCostFunc

// SumSitemapCost is SumCost's sitemap-entry counterpart.
func SumSitemapCost(weighted []WeightedSitemapCostFunc) SitemapCostFunc {
	return policy.SumSitemapCost(weighted)
}

// SitemapFromSelection turns a sitemap selection predicate into a cost.
func SitemapFromSelection(pred func(SitemapEntry) bool, onTrue, onFalse int) SitemapCostFunc {
	return policy.SitemapFromSelection(pred, onTrue, onFalse)
}

// SitemapLatestModify prioritizes entries with the most recent lastmod first.
func SitemapLatestModify(missing int) SitemapCostFunc { return policy.SitemapLatestModify(missing) }
