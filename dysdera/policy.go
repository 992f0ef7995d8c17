package dysdera

import (
	"github.com/p4o1o/dysdera/internal/policy"
)

// Policy bundles the predicates and cost functions that decide what
// gets visited, followed, and how it is prioritized. See
// internal/policy for field documentation.
type Policy = policy.Policy

// LastVisitSource supplies the timestamp a URL was last fetched.
type LastVisitSource = policy.LastVisitSource

// Default returns a Policy with every option at its spec default:
// visit and follow everything, robots respected, canonical URLs
// followed, sitemaps visited.
func Default() *Policy { return policy.Default() }

// SameDomainPolicy only visits pages in the given domains, and crawls
// onward from every page it visits.
func SameDomainPolicy(domains ...string) *Policy { return policy.SameDomainPolicy(domains...) }

// ExtendedDomainPolicy visits every page reached but only crawls
// onward from pages in the given domains.
func ExtendedDomainPolicy(domains ...string) *Policy { return policy.ExtendedDomainPolicy(domains...) }
