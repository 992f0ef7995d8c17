// Package robotsdb compiles per-origin robots.txt directives
// (internal/parse/robots.Rules) into a nested allow/disallow rule list
// and answers path-permission queries against it.
//
// Nesting algorithm (ground: _examples/original_source/dysdera/web.py's
// RobotsRules.add_rules): disallow prefixes are sorted longest-first;
// allow prefixes are sorted longest-first and greedily assigned, each
// exactly once, to the first (i.e. longest remaining) disallow prefix
// they extend. is_permitted then walks the disallow prefixes in that
// stored order, stopping at the first one that is a prefix of the
// path; that rule's nested allows decide the outcome.
package robotsdb

import (
	"sort"
	"strings"
	"sync"

	"github.com/p4o1o/dysdera/internal/parse/robots"
)

// rule pairs one disallow prefix with the allow prefixes nested under it.
type rule struct {
	disallow string
	allows   []string
}

// Entry is the compiled, per-origin rule list plus its crawl delay.
type Entry struct {
	rules []rule
	Delay int
}

// Store is the crawl session's shared robots database, keyed by origin.
type Store struct {
	mu      sync.Mutex
	entries map[string]*Entry
}

// New returns an empty Store.
func New() *Store {
	return &Store{entries: make(map[string]*Entry)}
}

// Add compiles r and installs it for origin, replacing any prior entry.
func (s *Store) Add(origin string, r robots.Rules) {
	disallow := dedupSortedDesc(r.Disallow)
	allow := dedupSortedDesc(r.Allow)

	var compiled []rule
	for _, proh := range disallow {
		var nested []string
		remaining := allow[:0:0]
		for _, allo := range allow {
			if len(proh) > len(allo) {
				// allow is now shorter than the disallow prefix; since
				// allow is sorted longest-first, every remaining entry
				// is also too short to nest, same as the original's break.
				remaining = append(remaining, allo)
				continue
			}
			if strings.HasPrefix(allo, proh) {
				nested = append(nested, allo)
			} else {
				remaining = append(remaining, allo)
			}
		}
		allow = remaining
		compiled = append(compiled, rule{disallow: proh, allows: nested})
	}

	s.mu.Lock()
	s.entries[origin] = &Entry{rules: compiled, Delay: r.Delay}
	s.mu.Unlock()
}

// HasRulesFor reports whether origin has a compiled entry.
func (s *Store) HasRulesFor(origin string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.entries[origin]
	return ok
}

// Delay returns the crawl-delay recorded for origin, or 0 if none.
func (s *Store) Delay(origin string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[origin]
	if !ok {
		return 0
	}
	return e.Delay
}

// IsPermitted reports whether path is allowed under origin's rules. An
// origin with no entry, or an entry with no disallow rules, is always
// permitted.
func (s *Store) IsPermitted(origin, path string) bool {
	s.mu.Lock()
	e, ok := s.entries[origin]
	s.mu.Unlock()
	if !ok {
		return true
	}
	for _, r := range e.rules {
		if strings.HasPrefix(path, r.disallow) {
			for _, allo := range r.allows {
				if strings.HasPrefix(path, allo) {
					return true
				}
			}
			return false
		}
	}
	return true
}

// Reset clears every compiled entry.
func (s *Store) Reset() {
	s.mu.Lock()
	s.entries = make(map[string]*Entry)
	s.mu.Unlock()
}

func dedupSortedDesc(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		if _, ok := seen[it]; ok {
			continue
		}
		seen[it] = struct{}{}
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return len(out[i]) > len(out[j]) })
	return out
}
