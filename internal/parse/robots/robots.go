// Package robots parses robots.txt bodies into a Rules value: the
// disallow/allow/sitemap/crawl-delay directives relevant to one or more
// agent labels. Nesting allow prefixes under disallow prefixes, and
// enforcing the resulting rules against a URL, is internal/robotsdb's
// job — this package only extracts the raw directives.
package robots

import (
	"bufio"
	"strconv"
	"strings"

	"github.com/p4o1o/dysdera/internal/weburl"
)

// Rules holds the directives that apply to the caller's agent labels,
// plus the always-global sitemap list.
type Rules struct {
	Disallow []string
	Allow    []string
	Sitemaps []weburl.URL
	Delay    int // seconds; 0 means "not specified"
}

// Parse reads a robots.txt body line by line. agents is the list of
// agent labels the caller answers to (case-insensitive); if empty,
// "*" is assumed. base is used to resolve relative Sitemap: URLs.
//
// Directive handling follows the resolved semantics: any line whose
// directive is "User-agent:" or "Sitemap:" ends the current per-agent
// block. Sitemap: is always global, independent of which agent block
// (if any) it appears inside.
func Parse(body string, agents []string, base weburl.URL) Rules {
	if len(agents) == 0 {
		agents = []string{"*"}
	}
	wanted := make(map[string]struct{}, len(agents))
	for _, a := range agents {
		wanted[strings.ToLower(strings.TrimSpace(a))] = struct{}{}
	}

	var rules Rules
	inWantedBlock := false

	scanner := bufio.NewScanner(strings.NewReader(body))
	for scanner.Scan() {
		line := scanner.Text()
		if idx := strings.Index(line, "#"); idx >= 0 {
			line = line[:idx]
		}
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		field, value, ok := splitDirective(trimmed)
		if !ok {
			continue
		}
		lowerField := strings.ToLower(field)

		switch lowerField {
		case "user-agent":
			_, inWantedBlock = wanted[strings.ToLower(value)]
			continue
		case "sitemap":
			if u, err := weburl.Parse(value, &base); err == nil {
				rules.Sitemaps = append(rules.Sitemaps, u)
			}
			inWantedBlock = false
			continue
		}

		if !inWantedBlock {
			continue
		}

		switch lowerField {
		case "disallow":
			rules.Disallow = append(rules.Disallow, value)
		case "allow":
			rules.Allow = append(rules.Allow, value)
		case "noindex", "nofollow":
			rules.Disallow = append(rules.Disallow, value)
		case "crawl-delay":
			if n, err := strconv.Atoi(value); err == nil {
				rules.Delay = n
			}
		}
	}

	return rules
}

func splitDirective(line string) (field, value string, ok bool) {
	idx := strings.Index(line, ":")
	if idx < 0 {
		return "", "", false
	}
	return strings.TrimSpace(line[:idx]), strings.TrimSpace(line[idx+1:]), true
}
