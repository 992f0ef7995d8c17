// Package weburl implements the normalized, comparable URL value used
// throughout the crawl engine. Every page, sitemap entry, and robots
// rule is keyed on this type rather than a raw string.
package weburl

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/p4o1o/dysdera/internal/crawlerr"
)

// URL is an immutable, normalized web address. Scheme is always "https";
// equality and hashing ignore the fragment.
type URL struct {
	raw *url.URL
}

// Parse builds a URL from raw. If raw is relative (no scheme or host) a
// base must be supplied to resolve against; otherwise Parse returns
// crawlerr.KindMalformedURL.
func Parse(raw string, base *URL) (URL, error) {
	trimmed := strings.TrimSuffix(raw, "/")
	if trimmed == "" {
		trimmed = raw
	}

	if base == nil && (strings.HasPrefix(trimmed, "//") || !strings.HasPrefix(trimmed, "http")) {
		return URL{}, crawlerr.New(crawlerr.KindMalformedURL, fmt.Sprintf("relative URL %q given with no base", raw), nil)
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return URL{}, crawlerr.New(crawlerr.KindMalformedURL, fmt.Sprintf("cannot parse %q", raw), err)
	}

	if parsed.Host == "" {
		if base == nil {
			return URL{}, crawlerr.New(crawlerr.KindMalformedURL, fmt.Sprintf("%q has no host and no base was given", raw), nil)
		}
		parsed = base.raw.ResolveReference(parsed)
	}

	if parsed.Host == "" {
		return URL{}, crawlerr.New(crawlerr.KindMalformedURL, fmt.Sprintf("%q resolves to an empty host", raw), nil)
	}

	parsed.Scheme = "https"
	return URL{raw: parsed}, nil
}

// MustParse panics on error; only used for constants in tests.
func MustParse(raw string) URL {
	u, err := Parse(raw, nil)
	if err != nil {
		panic(err)
	}
	return u
}

// String returns the URL in its canonical string form.
func (u URL) String() string {
	if u.raw == nil {
		return ""
	}
	return u.raw.String()
}

// IsZero reports whether u was never initialized.
func (u URL) IsZero() bool { return u.raw == nil }

// Host returns the domain (scheme excluded).
func (u URL) Host() string {
	if u.raw == nil {
		return ""
	}
	return u.raw.Host
}

// Path returns the URL path component.
func (u URL) Path() string {
	if u.raw == nil {
		return ""
	}
	return u.raw.Path
}

// Origin returns the scheme+host portion, the unit of politeness and the
// key into the robots database and frontier map.
func (u URL) Origin() string {
	if u.raw == nil {
		return ""
	}
	return u.raw.Scheme + "://" + u.raw.Host
}

// FileExtension returns the lowercased extension of the URL's path,
// including the leading dot, or "" if there is none.
func (u URL) FileExtension() string {
	if u.raw == nil {
		return ""
	}
	return strings.ToLower(path.Ext(u.raw.Path))
}

// FileStem returns the final path segment without its extension.
func (u URL) FileStem() string {
	if u.raw == nil {
		return ""
	}
	base := path.Base(u.raw.Path)
	return strings.TrimSuffix(base, path.Ext(base))
}

// SameHost reports whether u and other share the same host.
func (u URL) SameHost(other URL) bool {
	return u.Host() == other.Host()
}

// Equal compares host, path, and query; the fragment is ignored.
func (u URL) Equal(other URL) bool {
	if u.raw == nil || other.raw == nil {
		return u.raw == other.raw
	}
	return u.raw.Host == other.raw.Host &&
		u.raw.Path == other.raw.Path &&
		u.raw.Query().Encode() == other.raw.Query().Encode()
}

// Key returns a string suitable as a map key, consistent with Equal.
func (u URL) Key() string {
	if u.raw == nil {
		return ""
	}
	return u.raw.Host + u.raw.Path + "?" + u.raw.Query().Encode()
}

// Resolve builds a URL from href relative to u, used when resolving
// links found in a page's body.
func (u URL) Resolve(href string) (URL, error) {
	return Parse(href, &u)
}
