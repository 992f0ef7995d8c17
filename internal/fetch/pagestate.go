// Package fetch implements the page fetching state machine: the
// New -> HeadFetched -> BodyFetched progression described in the
// spec, including conditional requests, single-hop redirect rewriting,
// TLS-relaxation retries, and text/binary content classification.
package fetch

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/p4o1o/dysdera/internal/crawlerr"
	"github.com/p4o1o/dysdera/internal/parse/hashing"
	"github.com/p4o1o/dysdera/internal/weburl"
)

// Head is the response metadata captured by a HEAD (or the head
// portion of a GET) response.
type Head struct {
	StatusCode    int
	ContentType   string
	ContentLength int64
	CacheControl  string
	Expires       string
	ETag          string
	Server        string
	LastModified  time.Time
}

// PageState is one URL's progress through the fetch pipeline. It is
// created when a URL is enqueued and mutated only by the methods below
// and by the lazy hash/simhash accessors.
type PageState struct {
	URL             weburl.URL
	Kind            TargetKind
	Referrer        *weburl.URL
	IfModifiedSince *time.Time

	headFetched bool
	Head        Head

	bodyFetched bool
	IsText      bool
	Text        string
	Bytes       []byte

	hash       [32]byte
	hasHash    bool
	simhash    uint64
	hasSimhash bool
}

// New builds a PageState in the New state.
func New(u weburl.URL, kind TargetKind, referrer *weburl.URL, ifModifiedSince *time.Time) *PageState {
	return &PageState{URL: u, Kind: kind, Referrer: referrer, IfModifiedSince: ifModifiedSince}
}

// IsHTML reports whether the head-reported content type names an
// HTML family, without requiring the body to have been fetched.
func (p *PageState) IsHTML() bool {
	if !p.headFetched {
		return false
	}
	return isHTMLContentType(p.Head.ContentType)
}

// referer returns the Referrer header value, or "" if none was set.
func (p *PageState) referer() string {
	if p.Referrer == nil {
		return ""
	}
	return p.Referrer.String()
}

func (p *PageState) ifModifiedSinceHeader() string {
	if p.IfModifiedSince == nil {
		return ""
	}
	return p.IfModifiedSince.UTC().Format(http.TimeFormat)
}

func (p *PageState) applyHead(resp *Response) {
	p.Head = Head{
		StatusCode:   resp.StatusCode,
		ContentType:  resp.Header.Get("Content-Type"),
		CacheControl: resp.Header.Get("Cache-Control"),
		Expires:      resp.Header.Get("Expires"),
		ETag:         resp.Header.Get("ETag"),
		Server:       resp.Header.Get("Server"),
		LastModified: parseHTTPDate(resp.Header.Get("Last-Modified")),
	}
	if cl := resp.Header.Get("Content-Length"); cl != "" {
		if n, err := strconv.ParseInt(cl, 10, 64); err == nil {
			p.Head.ContentLength = n
		}
	}
	p.headFetched = true
}

// HeadFetch issues a HEAD request. See spec.md §4.3 for the exact
// status-handling contract.
func (p *PageState) HeadFetch(ctx context.Context, t Transport, withoutSSL bool) error {
	headers := requestHeaders(p.Kind, p.referer(), p.ifModifiedSinceHeader())
	resp, err := t.Do(ctx, http.MethodHead, p.URL.String(), headers, withoutSSL)
	if err != nil {
		return err
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		p.applyHead(resp)
		return nil
	case resp.StatusCode == 304:
		return crawlerr.NotModified
	case resp.StatusCode >= 300 && resp.StatusCode < 400:
		loc := resp.Header.Get("Location")
		if loc == "" {
			return crawlerr.HTTPStatus(resp.StatusCode)
		}
		next, err := p.URL.Resolve(loc)
		if err != nil {
			return err
		}
		p.URL = next
		return p.Download(ctx, t, withoutSSL)
	default:
		return crawlerr.HTTPStatus(resp.StatusCode)
	}
}

// Download issues a GET request and classifies the body. It is
// idempotent: calling it again once the body is already populated is a
// no-op, matching the spec's "download() ... no-op if body already
// present" requirement.
func (p *PageState) Download(ctx context.Context, t Transport, withoutSSL bool) error {
	if p.bodyFetched {
		return nil
	}

	headers := requestHeaders(p.Kind, p.referer(), p.ifModifiedSinceHeader())
	resp, err := t.Do(ctx, http.MethodGet, p.URL.String(), headers, withoutSSL)
	if err != nil {
		return err
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		p.applyHead(resp)
	case resp.StatusCode == 304:
		return crawlerr.NotModified
	case resp.StatusCode >= 300 && resp.StatusCode < 400:
		loc := resp.Header.Get("Location")
		if loc == "" {
			return crawlerr.HTTPStatus(resp.StatusCode)
		}
		next, err := p.URL.Resolve(loc)
		if err != nil {
			return err
		}
		p.URL = next
		return p.Download(ctx, t, withoutSSL)
	default:
		return crawlerr.HTTPStatus(resp.StatusCode)
	}

	if isTextContentType(p.Head.ContentType) {
		text, err := decodeText(resp.Body, p.Head.ContentType)
		if err != nil {
			return err
		}
		p.Text = text
		p.IsText = true
	} else {
		p.Bytes = resp.Body
		p.IsText = false
	}
	p.bodyFetched = true
	return nil
}

// ContentHash returns the lazily computed SHA-256 of the body, and
// requires the body to already be fetched.
func (p *PageState) ContentHash() ([32]byte, error) {
	if !p.bodyFetched {
		return [32]byte{}, crawlerr.MissingDownload("ContentHash")
	}
	if p.hasHash {
		return p.hash, nil
	}
	body := p.Bytes
	if p.IsText {
		body = []byte(p.Text)
	}
	p.hash = hashing.ContentHash(body)
	p.hasHash = true
	return p.hash, nil
}

// Simhash returns the lazily computed 64-bit simhash of the decoded
// text body. Binary bodies have no simhash: it returns ok=false for
// them, and near-duplicate checks fall back to the content hash.
func (p *PageState) Simhash() (uint64, bool, error) {
	if !p.bodyFetched {
		return 0, false, crawlerr.MissingDownload("Simhash")
	}
	if p.hasSimhash {
		return p.simhash, true, nil
	}
	if !p.IsText {
		return 0, false, nil
	}
	p.simhash = hashing.Simhash(p.Text, 64)
	p.hasSimhash = true
	return p.simhash, true, nil
}

func parseHTTPDate(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	if t, err := time.Parse(http.TimeFormat, value); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC1123, value); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC1123Z, value); err == nil {
		return t
	}
	// Permissive fallback: RFC 1123 without a timezone suffix.
	if t, err := time.Parse("Mon, 02 Jan 2006 15:04:05", value); err == nil {
		return t
	}
	return time.Time{}
}
