package fetch

import "net/http"

// TargetKind tags which directive a PageState was fetched for, since
// the header bundle and the attached parser both depend on it.
type TargetKind int

const (
	// TargetWeb is an ordinary page discovered while crawling.
	TargetWeb TargetKind = iota
	// TargetSitemap is a sitemap or sitemap-index document.
	TargetSitemap
	// TargetRobots is a domain's robots.txt.
	TargetRobots
)

// baseHeaders returns the browser-like header bundle sent on every
// request, verbatim from the original implementation's request_header
// property so that fingerprinting middleware sees a realistic client.
func baseHeaders() http.Header {
	h := make(http.Header)
	h.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/111.0.0.0 Safari/537.36")
	h.Set("Accept-Language", "it-IT,it;q=0.9,en-US;q=0.8,en;q=0.7")
	h.Set("Accept-Encoding", "br, gzip, deflate, zstd, snappy, lz4")
	h.Set("Sec-Ch-Ua", `"Not A(Brand";v="99", "Microsoft Edge";v="121", "Chromium";v="121"`)
	h.Set("Sec-Ch-Ua-Mobile", "?0")
	h.Set("Sec-Ch-Ua-Platform", "Windows")
	h.Set("Upgrade-Insecure-Requests", "1")
	return h
}

// requestHeaders builds the full header set for one request, layering
// the per-kind Accept header and the optional Referer/If-Modified-Since
// on top of the base bundle.
func requestHeaders(kind TargetKind, referer string, ifModifiedSince string) http.Header {
	h := baseHeaders()
	switch kind {
	case TargetWeb:
		h.Set("Accept", "text/html;q=1, application/xhtml+xml;q=0.9, */*;q=0.8")
	case TargetSitemap:
		h.Set("Accept", "application/xml;q=1, application/xhtml+xml;q=0.9")
	case TargetRobots:
		h.Set("Accept", "text/plain")
	}
	if referer != "" {
		h.Set("Referer", referer)
	}
	if ifModifiedSince != "" {
		h.Set("If-Modified-Since", ifModifiedSince)
	}
	return h
}
