package fetch

import (
	"strings"

	"github.com/p4o1o/dysdera/internal/crawlerr"
	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/htmlindex"
)

// textContentTypes are the content-type families the spec requires to
// be decoded as text rather than kept as raw bytes, beyond the HTML
// family isHTMLContentType already recognizes.
var textContentTypes = []string{
	"xml", "json", "text/css", "text/javascript", "application/javascript",
	"text/plain",
}

// isHTMLContentType reports whether a Content-Type value names an
// HTML family, including XHTML. Shared by isTextContentType and
// PageState.IsHTML so the two classifications cannot diverge.
func isHTMLContentType(contentType string) bool {
	ct := strings.ToLower(contentType)
	return strings.Contains(ct, "text/html") || strings.Contains(ct, "application/xhtml")
}

func isTextContentType(contentType string) bool {
	ct := strings.ToLower(contentType)
	if isHTMLContentType(ct) {
		return true
	}
	for _, family := range textContentTypes {
		if strings.Contains(ct, family) {
			return true
		}
	}
	return false
}

// decodeText converts body to a UTF-8 string using the charset
// explicitly declared in the content-type header if present, otherwise
// running byte-level charset detection over the payload.
func decodeText(body []byte, contentType string) (string, error) {
	if charset, ok := charsetFromContentType(contentType); ok {
		return decodeWithCharset(body, charset)
	}

	det := chardet.NewTextDetector()
	result, err := det.DetectBest(body)
	if err != nil || result == nil {
		return string(body), nil
	}
	return decodeWithCharset(body, strings.ToLower(result.Charset))
}

func charsetFromContentType(contentType string) (string, bool) {
	idx := strings.Index(strings.ToLower(contentType), "charset=")
	if idx < 0 {
		return "", false
	}
	val := contentType[idx+len("charset="):]
	if semi := strings.IndexByte(val, ';'); semi >= 0 {
		val = val[:semi]
	}
	val = strings.Trim(strings.TrimSpace(val), `"'`)
	if val == "" {
		return "", false
	}
	return strings.ToLower(val), true
}

func decodeWithCharset(body []byte, charset string) (string, error) {
	if charset == "" || charset == "utf-8" || charset == "utf8" || charset == "us-ascii" || charset == "ascii" {
		return string(body), nil
	}
	enc, err := htmlindex.Get(charset)
	if err != nil {
		// Unknown label: best effort, treat as already UTF-8 rather
		// than failing the whole fetch over a charset guess.
		return string(body), nil
	}
	decoded, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return "", crawlerr.New(crawlerr.KindEncodingFailure, "decoding body with charset "+charset, err)
	}
	return string(decoded), nil
}
