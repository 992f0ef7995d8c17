package fetch

import (
	"context"
	"crypto/tls"
	"errors"
	"net/http"
	"time"

	"github.com/p4o1o/dysdera/internal/crawlerr"
)

// Response is the transport-neutral shape the state machine consumes.
// It is the concrete form of the spec's "HTTP transport" external
// collaborator.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Transport performs one HTTP request and returns a classified
// Response or a crawlerr.Error. Redirects are never auto-followed:
// a 3xx response is returned to the caller with its Location header
// intact, so the state machine can rewrite the URL and recurse itself.
type Transport interface {
	Do(ctx context.Context, method string, u string, headers http.Header, insecureSkipVerify bool) (*Response, error)
}

// HTTPTransport is the default Transport, built on net/http.
type HTTPTransport struct {
	Timeout time.Duration
}

// NewHTTPTransport returns a Transport with the given per-request
// timeout (spec §5 default: 10s).
func NewHTTPTransport(timeout time.Duration) *HTTPTransport {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPTransport{Timeout: timeout}
}

func (t *HTTPTransport) Do(ctx context.Context, method, u string, headers http.Header, insecureSkipVerify bool) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, t.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, u, nil)
	if err != nil {
		return nil, crawlerr.New(crawlerr.KindMalformedURL, "building request", err)
	}
	req.Header = headers

	client := &http.Client{
		Timeout: t.Timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	if insecureSkipVerify {
		client.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, //nolint:gosec
		}
	}

	resp, err := client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, crawlerr.New(crawlerr.KindTimeout, "request timed out", err)
		}
		var tlsErr *tls.CertificateVerificationError
		if errors.As(err, &tlsErr) {
			return nil, crawlerr.New(crawlerr.KindTLSVerifyFailure, "TLS certificate verification failed", err)
		}
		return nil, crawlerr.New(crawlerr.KindConnectionFailure, "request failed", err)
	}
	defer resp.Body.Close()

	body, err := readAll(resp.Body, method)
	if err != nil {
		return nil, crawlerr.New(crawlerr.KindConnectionFailure, "reading response body", err)
	}

	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: body}, nil
}
