package fetch

import (
	"io"
	"net/http"
)

// readAll drains body, except for HEAD requests where no body is ever
// expected on the wire.
func readAll(body io.Reader, method string) ([]byte, error) {
	if method == http.MethodHead {
		return nil, nil
	}
	return io.ReadAll(body)
}
