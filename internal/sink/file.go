package sink

import (
	"context"
	"os"
	"path/filepath"

	"github.com/p4o1o/dysdera/internal/worker"
)

// FileSink writes every fetched page's decoded text body to
// <dir>/<domain>/<sha256(path)>.txt, generalizing the original
// FileExtractor's extension-matching behavior into a single
// catch-all store (the original wrote one file per matched
// extension; this sink writes one file per page, the destination
// directory doubling as the extension filter when callers want one).
type FileSink struct {
	dir string
}

// NewFileSink returns a FileSink rooted at dir, creating it if absent.
func NewFileSink(dir string) (*FileSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileSink{dir: dir}, nil
}

// Extract implements worker.Sink. Pages whose body was never decoded
// to text (binary content, or a fetch that never reached a 2xx) are
// skipped.
func (f *FileSink) Extract(_ context.Context, in worker.ExtractInput) error {
	if !in.Page.IsText {
		return nil
	}
	domainDir := filepath.Join(f.dir, in.Page.URL.Host())
	if err := os.MkdirAll(domainDir, 0o755); err != nil {
		return err
	}
	name := sha256Hex(in.Page.URL.Path()) + ".txt"
	return os.WriteFile(filepath.Join(domainDir, name), []byte(in.Page.Text), 0o644)
}
