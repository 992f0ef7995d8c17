// Package sink provides reference Sink implementations for the
// worker's extract step: a SQLite-backed document store and a
// flat-file writer. Ground:
// _examples/original_source/dysdera/extractors.py's MongoExtractor and
// FileExtractor, adapted onto a local embedded database and a local
// filesystem respectively so the module needs no external services to
// run end to end.
package sink

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/p4o1o/dysdera/internal/parse/html"
	"github.com/p4o1o/dysdera/internal/weburl"
	"github.com/p4o1o/dysdera/internal/worker"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS pages (
	url            TEXT PRIMARY KEY,
	domain         TEXT NOT NULL,
	name           TEXT,
	titles         TEXT,
	text           TEXT,
	figcapt        TEXT,
	links          TEXT,
	canonical_url  TEXT,
	meta_description TEXT,
	meta_keywords     TEXT,
	meta_author       TEXT,
	meta_language     TEXT,
	visited        TEXT NOT NULL,
	lastmod        TEXT,
	timestamp_utc  INTEGER
)`

// DocumentSink persists the fields of every crawled HTML page into a
// local SQLite database (ground: spec.md §6's schema). It also
// implements policy.LastVisitSource, generalizing the original's
// MongoMemoryPolicy.was_not_modified without a MongoDB dependency.
type DocumentSink struct {
	db *sql.DB
}

// NewDocumentSink opens (creating if absent) a SQLite database at path
// and ensures its schema exists.
func NewDocumentSink(path string) (*DocumentSink, error) {
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening document store: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating document store schema: %w", err)
	}
	return &DocumentSink{db: db}, nil
}

// Close releases the underlying database handle.
func (s *DocumentSink) Close() error { return s.db.Close() }

// Extract implements worker.Sink. Only HTML pages are persisted,
// matching the original's html-only guard before collection insert.
func (s *DocumentSink) Extract(ctx context.Context, in worker.ExtractInput) error {
	if in.Document == nil || !in.Page.IsHTML() || !in.Document.IsHTML() {
		return nil
	}
	doc := in.Document
	meta := doc.Metadata()

	links := make([]string, 0, len(in.Links))
	for _, l := range in.Links {
		links = append(links, l.String())
	}

	canonical := ""
	if u, ok := doc.CanonicalURL(in.Page.URL); ok {
		canonical = u.String()
	}

	lastmod := ""
	var timestampUTC *int64
	if !in.Page.Head.LastModified.IsZero() {
		lastmod = in.Page.Head.LastModified.Format(time.RFC3339)
		ts := in.Page.Head.LastModified.UTC().Unix()
		timestampUTC = &ts
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO pages (url, domain, name, titles, text, figcapt, links,
			canonical_url, meta_description, meta_keywords, meta_author,
			meta_language, visited, lastmod, timestamp_utc)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			name=excluded.name, titles=excluded.titles, text=excluded.text,
			figcapt=excluded.figcapt, links=excluded.links,
			canonical_url=excluded.canonical_url,
			meta_description=excluded.meta_description,
			meta_keywords=excluded.meta_keywords,
			meta_author=excluded.meta_author, meta_language=excluded.meta_language,
			visited=excluded.visited, lastmod=excluded.lastmod,
			timestamp_utc=excluded.timestamp_utc`,
		in.Page.URL.String(),
		in.Page.URL.Host(),
		doc.PageTitle(),
		html.CollapseWhitespace(strings.Join(doc.Headings(), " ")),
		html.CollapseWhitespace(strings.Join(doc.ParagraphText(), " ")),
		html.CollapseWhitespace(strings.Join(doc.Figcaptions(), " ")),
		strings.Join(links, " "),
		canonical,
		meta.Description, meta.Keywords, meta.Author, meta.Language,
		time.Now().UTC().Format(time.RFC3339),
		lastmod, timestampUTC,
	)
	return err
}

// LastVisit implements policy.LastVisitSource: the most recent visited
// timestamp recorded for u, if any.
func (s *DocumentSink) LastVisit(u weburl.URL) (time.Time, bool) {
	row := s.db.QueryRow(`SELECT visited FROM pages WHERE url = ?`, u.String())
	var visited string
	if err := row.Scan(&visited); err != nil {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, visited)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// sha256Hex is used by FileSink to build collision-resistant file names
// from a URL path.
func sha256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
