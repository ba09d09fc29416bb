// Package page provides snapshots of the observed marketplace page and the
// structural queries the pipeline runs against them.
package page

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/cespare/xxhash/v2"
)

// Snapshot is the page's DOM as serialized at one point in time.
type Snapshot struct {
	URL       string
	HTML      []byte
	FetchedAt time.Time
}

// Hash returns a content hash used to detect page changes.
func (s *Snapshot) Hash() uint64 {
	return xxhash.Sum64(s.HTML)
}

// Document parses the snapshot.
func (s *Snapshot) Document() (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(s.HTML))
	if err != nil {
		return nil, fmt.Errorf("parsing page %s: %w", s.URL, err)
	}
	return doc, nil
}

// Source produces snapshots of the observed page.
type Source interface {
	Fetch(ctx context.Context) (*Snapshot, error)
}

// StaticSource serves HTML set by the caller. It stands in for a live page
// in tests and for pages pushed to the API.
type StaticSource struct {
	mu   sync.Mutex
	url  string
	html []byte
}

// NewStaticSource creates a StaticSource serving html.
func NewStaticSource(url string, html []byte) *StaticSource {
	return &StaticSource{url: url, html: html}
}

// Set replaces the served HTML.
func (s *StaticSource) Set(html []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.html = html
}

// Fetch implements Source.
func (s *StaticSource) Fetch(context.Context) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &Snapshot{
		URL:       s.url,
		HTML:      append([]byte(nil), s.html...),
		FetchedAt: time.Now(),
	}, nil
}

// FileSource reads the page from a saved HTML file on every fetch.
type FileSource struct {
	path string
}

// NewFileSource creates a FileSource for path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Fetch implements Source.
func (s *FileSource) Fetch(context.Context) (*Snapshot, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("reading page file: %w", err)
	}
	return &Snapshot{URL: "file://" + s.path, HTML: b, FetchedAt: time.Now()}, nil
}
