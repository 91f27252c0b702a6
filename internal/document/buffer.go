package document

import (
	"errors"
	"sort"
	"sync"
)

// Buffer is a document whose text changes over time. It is safe for
// concurrent use: host adapters write to it while scans read from it.
type Buffer struct {
	uri  string
	lang string

	mu      sync.RWMutex
	text    string
	version int
}

func NewBuffer(uri, language, text string) *Buffer {
	return &Buffer{uri: uri, lang: language, text: text, version: 1}
}

func (b *Buffer) URI() string      { return b.uri }
func (b *Buffer) Language() string { return b.lang }

func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.text
}

func (b *Buffer) Version() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.version
}

// Replace swaps in new text and returns the new version. Replacing with
// identical text still bumps the version.
func (b *Buffer) Replace(text string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.text = text
	b.version++
	return b.version
}

// Snapshot captures the current text.
func (b *Buffer) Snapshot() *Snapshot {
	b.mu.RLock()
	text, version := b.text, b.version
	b.mu.RUnlock()
	return NewSnapshot(b.uri, b.lang, version, text)
}

var ErrNotOpen = errors.New("document not open")

// Store keeps the open buffers of one editor, keyed by URI.
type Store struct {
	mu   sync.RWMutex
	docs map[string]*Buffer
}

func NewStore() *Store {
	return &Store{docs: make(map[string]*Buffer)}
}

// Open registers a document, replacing any previous buffer for the same URI.
func (s *Store) Open(uri, language, text string) *Buffer {
	b := NewBuffer(uri, language, text)
	s.mu.Lock()
	s.docs[uri] = b
	s.mu.Unlock()
	return b
}

func (s *Store) Get(uri string) (*Buffer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.docs[uri]
	return b, ok
}

// Update replaces the text of an open document.
func (s *Store) Update(uri, text string) (*Buffer, error) {
	b, ok := s.Get(uri)
	if !ok {
		return nil, ErrNotOpen
	}
	b.Replace(text)
	return b, nil
}

// Close forgets a document. Closing an unknown URI is a no-op.
func (s *Store) Close(uri string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.docs[uri]
	delete(s.docs, uri)
	return ok
}

// URIs lists the open documents in sorted order.
func (s *Store) URIs() []string {
	s.mu.RLock()
	out := make([]string, 0, len(s.docs))
	for uri := range s.docs {
		out = append(out, uri)
	}
	s.mu.RUnlock()
	sort.Strings(out)
	return out
}
