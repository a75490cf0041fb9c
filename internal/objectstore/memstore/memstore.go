// Package memstore is a process-local objectstore.Store. It backs the
// "memory" storage backend used for development and by coordinator tests.
package memstore

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"sort"
	"strings"
	"sync"

	"github.com/dmitrijs2005/filekeeper/internal/objectstore"
)

type blob struct {
	data        []byte
	contentType string
	meta        objectstore.Metadata
}

type Store struct {
	mu      sync.RWMutex
	baseURL string
	blobs   map[string]*blob
}

var _ objectstore.Store = (*Store)(nil)

// New returns an empty store whose URLs are baseURL + "/" + escaped key.
func New(baseURL string) *Store {
	return &Store{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		blobs:   make(map[string]*blob),
	}
}

func (s *Store) Put(ctx context.Context, key string, r io.Reader, _ int64, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[key] = &blob{data: data, contentType: contentType, meta: objectstore.Metadata{}}
	return nil
}

func (s *Store) URL(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.blobs[key]; !ok {
		return "", fmt.Errorf("%w: %s", objectstore.ErrNotFound, key)
	}
	return s.baseURL + (&url.URL{Path: "/" + key}).EscapedPath(), nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.blobs[key]; !ok {
		return fmt.Errorf("%w: %s", objectstore.ErrNotFound, key)
	}
	delete(s.blobs, key)
	return nil
}

// List returns keys in lexicographic order, like S3 does.
func (s *Store) List(ctx context.Context, prefix string) ([]objectstore.Object, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []objectstore.Object
	for k, b := range s.blobs {
		if strings.HasPrefix(k, prefix) {
			out = append(out, objectstore.Object{Key: k, Size: int64(len(b.data))})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (s *Store) Metadata(ctx context.Context, key string) (objectstore.Metadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.blobs[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", objectstore.ErrNotFound, key)
	}
	return objectstore.Merge(b.meta, nil), nil
}

func (s *Store) UpdateMetadata(ctx context.Context, key string, patch objectstore.Metadata) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.blobs[key]
	if !ok {
		return fmt.Errorf("%w: %s", objectstore.ErrNotFound, key)
	}
	b.meta = objectstore.Merge(b.meta, patch)
	return nil
}

// Open returns the content and content type of the blob at key.
func (s *Store) Open(key string) ([]byte, string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.blobs[key]
	if !ok {
		return nil, "", fmt.Errorf("%w: %s", objectstore.ErrNotFound, key)
	}
	return append([]byte(nil), b.data...), b.contentType, nil
}
