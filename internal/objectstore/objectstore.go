// Package objectstore abstracts the blob storage FileKeeper keeps uploaded
// files in. Blobs are addressed by key (e.g. "files/{id}_{name}") and carry
// a small map of custom metadata next to their content.
//
// Backends live in subpackages: s3store (AWS S3 and S3-compatible
// services), miniostore (MinIO) and memstore (process-local, for
// development and tests). Implementations must be safe for concurrent use.
package objectstore

import (
	"context"
	"errors"
	"io"
	"strings"
)

// ErrNotFound is returned when no blob exists under the given key.
var ErrNotFound = errors.New("object not found")

// Metadata is blob-level custom metadata. Keys are always lower-case:
// S3-compatible services do not preserve the case of user metadata.
type Metadata map[string]string

// Object is one entry of a List result.
type Object struct {
	Key  string
	Size int64
}

// Store is the blob storage contract used by the file action coordinator.
type Store interface {
	// Put writes the content of r under key. size may be -1 when unknown.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error

	// URL resolves a retrieval URL for key.
	URL(ctx context.Context, key string) (string, error)

	// Delete removes the blob at key, or returns ErrNotFound.
	Delete(ctx context.Context, key string) error

	// List returns every blob whose key starts with prefix, in the order
	// the backend lists them.
	List(ctx context.Context, prefix string) ([]Object, error)

	// Metadata returns the custom metadata of the blob at key.
	Metadata(ctx context.Context, key string) (Metadata, error)

	// UpdateMetadata merges patch into the blob's custom metadata; keys not
	// present in patch are kept.
	UpdateMetadata(ctx context.Context, key string, patch Metadata) error
}

// Normalize returns a copy of m with lower-cased keys.
func Normalize(m map[string]string) Metadata {
	out := make(Metadata, len(m))
	for k, v := range m {
		out[strings.ToLower(k)] = v
	}
	return out
}

// Merge returns base overlaid with patch; neither input is modified.
func Merge(base, patch Metadata) Metadata {
	out := make(Metadata, len(base)+len(patch))
	for k, v := range base {
		out[strings.ToLower(k)] = v
	}
	for k, v := range patch {
		out[strings.ToLower(k)] = v
	}
	return out
}
