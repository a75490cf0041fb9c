// Package models defines the data shared by the FileKeeper server, its
// transports and the CLI client.
package models

import (
	"io"
	"path"
	"strings"
	"time"

	"github.com/dmitrijs2005/filekeeper/internal/common"
)

// TimestampLayout is the ISO-8601 form used for UploadedAt/UpdatedAt
// (UTC, millisecond precision).
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// FileRecord is the metadata mirrored into the record store for every
// uploaded blob.
type FileRecord struct {
	// ID is stable for the life of the record.
	ID string `json:"id"`
	// Name is the display name supplied at upload time.
	Name string `json:"name"`
	// URL is the resolved retrieval URL of the blob.
	URL string `json:"url"`
	// Description is free text, empty by default.
	Description string `json:"description"`
	// UploadedAt is an ISO-8601 timestamp string.
	UploadedAt string `json:"uploadedAt"`
	// UpdatedAt is set by description edits; empty until the first one.
	UpdatedAt string `json:"updatedAt,omitempty"`
	// FullPath is the storage key that uniquely addresses the blob.
	FullPath string `json:"fullPath"`
}

// DescriptionUpdate is the result of a successful description edit.
type DescriptionUpdate struct {
	FullPath    string `json:"fullPath"`
	Description string `json:"description"`
}

// UploadRequest carries the content and form fields of one upload. Size is
// -1 when the length of Content is unknown.
type UploadRequest struct {
	Content     io.Reader
	Size        int64
	FileName    string
	Description string
}

// FormatTimestamp renders t in TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// BuildFullPath returns the storage key for a file: files/{id}_{name}.
func BuildFullPath(id, name string) string {
	return common.FilesNamespace + id + common.PathSeparator + name
}

// ParseFullPath splits a storage key into the file id (everything before
// the first separator of the base name) and the remaining name. A base name
// without a separator yields itself as both id and name.
func ParseFullPath(fullPath string) (id, name string) {
	base := path.Base(fullPath)
	id, name, ok := strings.Cut(base, common.PathSeparator)
	if !ok {
		return base, base
	}
	return id, name
}

var imageExtensions = map[string]struct{}{
	".jpg": {}, ".jpeg": {}, ".png": {}, ".gif": {}, ".webp": {},
}

// IsImage reports whether the record's name has an image extension the UI
// can preview.
func (r FileRecord) IsImage() bool {
	_, ok := imageExtensions[strings.ToLower(path.Ext(r.Name))]
	return ok
}
