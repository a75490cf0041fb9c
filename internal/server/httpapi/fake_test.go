package httpapi

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/dmitrijs2005/filekeeper/internal/common"
	"github.com/dmitrijs2005/filekeeper/internal/models"
)

// fakeFiles is an in-memory coordinator.
type fakeFiles struct {
	mu      sync.Mutex
	files   []models.FileRecord
	uploads map[string][]byte
	err     error
	seq     int
}

func newFakeFiles(files ...models.FileRecord) *fakeFiles {
	return &fakeFiles{files: files, uploads: map[string][]byte{}}
}

func (f *fakeFiles) Upload(_ context.Context, req models.UploadRequest) (*models.FileRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	data, err := io.ReadAll(req.Content)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	id := fmt.Sprintf("id%d", f.seq)
	rec := models.FileRecord{
		ID:          id,
		Name:        req.FileName,
		Description: req.Description,
		FullPath:    models.BuildFullPath(id, req.FileName),
		URL:         "https://blobs.example/" + id,
		UploadedAt:  "2025-01-02T03:04:05.000Z",
	}
	f.uploads[rec.FullPath] = data
	f.files = append(f.files, rec)
	return &rec, nil
}

func (f *fakeFiles) FetchAll(context.Context) ([]models.FileRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.FileRecord(nil), f.files...), nil
}

func (f *fakeFiles) Delete(_ context.Context, fullPath string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, rec := range f.files {
		if rec.FullPath == fullPath {
			f.files = append(f.files[:i], f.files[i+1:]...)
			return fullPath, nil
		}
	}
	return "", fmt.Errorf("%w: %s", common.ErrNotFound, fullPath)
}

func (f *fakeFiles) UpdateDescription(_ context.Context, fullPath, description string) (*models.DescriptionUpdate, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, rec := range f.files {
		if rec.FullPath == fullPath {
			f.files[i].Description = description
			return &models.DescriptionUpdate{FullPath: fullPath, Description: description}, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", common.ErrNotFound, fullPath)
}

func (f *fakeFiles) Get(_ context.Context, id string) (*models.FileRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, rec := range f.files {
		if rec.ID == id {
			r := rec
			return &r, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeFiles) DownloadURL(_ context.Context, fullPath string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, rec := range f.files {
		if rec.FullPath == fullPath {
			return rec.URL, nil
		}
	}
	return "", common.ErrNotFound
}
