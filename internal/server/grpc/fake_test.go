package grpc

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/dmitrijs2005/filekeeper/internal/common"
	"github.com/dmitrijs2005/filekeeper/internal/models"
)

type fakeFiles struct {
	mu    sync.Mutex
	files map[string]models.FileRecord
	seq   int
	err   error
}

func newFakeFiles() *fakeFiles { return &fakeFiles{files: map[string]models.FileRecord{}} }

func (f *fakeFiles) Upload(ctx context.Context, req models.UploadRequest) (*models.FileRecord, error) {
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
		URL:         fmt.Sprintf("http://blobs.test/%d", len(data)),
		Description: req.Description,
		FullPath:    models.BuildFullPath(id, req.FileName),
	}
	f.files[rec.FullPath] = rec
	return &rec, nil
}

func (f *fakeFiles) FetchAll(ctx context.Context) ([]models.FileRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.FileRecord, 0, len(f.files))
	for _, r := range f.files {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullPath < out[j].FullPath })
	return out, nil
}

func (f *fakeFiles) Delete(ctx context.Context, fullPath string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.files[fullPath]; !ok {
		return "", fmt.Errorf("%w: %s", common.ErrNotFound, fullPath)
	}
	delete(f.files, fullPath)
	return fullPath, nil
}

func (f *fakeFiles) UpdateDescription(ctx context.Context, fullPath, description string) (*models.DescriptionUpdate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.files[fullPath]
	if !ok {
		return nil, fmt.Errorf("%w: %s", common.ErrNotFound, fullPath)
	}
	r.Description = description
	f.files[fullPath] = r
	return &models.DescriptionUpdate{FullPath: fullPath, Description: description}, nil
}

func (f *fakeFiles) Get(ctx context.Context, id string) (*models.FileRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.files {
		if r.ID == id {
			return &r, nil
		}
	}
	return nil, fmt.Errorf("%w: file %s", common.ErrNotFound, id)
}

func (f *fakeFiles) DownloadURL(ctx context.Context, fullPath string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.files[fullPath]
	if !ok {
		return "", fmt.Errorf("%w: %s", common.ErrNotFound, fullPath)
	}
	return r.URL, nil
}
