// Package services holds the server-side file action coordinator. It
// orchestrates the object store and the record store for every file
// operation and normalises failures into the common error taxonomy.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/filekeeper/internal/common"
	"github.com/dmitrijs2005/filekeeper/internal/dbx"
	"github.com/dmitrijs2005/filekeeper/internal/logging"
	"github.com/dmitrijs2005/filekeeper/internal/models"
	"github.com/dmitrijs2005/filekeeper/internal/objectstore"
	"github.com/dmitrijs2005/filekeeper/internal/server/repositories/repomanager"
)

// Blob metadata keys.
const (
	MetaDescription  = "description"
	MetaOriginalName = "originalname"
	MetaUploadedAt   = "uploadedat"
	MetaUpdatedAt    = "updatedat"
)

const defaultFetchConcurrency = 8

type FileService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       objectstore.Store
	logger      logging.Logger

	newID            func() string
	now              func() time.Time
	fetchConcurrency int
}

type Option func(*FileService)

func WithIDGenerator(fn func() string) Option {
	return func(s *FileService) { s.newID = fn }
}

func WithClock(fn func() time.Time) Option {
	return func(s *FileService) { s.now = fn }
}

// WithFetchConcurrency bounds the number of blobs FetchAll resolves at once.
func WithFetchConcurrency(n int) Option {
	return func(s *FileService) {
		if n > 0 {
			s.fetchConcurrency = n
		}
	}
}

func NewFileService(db *sql.DB, repomanager repomanager.RepositoryManager, store objectstore.Store, logger logging.Logger, opts ...Option) *FileService {
	if logger == nil {
		logger = logging.Nop{}
	}
	s := &FileService{
		db:               db,
		repomanager:      repomanager,
		store:            store,
		logger:           logger.With("module", "files"),
		newID:            uuid.NewString,
		now:              time.Now,
		fetchConcurrency: defaultFetchConcurrency,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Upload writes the blob under files/{id}_{name}, attaches its metadata and
// mirrors the record into the record store. When a step after the blob
// write fails the blob is removed again.
func (s *FileService) Upload(ctx context.Context, req models.UploadRequest) (*models.FileRecord, error) {
	name := strings.TrimSpace(req.FileName)
	switch {
	case req.Content == nil:
		return nil, fmt.Errorf("%w: file is required", common.ErrValidation)
	case name == "":
		return nil, fmt.Errorf("%w: file name is required", common.ErrValidation)
	case strings.Contains(name, "/"):
		return nil, fmt.Errorf("%w: file name must not contain '/'", common.ErrValidation)
	}

	id := s.newID()
	fullPath := models.BuildFullPath(id, name)
	description := strings.TrimSpace(req.Description)

	if err := s.store.Put(ctx, fullPath, req.Content, req.Size, objectstore.ContentTypeFor(name)); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrStorageWrite, err)
	}

	url, err := s.store.URL(ctx, fullPath)
	if err != nil {
		return nil, s.compensateUpload(ctx, fullPath, fmt.Errorf("%w: %w", common.ErrStorageWrite, err))
	}

	uploadedAt := models.FormatTimestamp(s.now())
	err = s.store.UpdateMetadata(ctx, fullPath, objectstore.Metadata{
		MetaDescription:  description,
		MetaOriginalName: name,
		MetaUploadedAt:   uploadedAt,
	})
	if err != nil {
		return nil, s.compensateUpload(ctx, fullPath, fmt.Errorf("%w: %w", common.ErrMetadataUpdate, err))
	}

	rec := &models.FileRecord{
		ID:          id,
		Name:        name,
		URL:         url,
		Description: description,
		UploadedAt:  uploadedAt,
		FullPath:    fullPath,
	}
	if err := s.repomanager.Files(s.db).Put(ctx, rec); err != nil {
		return nil, s.compensateUpload(ctx, fullPath, fmt.Errorf("%w: %w", common.ErrDatabaseWrite, err))
	}

	s.logger.Info(ctx, "file uploaded", "id", id, "path", fullPath)
	return rec, nil
}

func (s *FileService) compensateUpload(ctx context.Context, fullPath string, cause error) error {
	if err := s.store.Delete(context.WithoutCancel(ctx), fullPath); err != nil {
		s.logger.Error(ctx, "orphaned blob after failed upload", "path", fullPath, "error", err)
		return errors.Join(cause, fmt.Errorf("remove blob: %w", err))
	}
	s.logger.Warn(ctx, "upload rolled back", "path", fullPath, "error", cause)
	return cause
}

// FetchAll lists every blob under files/ and resolves URL and metadata for
// each one concurrently. Output order is the listing order; a single
// failure fails the whole fetch.
func (s *FileService) FetchAll(ctx context.Context) ([]models.FileRecord, error) {
	objs, err := s.store.List(ctx, common.FilesNamespace)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrList, err)
	}

	out := make([]models.FileRecord, len(objs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.fetchConcurrency)
	for i, o := range objs {
		g.Go(func() error {
			url, err := s.store.URL(gctx, o.Key)
			if err != nil {
				return err
			}
			meta, err := s.store.Metadata(gctx, o.Key)
			if err != nil {
				return err
			}
			out[i] = recordFromBlob(o.Key, url, meta)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrList, err)
	}

	if orphans := s.orphanRecords(ctx, out); len(orphans) > 0 {
		s.logger.Warn(ctx, "records without blob", "ids", orphans)
	}

	return out, nil
}

// orphanRecords returns the ids of mirrored records whose blob is not in
// listed. The object store stays authoritative, so a record store failure
// is only logged.
func (s *FileService) orphanRecords(ctx context.Context, listed []models.FileRecord) []string {
	records, err := s.repomanager.Files(s.db).List(ctx)
	if err != nil {
		s.logger.Warn(ctx, "record store list failed", "error", err)
		return nil
	}

	present := make(map[string]struct{}, len(listed))
	for _, f := range listed {
		present[f.ID] = struct{}{}
	}

	var orphans []string
	for _, r := range records {
		if _, ok := present[r.ID]; !ok {
			orphans = append(orphans, r.ID)
		}
	}
	return orphans
}

// checkFullPath rejects empty paths and paths outside the files namespace.
func checkFullPath(fullPath string) error {
	switch {
	case strings.TrimSpace(fullPath) == "":
		return fmt.Errorf("%w: path is required", common.ErrValidation)
	case !strings.HasPrefix(fullPath, common.FilesNamespace) || len(fullPath) == len(common.FilesNamespace):
		return fmt.Errorf("%w: path %q is outside %s", common.ErrValidation, fullPath, common.FilesNamespace)
	}
	return nil
}

func recordFromBlob(key, url string, meta objectstore.Metadata) models.FileRecord {
	id, _ := models.ParseFullPath(key)
	name := meta[MetaOriginalName]
	if name == "" {
		name = path.Base(key)
	}
	return models.FileRecord{
		ID:          id,
		Name:        name,
		URL:         url,
		Description: meta[MetaDescription],
		UploadedAt:  meta[MetaUploadedAt],
		UpdatedAt:   meta[MetaUpdatedAt],
		FullPath:    key,
	}
}

// Delete removes the blob and its mirrored record in one transaction: the
// record delete is rolled back when the blob cannot be removed. Blobs
// without a record are deleted as well.
func (s *FileService) Delete(ctx context.Context, fullPath string) (string, error) {
	if err := checkFullPath(fullPath); err != nil {
		return "", err
	}
	id, _ := models.ParseFullPath(fullPath)

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Files(tx).Delete(ctx, id); err != nil && !errors.Is(err, common.ErrNotFound) {
			return fmt.Errorf("%w: %w", common.ErrDatabaseWrite, err)
		}
		if err := s.store.Delete(ctx, fullPath); err != nil {
			if errors.Is(err, objectstore.ErrNotFound) {
				return fmt.Errorf("%w: %w", common.ErrNotFound, err)
			}
			return fmt.Errorf("%w: %w", common.ErrStorageDelete, err)
		}
		return nil
	})
	if err != nil {
		return "", classify(err, common.ErrStorageDelete)
	}

	s.logger.Info(ctx, "file deleted", "path", fullPath)
	return fullPath, nil
}

// UpdateDescription merges {description, updatedat} into the blob metadata
// and updates the mirrored record in the same transaction.
func (s *FileService) UpdateDescription(ctx context.Context, fullPath, description string) (*models.DescriptionUpdate, error) {
	if err := checkFullPath(fullPath); err != nil {
		return nil, err
	}
	id, _ := models.ParseFullPath(fullPath)
	updatedAt := models.FormatTimestamp(s.now())

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		err := s.repomanager.Files(tx).UpdateDescription(ctx, id, description, updatedAt)
		if err != nil && !errors.Is(err, common.ErrNotFound) {
			return fmt.Errorf("%w: %w", common.ErrMetadataUpdate, err)
		}
		err = s.store.UpdateMetadata(ctx, fullPath, objectstore.Metadata{
			MetaDescription: description,
			MetaUpdatedAt:   updatedAt,
		})
		if err != nil {
			if errors.Is(err, objectstore.ErrNotFound) {
				return fmt.Errorf("%w: %w", common.ErrNotFound, err)
			}
			return fmt.Errorf("%w: %w", common.ErrMetadataUpdate, err)
		}
		return nil
	})
	if err != nil {
		return nil, classify(err, common.ErrMetadataUpdate)
	}

	s.logger.Info(ctx, "description updated", "path", fullPath)
	return &models.DescriptionUpdate{FullPath: fullPath, Description: description}, nil
}

// Get reads the mirrored record of file id.
func (s *FileService) Get(ctx context.Context, id string) (*models.FileRecord, error) {
	rec, err := s.repomanager.Files(s.db).Get(ctx, id)
	if err != nil {
		return nil, classify(err, common.ErrInternal)
	}
	return rec, nil
}

// DownloadURL resolves a fresh retrieval URL for an existing blob.
func (s *FileService) DownloadURL(ctx context.Context, fullPath string) (string, error) {
	if err := checkFullPath(fullPath); err != nil {
		return "", err
	}
	if _, err := s.store.Metadata(ctx, fullPath); err != nil {
		if errors.Is(err, objectstore.ErrNotFound) {
			return "", fmt.Errorf("%w: %w", common.ErrNotFound, err)
		}
		return "", fmt.Errorf("%w: %w", common.ErrInternal, err)
	}
	url, err := s.store.URL(ctx, fullPath)
	if err != nil {
		return "", fmt.Errorf("%w: %w", common.ErrInternal, err)
	}
	return url, nil
}

var taxonomy = []error{
	common.ErrStorageWrite,
	common.ErrStorageDelete,
	common.ErrDatabaseWrite,
	common.ErrMetadataUpdate,
	common.ErrList,
	common.ErrNotFound,
	common.ErrValidation,
}

// classify wraps err with fallback unless it already carries a taxonomy
// error (transaction begin/commit failures do not).
func classify(err, fallback error) error {
	for _, t := range taxonomy {
		if errors.Is(err, t) {
			return err
		}
	}
	return fmt.Errorf("%w: %w", fallback, err)
}
