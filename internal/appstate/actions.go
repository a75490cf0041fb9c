package appstate

import (
	"context"

	"github.com/dmitrijs2005/filekeeper/internal/logging"
	"github.com/dmitrijs2005/filekeeper/internal/models"
	"github.com/dmitrijs2005/filekeeper/internal/search"
)

// Coordinator performs file actions against the backing stores. It is
// implemented by the server's FileService and by the gRPC client.
type Coordinator interface {
	Upload(ctx context.Context, req models.UploadRequest) (*models.FileRecord, error)
	FetchAll(ctx context.Context) ([]models.FileRecord, error)
	Delete(ctx context.Context, fullPath string) (string, error)
	UpdateDescription(ctx context.Context, fullPath, description string) (*models.DescriptionUpdate, error)
}

// Actions dispatches coordinator calls through the container lifecycle.
// Each method returns the coordinator's result unchanged.
type Actions struct {
	coordinator Coordinator
	state       *Container
	logger      logging.Logger
}

func NewActions(coordinator Coordinator, state *Container, logger logging.Logger) *Actions {
	if logger == nil {
		logger = logging.Nop{}
	}
	return &Actions{coordinator: coordinator, state: state, logger: logger.With("module", "appstate")}
}

func (a *Actions) State() *Container { return a.state }

func (a *Actions) Upload(ctx context.Context, req models.UploadRequest) (*models.FileRecord, error) {
	op := a.state.Begin(KindUpload)
	if req.Content != nil && req.Size > 0 {
		req.Content = NewProgressReader(req.Content, req.Size, a.state.SetUploadProgress)
	}

	rec, err := a.coordinator.Upload(ctx, req)
	if err != nil {
		a.reject(ctx, op, KindUpload, err)
		return nil, err
	}
	a.state.Fulfill(op, Appended(*rec))
	return rec, nil
}

func (a *Actions) FetchAll(ctx context.Context) ([]models.FileRecord, error) {
	op := a.state.Begin(KindFetch)

	files, err := a.coordinator.FetchAll(ctx)
	if err != nil {
		a.reject(ctx, op, KindFetch, err)
		return nil, err
	}
	a.state.Fulfill(op, Replaced(files))
	return files, nil
}

func (a *Actions) Delete(ctx context.Context, fullPath string) (string, error) {
	op := a.state.Begin(KindDelete)

	deleted, err := a.coordinator.Delete(ctx, fullPath)
	if err != nil {
		a.reject(ctx, op, KindDelete, err)
		return "", err
	}
	a.state.Fulfill(op, Removed(deleted))
	return deleted, nil
}

func (a *Actions) UpdateDescription(ctx context.Context, fullPath, description string) (*models.DescriptionUpdate, error) {
	op := a.state.Begin(KindUpdate)

	upd, err := a.coordinator.UpdateDescription(ctx, fullPath, description)
	if err != nil {
		a.reject(ctx, op, KindUpdate, err)
		return nil, err
	}
	a.state.Fulfill(op, Described(*upd))
	return upd, nil
}

// Search filters the cached file list without touching the stores.
func (a *Actions) Search(term string, mode search.Mode) []models.FileRecord {
	return search.Filter(a.state.Files(), term, mode)
}

func (a *Actions) reject(ctx context.Context, op string, kind Kind, err error) {
	a.logger.Warn(ctx, "operation rejected", "op", op, "kind", kind, "error", err)
	a.state.Reject(op, err)
}
