// Package files is the record store: FileRecord rows keyed by file id,
// mirroring the blobs kept in the object store.
package files

import (
	"context"

	"github.com/dmitrijs2005/filekeeper/internal/models"
)

// Repository reads and writes FileRecord rows. Get, UpdateDescription and
// Delete return common.ErrNotFound when no row has the given id.
type Repository interface {
	Put(ctx context.Context, file *models.FileRecord) error
	Get(ctx context.Context, id string) (*models.FileRecord, error)
	List(ctx context.Context) ([]*models.FileRecord, error)
	UpdateDescription(ctx context.Context, id, description, updatedAt string) error
	Delete(ctx context.Context, id string) error
}
