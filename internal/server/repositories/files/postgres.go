package files

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/filekeeper/internal/dbx"
	"github.com/dmitrijs2005/filekeeper/internal/models"
)

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Put upserts the record by id.
func (r *PostgresRepository) Put(ctx context.Context, file *models.FileRecord) error {
	query := `
		INSERT INTO files (id, name, url, description, uploaded_at, updated_at, full_path)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id)
		DO UPDATE SET
			name = EXCLUDED.name,
			url = EXCLUDED.url,
			description = EXCLUDED.description,
			uploaded_at = EXCLUDED.uploaded_at,
			updated_at = EXCLUDED.updated_at,
			full_path = EXCLUDED.full_path;
	`
	res, err := r.db.ExecContext(ctx, query,
		file.ID, file.Name, file.URL, file.Description, file.UploadedAt, file.UpdatedAt, file.FullPath)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.ExpectOneRow(res)
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.FileRecord, error) {
	query := `SELECT ` + selectColumns + ` FROM files WHERE id=$1`
	return getOne(r.db.QueryRowContext(ctx, query, id), id)
}

// List returns all records ordered by full_path, the order the object
// store lists blobs in.
func (r *PostgresRepository) List(ctx context.Context) ([]*models.FileRecord, error) {
	query := `SELECT ` + selectColumns + ` FROM files ORDER BY full_path`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select files: %w", err)
	}
	return scanRecords(rows)
}

func (r *PostgresRepository) UpdateDescription(ctx context.Context, id, description, updatedAt string) error {
	query := `UPDATE files SET description=$2, updated_at=$3 WHERE id=$1`
	res, err := r.db.ExecContext(ctx, query, id, description, updatedAt)
	if err != nil {
		return fmt.Errorf("failed to update file: %w", err)
	}
	return expectOne(res, id)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM files WHERE id=$1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return expectOne(res, id)
}
