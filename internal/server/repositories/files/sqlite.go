package files

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/filekeeper/internal/dbx"
	"github.com/dmitrijs2005/filekeeper/internal/models"
)

// SQLiteRepository implements Repository for the embedded SQLite backend.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Put(ctx context.Context, file *models.FileRecord) error {
	query := `
		INSERT INTO files (id, name, url, description, uploaded_at, updated_at, full_path)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id)
		DO UPDATE SET
			name = excluded.name,
			url = excluded.url,
			description = excluded.description,
			uploaded_at = excluded.uploaded_at,
			updated_at = excluded.updated_at,
			full_path = excluded.full_path;
	`
	res, err := r.db.ExecContext(ctx, query,
		file.ID, file.Name, file.URL, file.Description, file.UploadedAt, file.UpdatedAt, file.FullPath)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.ExpectOneRow(res)
}

func (r *SQLiteRepository) Get(ctx context.Context, id string) (*models.FileRecord, error) {
	query := `SELECT ` + selectColumns + ` FROM files WHERE id=?`
	return getOne(r.db.QueryRowContext(ctx, query, id), id)
}

func (r *SQLiteRepository) List(ctx context.Context) ([]*models.FileRecord, error) {
	query := `SELECT ` + selectColumns + ` FROM files ORDER BY full_path`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select files: %w", err)
	}
	return scanRecords(rows)
}

func (r *SQLiteRepository) UpdateDescription(ctx context.Context, id, description, updatedAt string) error {
	query := `UPDATE files SET description=?, updated_at=? WHERE id=?`
	res, err := r.db.ExecContext(ctx, query, description, updatedAt, id)
	if err != nil {
		return fmt.Errorf("failed to update file: %w", err)
	}
	return expectOne(res, id)
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM files WHERE id=?`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return expectOne(res, id)
}
