package files

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/filekeeper/internal/common"
	"github.com/dmitrijs2005/filekeeper/internal/dbx"
	"github.com/dmitrijs2005/filekeeper/internal/models"
)

const selectColumns = `id, name, url, description, uploaded_at, updated_at, full_path`

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (*models.FileRecord, error) {
	var f models.FileRecord
	if err := s.Scan(&f.ID, &f.Name, &f.URL, &f.Description, &f.UploadedAt, &f.UpdatedAt, &f.FullPath); err != nil {
		return nil, err
	}
	return &f, nil
}

func scanRecords(rows *sql.Rows) ([]*models.FileRecord, error) {
	defer rows.Close()

	var result []*models.FileRecord
	for rows.Next() {
		f, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func getOne(row *sql.Row, id string) (*models.FileRecord, error) {
	f, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: file %s", common.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to select file: %w", err)
	}
	return f, nil
}

// expectOne maps a zero-row result onto common.ErrNotFound.
func expectOne(res sql.Result, id string) error {
	err := dbx.ExpectOneRow(res)
	if errors.Is(err, dbx.ErrNoRows) {
		return fmt.Errorf("%w: file %s", common.ErrNotFound, id)
	}
	return err
}
