// backend/src/database/uploads.go
package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/username/foliolens/backend/src/services"
)

// UploadStore is the SQLite-backed implementation of services.UploadStore.
type UploadStore struct {
	db *sql.DB
}

func NewUploadStore(db *sql.DB) *UploadStore {
	return &UploadStore{db: db}
}

func (s *UploadStore) SaveUpload(record services.UploadRecord) error {
	_, err := s.db.Exec(
		`INSERT INTO recent_uploads (id, filename, file_type, uploaded_at, payload)
		 VALUES (?, ?, ?, ?, ?)`,
		record.ID, record.Filename, record.FileType,
		record.UploadedAt.UTC().Format(time.RFC3339), record.Payload,
	)
	if err != nil {
		return fmt.Errorf("saving upload %s: %w", record.ID, err)
	}
	return nil
}

func (s *UploadStore) GetUpload(id string) (*services.UploadRecord, error) {
	row := s.db.QueryRow(
		`SELECT id, filename, file_type, uploaded_at, payload
		 FROM recent_uploads WHERE id = ?`, id,
	)

	var record services.UploadRecord
	var uploadedAt string
	err := row.Scan(&record.ID, &record.Filename, &record.FileType, &uploadedAt, &record.Payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading upload %s: %w", id, err)
	}

	record.UploadedAt, err = time.Parse(time.RFC3339, uploadedAt)
	if err != nil {
		return nil, fmt.Errorf("parsing uploaded_at for %s: %w", id, err)
	}
	return &record, nil
}

func (s *UploadStore) ListUploads(limit int) ([]services.UploadRecord, error) {
	rows, err := s.db.Query(
		`SELECT id, filename, file_type, uploaded_at, payload
		 FROM recent_uploads ORDER BY uploaded_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing uploads: %w", err)
	}
	defer rows.Close()

	var records []services.UploadRecord
	for rows.Next() {
		var record services.UploadRecord
		var uploadedAt string
		if err := rows.Scan(&record.ID, &record.Filename, &record.FileType, &uploadedAt, &record.Payload); err != nil {
			return nil, fmt.Errorf("scanning upload row: %w", err)
		}
		if record.UploadedAt, err = time.Parse(time.RFC3339, uploadedAt); err != nil {
			return nil, fmt.Errorf("parsing uploaded_at: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func (s *UploadStore) DeleteUpload(id string) error {
	result, err := s.db.Exec(`DELETE FROM recent_uploads WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting upload %s: %w", id, err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return services.ErrUploadNotFound
	}
	return nil
}
