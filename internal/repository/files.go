package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/formscan/internal/entity"
)

type ScanFileRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.ScanFile, error)
	GetByHash(ctx context.Context, hash []byte) (*entity.ScanFile, error)
	Create(ctx context.Context, sourcePath, filename, ext string, size int, hash []byte, uploadedAt time.Time) (*entity.ScanFile, error)
	UpsertByHash(ctx context.Context, sourcePath, filename, ext string, size int, hash []byte, uploadedAt time.Time) (*entity.ScanFile, bool, error)
}

type scanFileRepo struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewScanFileRepository(db *sql.DB, logger *slog.Logger) ScanFileRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &scanFileRepo{db: db, logger: logger}
}

func (r *scanFileRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.ScanFile, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, source_path, filename, file_ext, file_size, content_hash, uploaded_at
		 FROM scan_files WHERE id = ?`, id.String())
	return scanFileFromRow(row)
}

func (r *scanFileRepo) GetByHash(ctx context.Context, hash []byte) (*entity.ScanFile, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, source_path, filename, file_ext, file_size, content_hash, uploaded_at
		 FROM scan_files WHERE content_hash = ?`, hash)
	return scanFileFromRow(row)
}

func (r *scanFileRepo) Create(ctx context.Context, sourcePath, filename, ext string, size int, hash []byte, uploadedAt time.Time) (*entity.ScanFile, error) {
	f := &entity.ScanFile{
		ID:          uuid.New(),
		SourcePath:  sourcePath,
		ContentHash: hash,
		Filename:    filename,
		FileExt:     ext,
		FileSize:    size,
		UploadedAt:  uploadedAt,
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO scan_files (id, source_path, filename, file_ext, file_size, content_hash, uploaded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		f.ID.String(), f.SourcePath, f.Filename, f.FileExt, f.FileSize, f.ContentHash, f.UploadedAt)
	if err != nil {
		r.logger.Error("failed to create scan file", "source_path", sourcePath, "filename", filename, "error", err)
		return nil, err
	}
	return f, nil
}

// UpsertByHash returns the existing row when the content hash is already
// known; the bool reports whether the file was a duplicate.
func (r *scanFileRepo) UpsertByHash(ctx context.Context, sourcePath, filename, ext string, size int, hash []byte, uploadedAt time.Time) (*entity.ScanFile, bool, error) {
	existing, err := r.GetByHash(ctx, hash)
	if err == nil {
		return existing, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		r.logger.Error("failed to look up scan file by hash", "filename", filename, "error", err)
		return nil, false, err
	}
	f, err := r.Create(ctx, sourcePath, filename, ext, size, hash, uploadedAt)
	if err != nil {
		return nil, false, err
	}
	return f, false, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFileFromRow(row rowScanner) (*entity.ScanFile, error) {
	var f entity.ScanFile
	var id string
	if err := row.Scan(&id, &f.SourcePath, &f.Filename, &f.FileExt, &f.FileSize, &f.ContentHash, &f.UploadedAt); err != nil {
		return nil, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	f.ID = parsed
	return &f, nil
}
