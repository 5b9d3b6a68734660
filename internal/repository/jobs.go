package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/formscan/constants"
	"github.com/joseph-ayodele/formscan/internal/entity"
)

type ScanJobRepository interface {
	Start(ctx context.Context, fileID uuid.UUID) (*entity.ScanJob, error)
	MarkStatus(ctx context.Context, id uuid.UUID, status constants.JobStatus) error
	SaveOCR(ctx context.Context, id uuid.UUID, text string, confidence float32) error
	Finish(ctx context.Context, id uuid.UUID, status constants.JobStatus, recordCount int, errMsg string) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.ScanJob, error)
}

type scanJobRepo struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewScanJobRepository(db *sql.DB, logger *slog.Logger) ScanJobRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &scanJobRepo{db: db, logger: logger}
}

func (r *scanJobRepo) Start(ctx context.Context, fileID uuid.UUID) (*entity.ScanJob, error) {
	j := &entity.ScanJob{
		ID:        uuid.New(),
		FileID:    fileID,
		Status:    constants.JobStatusQueued,
		StartedAt: time.Now().UTC(),
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO scan_jobs (id, file_id, status, started_at) VALUES (?, ?, ?, ?)`,
		j.ID.String(), j.FileID.String(), string(j.Status), j.StartedAt)
	if err != nil {
		r.logger.Error("failed to start scan job", "file_id", fileID, "error", err)
		return nil, err
	}
	return j, nil
}

func (r *scanJobRepo) MarkStatus(ctx context.Context, id uuid.UUID, status constants.JobStatus) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE scan_jobs SET status = ? WHERE id = ?`, string(status), id.String())
	if err != nil {
		r.logger.Error("failed to update scan job status", "job_id", id, "status", status, "error", err)
	}
	return err
}

func (r *scanJobRepo) SaveOCR(ctx context.Context, id uuid.UUID, text string, confidence float32) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE scan_jobs SET status = ?, ocr_text = ?, ocr_confidence = ? WHERE id = ?`,
		string(constants.JobStatusOCROK), text, confidence, id.String())
	if err != nil {
		r.logger.Error("failed to save ocr result", "job_id", id, "error", err)
	}
	return err
}

func (r *scanJobRepo) Finish(ctx context.Context, id uuid.UUID, status constants.JobStatus, recordCount int, errMsg string) error {
	var msg *string
	if errMsg != "" {
		msg = &errMsg
	}
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`UPDATE scan_jobs SET status = ?, finished_at = ?, record_count = ?, error_message = ? WHERE id = ?`,
		string(status), now, recordCount, msg, id.String())
	if err != nil {
		r.logger.Error("failed to finish scan job", "job_id", id, "status", status, "error", err)
	}
	return err
}

func (r *scanJobRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.ScanJob, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, file_id, status, started_at, finished_at, error_message, ocr_text, ocr_confidence, record_count
		 FROM scan_jobs WHERE id = ?`, id.String())

	var j entity.ScanJob
	var jobID, fileID, status string
	if err := row.Scan(&jobID, &fileID, &status, &j.StartedAt, &j.FinishedAt, &j.ErrorMessage, &j.OCRText, &j.OCRConfidence, &j.RecordCount); err != nil {
		return nil, err
	}
	var err error
	if j.ID, err = uuid.Parse(jobID); err != nil {
		return nil, err
	}
	if j.FileID, err = uuid.Parse(fileID); err != nil {
		return nil, err
	}
	j.Status = constants.JobStatus(status)
	return &j, nil
}
