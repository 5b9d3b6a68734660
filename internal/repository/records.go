package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/formscan/constants"
	"github.com/joseph-ayodele/formscan/internal/engine"
	"github.com/joseph-ayodele/formscan/internal/entity"
)

type FormRecordRepository interface {
	SaveAll(ctx context.Context, jobID uuid.UUID, rawText string, records []engine.Record) ([]*entity.FormRecord, error)
	ListByJob(ctx context.Context, jobID uuid.UUID) ([]*entity.FormRecord, error)
	ListAll(ctx context.Context) ([]*entity.FormRecord, error)
}

type formRecordRepo struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewFormRecordRepository(db *sql.DB, logger *slog.Logger) FormRecordRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &formRecordRepo{db: db, logger: logger}
}

// SaveAll persists one batch of extracted records inside a transaction so a
// failed page never leaves partial rows behind. rawText is the page text the
// batch was extracted from; every record carries it.
func (r *formRecordRepo) SaveAll(ctx context.Context, jobID uuid.UUID, rawText string, records []engine.Record) ([]*entity.FormRecord, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.logger.Error("failed to begin transaction", "job_id", jobID, "error", err)
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()
	out := make([]*entity.FormRecord, 0, len(records))
	for _, rec := range records {
		fields := make(map[string]string, len(rec))
		for _, p := range rec.Pairs() {
			fields[string(p.Field)] = p.Value
		}
		raw, err := json.Marshal(fields)
		if err != nil {
			return nil, err
		}
		row := &entity.FormRecord{
			ID:        uuid.New(),
			JobID:     jobID,
			FormNo:    rec[constants.FormNo],
			RecordNo:  rec[constants.RecordNo],
			Fields:    fields,
			RawText:   rawText,
			CreatedAt: now,
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO form_records (id, job_id, form_no, record_no, fields_json, raw_text, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			row.ID.String(), row.JobID.String(), row.FormNo, row.RecordNo, string(raw), row.RawText, row.CreatedAt)
		if err != nil {
			r.logger.Error("failed to insert form record", "job_id", jobID, "record_no", row.RecordNo, "error", err)
			return nil, err
		}
		out = append(out, row)
	}
	if err := tx.Commit(); err != nil {
		r.logger.Error("failed to commit form records", "job_id", jobID, "error", err)
		return nil, err
	}
	return out, nil
}

func (r *formRecordRepo) ListByJob(ctx context.Context, jobID uuid.UUID) ([]*entity.FormRecord, error) {
	return r.list(ctx,
		`SELECT id, job_id, form_no, record_no, fields_json, raw_text, created_at
		 FROM form_records WHERE job_id = ? ORDER BY created_at, record_no`, jobID.String())
}

func (r *formRecordRepo) ListAll(ctx context.Context) ([]*entity.FormRecord, error) {
	return r.list(ctx,
		`SELECT id, job_id, form_no, record_no, fields_json, raw_text, created_at
		 FROM form_records ORDER BY created_at, record_no`)
}

func (r *formRecordRepo) list(ctx context.Context, query string, args ...any) ([]*entity.FormRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to list form records", "error", err)
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []*entity.FormRecord
	for rows.Next() {
		var rec entity.FormRecord
		var id, jobID, raw string
		if err := rows.Scan(&id, &jobID, &rec.FormNo, &rec.RecordNo, &raw, &rec.RawText, &rec.CreatedAt); err != nil {
			return nil, err
		}
		if rec.ID, err = uuid.Parse(id); err != nil {
			return nil, err
		}
		if rec.JobID, err = uuid.Parse(jobID); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(raw), &rec.Fields); err != nil {
			return nil, err
		}
		out = append(out, &rec)
	}
	return out, rows.Err()
}
