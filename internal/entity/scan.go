package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/formscan/constants"
)

// ScanFile represents an ingested page image for data transfer between layers.
type ScanFile struct {
	ID          uuid.UUID `json:"id"`
	SourcePath  string    `json:"source_path"`
	ContentHash []byte    `json:"content_hash"`
	Filename    string    `json:"filename"`
	FileExt     string    `json:"file_ext"`
	FileSize    int       `json:"file_size"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// ScanJob tracks one OCR-and-parse run over a scan file.
type ScanJob struct {
	ID            uuid.UUID           `json:"id"`
	FileID        uuid.UUID           `json:"file_id"`
	Status        constants.JobStatus `json:"status"`
	StartedAt     time.Time           `json:"started_at"`
	FinishedAt    *time.Time          `json:"finished_at,omitempty"`
	ErrorMessage  *string             `json:"error_message,omitempty"`
	OCRText       *string             `json:"ocr_text,omitempty"`
	OCRConfidence *float32            `json:"ocr_confidence,omitempty"`
	RecordCount   int                 `json:"record_count"`
}

// FormRecord is one extracted field record, keyed back to the job that
// produced it. Fields holds the full ordered field map as stored JSON;
// RawText carries the page text the record was extracted from.
type FormRecord struct {
	ID        uuid.UUID         `json:"id"`
	JobID     uuid.UUID         `json:"job_id"`
	FormNo    string            `json:"form_no"`
	RecordNo  string            `json:"record_no"`
	Fields    map[string]string `json:"fields"`
	RawText   string            `json:"raw_text"`
	CreatedAt time.Time         `json:"created_at"`
}
