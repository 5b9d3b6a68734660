package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/formscan/constants"
	"github.com/joseph-ayodele/formscan/internal/common"
	"github.com/joseph-ayodele/formscan/internal/engine"
	"github.com/joseph-ayodele/formscan/internal/ocr"
	"github.com/joseph-ayodele/formscan/internal/repository"
)

// Processor coordinates OCR (text extract) then record parse (fields).
type Processor struct {
	logger      *slog.Logger
	extractor   *ocr.Extractor
	parser      *engine.Parser
	filesRepo   repository.ScanFileRepository
	jobsRepo    repository.ScanJobRepository
	recordsRepo repository.FormRecordRepository
}

func NewProcessor(
	logger *slog.Logger,
	extractor *ocr.Extractor,
	parser *engine.Parser,
	filesRepo repository.ScanFileRepository,
	jobsRepo repository.ScanJobRepository,
	recordsRepo repository.FormRecordRepository,
) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		logger:      logger,
		extractor:   extractor,
		parser:      parser,
		filesRepo:   filesRepo,
		jobsRepo:    jobsRepo,
		recordsRepo: recordsRepo,
	}
}

// ProcessFile runs OCR for a fileID (creating/advancing a scan job), then
// parses the text into records and persists them.
// Returns the final jobID (same one started by OCR).
func (p *Processor) ProcessFile(ctx context.Context, fileID uuid.UUID) (uuid.UUID, error) {
	if rid := common.RequestIDFromContext(ctx); rid != "" {
		p.logger.Debug("processing request", "request_id", rid, "file_id", fileID)
	}

	jobID, res, err := p.runOCR(ctx, fileID)
	if err != nil {
		p.logger.Error("processor.ocr.failed", "file_id", fileID, "err", err)
		return jobID, err
	}
	p.logger.Debug("processor ocr success",
		"file_id", fileID,
		"job_id", jobID,
		"method", res.Method,
		"confidence", res.Confidence,
	)

	if err := p.runParse(ctx, jobID, res.Text); err != nil {
		p.logger.Error("processor.parse.failed", "job_id", jobID, "err", err)
		return jobID, err
	}
	p.logger.Debug("processor parse success", "job_id", jobID)
	return jobID, nil
}

// runOCR starts a scan job, runs OCR, and persists the OCR text.
func (p *Processor) runOCR(ctx context.Context, fileID uuid.UUID) (uuid.UUID, ocr.ExtractionResult, error) {
	row, err := p.filesRepo.GetByID(ctx, fileID)
	if err != nil {
		return uuid.Nil, ocr.ExtractionResult{}, fmt.Errorf("get file: %w", err)
	}

	job, err := p.jobsRepo.Start(ctx, row.ID)
	if err != nil {
		return uuid.Nil, ocr.ExtractionResult{}, err
	}
	if err := p.jobsRepo.MarkStatus(ctx, job.ID, constants.JobStatusRunning); err != nil {
		return job.ID, ocr.ExtractionResult{}, err
	}

	res, err := p.extractor.Extract(ctx, row.SourcePath)
	if err != nil {
		_ = p.jobsRepo.Finish(ctx, job.ID, constants.JobStatusFailed, 0, err.Error())
		return job.ID, res, err
	}

	if res.Confidence > 0 && res.Confidence < ocr.ImageConfidenceThreshold {
		p.logger.Warn("image ocr confidence low",
			"file_id", fileID, "job_id", job.ID, "conf", res.Confidence)
	}

	if err := p.jobsRepo.SaveOCR(ctx, job.ID, res.Text, res.Confidence); err != nil {
		return job.ID, res, err
	}
	return job.ID, res, nil
}

// RunOCROnly performs OCR extraction only, without record parsing.
func (p *Processor) RunOCROnly(ctx context.Context, fileID uuid.UUID) (uuid.UUID, ocr.ExtractionResult, error) {
	return p.runOCR(ctx, fileID)
}

// runParse segments the OCR text into records and persists them on the job.
func (p *Processor) runParse(ctx context.Context, jobID uuid.UUID, text string) error {
	records := p.parser.ParseFormData(text)

	rows, err := p.recordsRepo.SaveAll(ctx, jobID, text, records)
	if err != nil {
		_ = p.jobsRepo.Finish(ctx, jobID, constants.JobStatusFailed, 0, err.Error())
		return fmt.Errorf("save records: %w", err)
	}

	if err := p.jobsRepo.Finish(ctx, jobID, constants.JobStatusParsed, len(rows), ""); err != nil {
		return err
	}

	p.logger.Info("parsed records successfully",
		"job_id", jobID, "records", len(rows),
	)
	return nil
}
