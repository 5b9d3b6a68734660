package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/formscan/constants"
	"github.com/joseph-ayodele/formscan/internal/entity"
	"github.com/joseph-ayodele/formscan/internal/repository"
)

// Service is a tiny façade over repositories that produces XLSX bytes for exports.
type Service struct {
	recordsRepo repository.FormRecordRepository
	jobsRepo    repository.ScanJobRepository
	logger      *slog.Logger
}

func NewService(recordsRepo repository.FormRecordRepository, jobsRepo repository.ScanJobRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{recordsRepo: recordsRepo, jobsRepo: jobsRepo, logger: logger}
}

// ExportRecordsXLSX returns an XLSX workbook (as bytes) with one row per
// extracted record, columns in catalog order, plus a Raw Text sheet holding
// the OCR text each job produced.
func (s *Service) ExportRecordsXLSX(ctx context.Context) ([]byte, error) {
	start := time.Now()

	recs, err := s.recordsRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Records"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		_, err := f.NewSheet(sheet)
		if err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	for i, h := range constants.FieldNames() {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, r := range recs {
		for col, field := range constants.AllFields {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(sheet, cell, r.Fields[string(field)])
		}
		row++
	}

	// Widen the identity and address columns
	_ = f.SetColWidth(sheet, "A", "B", 14) // form/record no
	_ = f.SetColWidth(sheet, "C", "C", 20) // sales date
	_ = f.SetColWidth(sheet, "D", "G", 24) // names, e-mail, dealer
	_ = f.SetColWidth(sheet, "H", "H", 30) // address
	_ = f.SetColWidth(sheet, "W", "W", 14) // credit card

	if err := s.writeRawTextSheet(ctx, f, recs); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(recs),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

// writeRawTextSheet adds one row per distinct job with its stored OCR text,
// so the workbook carries its own provenance.
func (s *Service) writeRawTextSheet(ctx context.Context, f *excelize.File, recs []*entity.FormRecord) error {
	const sheet = "Raw Text"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	_ = f.SetCellValue(sheet, "A1", "Job ID")
	_ = f.SetCellValue(sheet, "B1", "Records")
	_ = f.SetCellValue(sheet, "C1", "OCR Text")

	seen := make(map[uuid.UUID]bool)
	row := 2
	for _, r := range recs {
		if seen[r.JobID] {
			continue
		}
		seen[r.JobID] = true

		job, err := s.jobsRepo.GetByID(ctx, r.JobID)
		if err != nil {
			s.logger.Warn("skipping raw text for job", "job_id", r.JobID, "error", err)
			continue
		}
		text := ""
		if job.OCRText != nil {
			text = *job.OCRText
		}
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		write(1, job.ID.String())
		write(2, job.RecordCount)
		write(3, truncate(text, 32000))
		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 38)
	_ = f.SetColWidth(sheet, "C", "C", 100)
	return nil
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "…"
}
