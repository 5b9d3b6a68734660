package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/formscan/internal/common"
	"github.com/joseph-ayodele/formscan/internal/engine"
	"github.com/joseph-ayodele/formscan/internal/ingest"
	"github.com/joseph-ayodele/formscan/internal/ocr"
	"github.com/joseph-ayodele/formscan/internal/pipeline"
	repo "github.com/joseph-ayodele/formscan/internal/repository"
)

// runocr is a debugging tool: OCR a single page, store the job, and dump the
// recognized text to stdout without parsing records.
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if len(os.Args) != 2 {
		logger.Error("usage", "cmd", "runocr <image-path>")
		os.Exit(2)
	}
	path := os.Args[1]

	cfg := common.LoadConfig()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, err := repo.Open(ctx, repo.Config{
		Path:        cfg.Database.Path,
		BusyTimeout: cfg.Database.BusyTimeout,
	}, logger)
	if err != nil {
		logger.Error("open db", "error", err)
		os.Exit(1)
	}
	defer repo.Close(db, logger)

	filesRepo := repo.NewScanFileRepository(db, logger)
	jobsRepo := repo.NewScanJobRepository(db, logger)
	recordsRepo := repo.NewFormRecordRepository(db, logger)

	ingestor := ingest.NewFSIngestor(filesRepo, logger)
	res, err := ingestor.IngestPath(ctx, path)
	if err != nil {
		logger.Error("ingest failed", "path", path, "error", err)
		os.Exit(1)
	}
	fileID, err := uuid.Parse(res.FileID)
	if err != nil {
		logger.Error("invalid file id", "file_id", res.FileID, "error", err)
		os.Exit(1)
	}

	extractor := ocr.NewExtractor(ocr.Config{
		Tesseract:           cfg.OCR.Tesseract,
		TesseractLang:       cfg.OCR.TesseractLang,
		TessdataDir:         cfg.OCR.TessdataDir,
		PSM:                 cfg.OCR.PSM,
		OEM:                 cfg.OCR.OEM,
		EnableTSVConfidence: cfg.OCR.TSVConfidence,
	}, logger)
	parser := engine.NewParser(logger)
	p := pipeline.NewProcessor(logger, extractor, parser, filesRepo, jobsRepo, recordsRepo)

	start := time.Now()
	jobID, ocrRes, err := p.RunOCROnly(ctx, fileID)
	dur := time.Since(start)

	if err != nil {
		logger.Error("text extraction failed",
			"job_id", jobID, "error", err, "duration_ms", dur.Milliseconds())
		os.Exit(1)
	}

	logger.Info("text extraction OK",
		"job_id", jobID,
		"method", ocrRes.Method,
		"confidence", ocrRes.Confidence,
		"bytes", len(ocrRes.Text),
		"duration_ms", dur.Milliseconds(),
	)
	fmt.Println(ocrRes.Text)
}
