package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/formscan/internal/common"
	"github.com/joseph-ayodele/formscan/internal/engine"
	"github.com/joseph-ayodele/formscan/internal/export"
	"github.com/joseph-ayodele/formscan/internal/ingest"
	"github.com/joseph-ayodele/formscan/internal/ocr"
	"github.com/joseph-ayodele/formscan/internal/pipeline"
	repo "github.com/joseph-ayodele/formscan/internal/repository"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		dir         = flag.String("dir", "", "directory of scanned form pages (required)")
		out         = flag.String("out", "", "output XLSX file path (defaults next to --dir)")
		dbPath      = flag.String("db", "", "sqlite database path (defaults to FORMSCAN_DB_PATH)")
		corrections = flag.String("corrections", "", "JSON file of per-record field overrides")
		verbose     = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	if *dir == "" {
		printError("Error: --dir is required\n")
		os.Exit(1)
	}
	if *out == "" {
		parentDir := filepath.Dir(*dir)
		*out = filepath.Join(parentDir, "formscan.xlsx")
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	ctx := context.Background()

	cfg := common.LoadConfig()
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}
	if *corrections != "" {
		cfg.OCR.CorrectionsPath = *corrections
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	db, err := repo.Open(ctx, repo.Config{
		Path:        cfg.Database.Path,
		BusyTimeout: cfg.Database.BusyTimeout,
	}, logger)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer repo.Close(db, logger)

	filesRepo := repo.NewScanFileRepository(db, logger)
	jobsRepo := repo.NewScanJobRepository(db, logger)
	recordsRepo := repo.NewFormRecordRepository(db, logger)

	extractor := ocr.NewExtractor(ocr.Config{
		Tesseract:           cfg.OCR.Tesseract,
		TesseractLang:       cfg.OCR.TesseractLang,
		TessdataDir:         cfg.OCR.TessdataDir,
		PSM:                 cfg.OCR.PSM,
		OEM:                 cfg.OCR.OEM,
		EnableTSVConfidence: cfg.OCR.TSVConfidence,
	}, logger)

	var parserOpts []engine.ExtractorOption
	if cfg.OCR.CorrectionsPath != "" {
		data, err := os.ReadFile(cfg.OCR.CorrectionsPath)
		if err != nil {
			logger.Error("failed to read corrections file", "path", cfg.OCR.CorrectionsPath, "error", err)
			os.Exit(1)
		}
		corr, err := engine.LoadCorrections(data)
		if err != nil {
			logger.Error("invalid corrections file", "path", cfg.OCR.CorrectionsPath, "error", err)
			os.Exit(1)
		}
		parserOpts = append(parserOpts, engine.WithCorrections(corr))
	}
	parser := engine.NewParser(logger, parserOpts...)

	processor := pipeline.NewProcessor(logger, extractor, parser, filesRepo, jobsRepo, recordsRepo)
	ingestor := ingest.NewFSIngestor(filesRepo, logger)

	logger.Info("starting ingestion", "dir", *dir)
	results, stats, err := ingestor.IngestDirectory(ctx, *dir, true)
	if err != nil {
		logger.Error("failed to ingest directory", "error", err)
		os.Exit(1)
	}

	var ingested []uuid.UUID
	for _, result := range results {
		if result.Err == "" {
			fileID, err := uuid.Parse(result.FileID)
			if err != nil {
				logger.Error("failed to parse file ID", "file_id", result.FileID, "error", err)
				continue
			}
			ingested = append(ingested, fileID)
		}
	}
	logger.Info("ingestion complete",
		"files_ingested", len(ingested),
		"scanned", stats.Scanned,
		"matched", stats.Matched,
		"succeeded", stats.Succeeded,
		"failed", stats.Failed,
		"deduplicated", stats.Deduplicated)

	queue := pipeline.NewProcessorQueue(processor, logger,
		pipeline.WithWorkers(cfg.Batch.Workers),
		pipeline.WithQueueSize(cfg.Batch.QueueSize),
		pipeline.WithProcessTimeout(cfg.Batch.FileTimeout),
	)
	for _, fileID := range ingested {
		if err := queue.Enqueue(ctx, pipeline.Job{FileID: fileID, SubmittedAt: time.Now()}); err != nil {
			logger.Error("failed to enqueue file", "file_id", fileID, "error", err)
		}
	}
	queue.Shutdown(ctx)
	processed, failures := queue.Stats()

	logger.Info("exporting to XLSX", "output", *out)
	exportService := export.NewService(recordsRepo, jobsRepo, logger)
	xlsxBytes, err := exportService.ExportRecordsXLSX(ctx)
	if err != nil {
		logger.Error("failed to export records", "error", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, xlsxBytes, 0644); err != nil {
		logger.Error("failed to write output file", "error", err)
		os.Exit(1)
	}

	logger.Info("batch processing complete",
		"files_ingested", len(ingested),
		"files_processed", processed,
		"failures", failures,
		"output_file", *out)

	fmt.Printf("Batch processing complete!\n")
	fmt.Printf("- Files ingested: %d\n", len(ingested))
	fmt.Printf("- Files processed: %d\n", processed)
	fmt.Printf("- Failures: %d\n", failures)
	fmt.Printf("- Output: %s\n", *out)
}
