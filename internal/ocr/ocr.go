// Package ocr shells out to tesseract with recognition parameters tuned for
// scanned form pages. It is an external collaborator of the extraction
// engine: the engine only ever sees the text this package produces.
package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/joseph-ayodele/formscan/constants"
)

// FormCharWhitelist restricts recognition to the alphabet the forms actually
// use; everything else is line noise on these scans.
const FormCharWhitelist = `ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789@._/:,#()-`

type Config struct {
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	TesseractLang string // default "eng"

	TessdataDir         string
	EnableTSVConfidence bool

	// Fixed recognition parameters for form pages: PSM 6 treats the page as a
	// single uniform block of text, and interword spacing is preserved so the
	// positional line heuristics downstream keep working.
	PSM int // default 6
	OEM int // 1 = LSTM; leave 0 to use default

	CharWhitelist string // default FormCharWhitelist; set "-" to disable
}

type ExtractionResult struct {
	Text       string
	SourceType string // always constants-normalized image extension
	Method     string // "image-ocr"
	Language   string
	Duration   time.Duration
	Warnings   []string
	Confidence float32
}

type Extractor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.TesseractLang == "" {
		cfg.TesseractLang = "eng"
	}
	if cfg.PSM == 0 {
		cfg.PSM = 6
	}
	if cfg.CharWhitelist == "" {
		cfg.CharWhitelist = FormCharWhitelist
	}
	return &Extractor{cfg: cfg, runner: newExecRunner(logger), logger: logger}
}

// Extract runs OCR on one scanned page image.
func (e *Extractor) Extract(ctx context.Context, path string) (ExtractionResult, error) {
	start := time.Now()
	ext := constants.NormalizeExt(filepath.Ext(path))
	e.logger.Debug("starting ocr extraction", "path", path, "ext", ext)

	if !constants.AllowedExt(ext) {
		e.logger.Error("unsupported ocr extension", "extension", ext)
		return ExtractionResult{}, fmt.Errorf("unsupported extension: %q", ext)
	}

	res, err := e.extractImage(ctx, path)
	res.SourceType = ext
	res.Duration = time.Since(start)
	return res, err
}
