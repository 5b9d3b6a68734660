package engine

import (
	"log/slog"
)

// Parser drives segmentation and extraction over one block of OCR text.
type Parser struct {
	logger    *slog.Logger
	extractor *Extractor
}

// NewParser builds a Parser. A nil logger falls back to slog.Default().
func NewParser(logger *slog.Logger, opts ...ExtractorOption) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{
		logger:    logger,
		extractor: NewExtractor(opts...),
	}
}

// ParseFormData extracts every logical record from raw OCR text.
//
// All-empty records are discarded, but the result is never empty: when the
// text yields nothing at all, a single default record (placeholders and empty
// strings) is returned. Malformed input degrades to fewer or emptier records,
// never an error.
func (p *Parser) ParseFormData(ocrText string) []Record {
	lines := SplitLines(ocrText)
	spans := Segment(lines)

	records := make([]Record, 0, len(spans))
	for _, span := range spans {
		rec := p.extractor.Extract(lines[span.Start:span.End])
		if rec.IsEmpty() {
			continue
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		p.logger.Debug("no extractable records, returning default", "lines", len(lines))
		rec := NewRecord()
		fillPlaceholders(rec)
		records = append(records, rec)
	}

	p.logger.Info("parsed form data",
		"lines", len(lines), "spans", len(spans), "records", len(records),
	)
	return records
}
