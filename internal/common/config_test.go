package common

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_defaults(t *testing.T) {
	cfg := LoadConfig()

	assert.Equal(t, "./formscan.db", cfg.Database.Path)
	assert.Equal(t, 5*time.Second, cfg.Database.BusyTimeout)
	assert.Equal(t, "tesseract", cfg.OCR.Tesseract)
	assert.Equal(t, "eng", cfg.OCR.TesseractLang)
	assert.Equal(t, 6, cfg.OCR.PSM)
	assert.True(t, cfg.OCR.TSVConfidence)
	assert.Equal(t, 4, cfg.Batch.Workers)
	assert.Equal(t, 256, cfg.Batch.QueueSize)
}

func TestLoadConfig_env_overrides(t *testing.T) {
	t.Setenv("FORMSCAN_DB_PATH", "/tmp/custom.db")
	t.Setenv("TESSERACT_PSM", "4")
	t.Setenv("TESSERACT_TSV_CONFIDENCE", "false")
	t.Setenv("FORMSCAN_FILE_TIMEOUT", "45s")

	cfg := LoadConfig()

	assert.Equal(t, "/tmp/custom.db", cfg.Database.Path)
	assert.Equal(t, 4, cfg.OCR.PSM)
	assert.False(t, cfg.OCR.TSVConfidence)
	assert.Equal(t, 45*time.Second, cfg.Batch.FileTimeout)
}

func TestLoadConfig_bad_values_fall_back(t *testing.T) {
	t.Setenv("TESSERACT_PSM", "not-a-number")
	t.Setenv("FORMSCAN_FILE_TIMEOUT", "soon")

	cfg := LoadConfig()

	assert.Equal(t, 6, cfg.OCR.PSM)
	assert.Equal(t, 3*time.Minute, cfg.Batch.FileTimeout)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid_defaults", mutate: func(c *Config) {}, wantErr: false},
		{name: "missing_db_path", mutate: func(c *Config) { c.Database.Path = "" }, wantErr: true},
		{name: "missing_tesseract", mutate: func(c *Config) { c.OCR.Tesseract = "" }, wantErr: true},
		{name: "zero_workers", mutate: func(c *Config) { c.Batch.Workers = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := LoadConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidInput))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAppError_unwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := NewAppError("DB_ERROR", "insert failed", cause)

	assert.Equal(t, "DB_ERROR: insert failed: disk full", err.Error())
	assert.True(t, errors.Is(err, cause))

	bare := NewAppError("DB_ERROR", "insert failed", nil)
	assert.Equal(t, "DB_ERROR: insert failed", bare.Error())
}

func TestWrapError(t *testing.T) {
	assert.NoError(t, WrapError(nil, "ignored"))

	wrapped := WrapError(ErrNotFound, "lookup scan")
	require.Error(t, wrapped)
	assert.True(t, errors.Is(wrapped, ErrNotFound))
	assert.Equal(t, "lookup scan: resource not found", wrapped.Error())
}
