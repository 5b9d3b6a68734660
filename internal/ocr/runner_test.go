package ocr

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewExtractorInjectsLoggerIntoRunner(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil))
	e := NewExtractor(Config{}, logger)

	r, ok := e.runner.(execRunner)
	require.True(t, ok)
	assert.Same(t, logger, r.logger)
}

func TestExecRunner_logs_failure_to_injected_logger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	r := newExecRunner(logger)

	_, _, err := r.Run(context.Background(), "formscan-no-such-binary")
	require.Error(t, err)
	assert.Contains(t, buf.String(), "ocr command failed")
	assert.Contains(t, buf.String(), "formscan-no-such-binary")
}

func TestClipStderr(t *testing.T) {
	assert.Equal(t, "short", clipStderr("short"))

	long := strings.Repeat("x", stderrLogLimit+1)
	clipped := clipStderr(long)
	assert.Len(t, clipped, stderrLogLimit+len("...(truncated)"))
	assert.True(t, strings.HasSuffix(clipped, "...(truncated)"))
}
