package repository

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/formscan/constants"
	"github.com/joseph-ayodele/formscan/internal/engine"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(context.Background(), Config{Path: ":memory:"}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestScanFileRepo_create_and_get(t *testing.T) {
	db := openTestDB(t)
	repo := NewScanFileRepository(db, nil)
	ctx := context.Background()

	hash := sha256.Sum256([]byte("page one"))
	now := time.Now().UTC().Truncate(time.Second)

	created, err := repo.Create(ctx, "/scans/page1.png", "page1.png", "png", 2048, hash[:], now)
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "/scans/page1.png", got.SourcePath)
	assert.Equal(t, "png", got.FileExt)
	assert.Equal(t, 2048, got.FileSize)
	assert.Equal(t, hash[:], got.ContentHash)

	byHash, err := repo.GetByHash(ctx, hash[:])
	require.NoError(t, err)
	assert.Equal(t, created.ID, byHash.ID)
}

func TestScanFileRepo_upsert_deduplicates(t *testing.T) {
	db := openTestDB(t)
	repo := NewScanFileRepository(db, nil)
	ctx := context.Background()

	hash := sha256.Sum256([]byte("same content"))
	now := time.Now().UTC()

	first, dedup, err := repo.UpsertByHash(ctx, "/a/page.png", "page.png", "png", 10, hash[:], now)
	require.NoError(t, err)
	assert.False(t, dedup)

	second, dedup, err := repo.UpsertByHash(ctx, "/b/copy.png", "copy.png", "png", 10, hash[:], now)
	require.NoError(t, err)
	assert.True(t, dedup)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "/a/page.png", second.SourcePath)
}

func TestScanFileRepo_get_missing(t *testing.T) {
	db := openTestDB(t)
	repo := NewScanFileRepository(db, nil)

	_, err := repo.GetByHash(context.Background(), []byte{0x01})
	assert.True(t, errors.Is(err, sql.ErrNoRows))
}

func TestScanJobRepo_lifecycle(t *testing.T) {
	db := openTestDB(t)
	files := NewScanFileRepository(db, nil)
	jobs := NewScanJobRepository(db, nil)
	ctx := context.Background()

	hash := sha256.Sum256([]byte("x"))
	file, err := files.Create(ctx, "/scans/p.png", "p.png", "png", 1, hash[:], time.Now().UTC())
	require.NoError(t, err)

	job, err := jobs.Start(ctx, file.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.JobStatusQueued, job.Status)

	require.NoError(t, jobs.MarkStatus(ctx, job.ID, constants.JobStatusRunning))
	require.NoError(t, jobs.SaveOCR(ctx, job.ID, "RECORD NO: 1047", 0.91))
	require.NoError(t, jobs.Finish(ctx, job.ID, constants.JobStatusParsed, 3, ""))

	got, err := jobs.GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.JobStatusParsed, got.Status)
	assert.Equal(t, file.ID, got.FileID)
	assert.Equal(t, 3, got.RecordCount)
	require.NotNil(t, got.OCRText)
	assert.Equal(t, "RECORD NO: 1047", *got.OCRText)
	require.NotNil(t, got.OCRConfidence)
	assert.InDelta(t, 0.91, *got.OCRConfidence, 0.001)
	assert.NotNil(t, got.FinishedAt)
	assert.Nil(t, got.ErrorMessage)
}

func TestScanJobRepo_finish_with_error(t *testing.T) {
	db := openTestDB(t)
	files := NewScanFileRepository(db, nil)
	jobs := NewScanJobRepository(db, nil)
	ctx := context.Background()

	hash := sha256.Sum256([]byte("y"))
	file, err := files.Create(ctx, "/scans/q.png", "q.png", "png", 1, hash[:], time.Now().UTC())
	require.NoError(t, err)

	job, err := jobs.Start(ctx, file.ID)
	require.NoError(t, err)
	require.NoError(t, jobs.Finish(ctx, job.ID, constants.JobStatusFailed, 0, "tesseract: exit status 1"))

	got, err := jobs.GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.JobStatusFailed, got.Status)
	require.NotNil(t, got.ErrorMessage)
	assert.Equal(t, "tesseract: exit status 1", *got.ErrorMessage)
}

func TestFormRecordRepo_save_and_list(t *testing.T) {
	db := openTestDB(t)
	files := NewScanFileRepository(db, nil)
	jobs := NewScanJobRepository(db, nil)
	records := NewFormRecordRepository(db, nil)
	ctx := context.Background()

	hash := sha256.Sum256([]byte("z"))
	file, err := files.Create(ctx, "/scans/r.png", "r.png", "png", 1, hash[:], time.Now().UTC())
	require.NoError(t, err)
	job, err := jobs.Start(ctx, file.ID)
	require.NoError(t, err)

	rec1 := engine.NewRecord()
	rec1[constants.FormNo] = "52361_204715"
	rec1[constants.RecordNo] = "1047"
	rec1[constants.CustomerName] = "Caldwell Jesse"

	rec2 := engine.NewRecord()
	rec2[constants.FormNo] = "52361_204716"
	rec2[constants.RecordNo] = "1048"

	rawText := "page text the records came from"
	saved, err := records.SaveAll(ctx, job.ID, rawText, []engine.Record{rec1, rec2})
	require.NoError(t, err)
	require.Len(t, saved, 2)

	listed, err := records.ListByJob(ctx, job.ID)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "1047", listed[0].RecordNo)
	assert.Equal(t, "1048", listed[1].RecordNo)
	assert.Equal(t, "Caldwell Jesse", listed[0].Fields[string(constants.CustomerName)])
	assert.Equal(t, rawText, listed[0].RawText)

	all, err := records.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
