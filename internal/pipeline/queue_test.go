package pipeline

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/formscan/internal/common"
)

type stubFileProcessor struct {
	mu      sync.Mutex
	seen    []uuid.UUID
	reqIDs  []string
	failOn  map[uuid.UUID]bool
	started chan uuid.UUID // if non-nil, signalled when a job begins
	gate    chan struct{}  // if non-nil, jobs wait here before finishing
}

func (s *stubFileProcessor) ProcessFile(ctx context.Context, fileID uuid.UUID) (uuid.UUID, error) {
	if s.started != nil {
		s.started <- fileID
	}
	if s.gate != nil {
		<-s.gate
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen = append(s.seen, fileID)
	s.reqIDs = append(s.reqIDs, common.RequestIDFromContext(ctx))
	if s.failOn[fileID] {
		return uuid.Nil, errors.New("tesseract: exit status 1")
	}
	return uuid.New(), nil
}

func (s *stubFileProcessor) seenIDs() []uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]uuid.UUID(nil), s.seen...)
}

func TestProcessorQueue_processes_all_jobs(t *testing.T) {
	bad := uuid.New()
	proc := &stubFileProcessor{failOn: map[uuid.UUID]bool{bad: true}}
	q := NewProcessorQueue(proc, nil, WithWorkers(2), WithQueueSize(8))

	ids := []uuid.UUID{uuid.New(), uuid.New(), bad, uuid.New()}
	for _, id := range ids {
		require.NoError(t, q.Enqueue(context.Background(), Job{FileID: id, SubmittedAt: time.Now()}))
	}
	q.Shutdown(context.Background())

	assert.Len(t, proc.seenIDs(), len(ids))
	processed, failed := q.Stats()
	assert.Equal(t, 3, processed)
	assert.Equal(t, 1, failed)
	for _, rid := range proc.reqIDs {
		assert.NotEmpty(t, rid, "each job carries a request id")
	}
}

func TestProcessorQueue_options(t *testing.T) {
	q := NewProcessorQueue(&stubFileProcessor{}, nil,
		WithWorkers(2), WithQueueSize(16), WithProcessTimeout(time.Minute))
	defer q.Shutdown(context.Background())

	assert.Equal(t, 2, q.workers)
	assert.Equal(t, 16, cap(q.ch))
	assert.Equal(t, time.Minute, q.timeout)
}

func TestProcessorQueue_enqueue_after_shutdown(t *testing.T) {
	proc := &stubFileProcessor{}
	q := NewProcessorQueue(proc, nil, WithWorkers(1))
	q.Shutdown(context.Background())
	q.Shutdown(context.Background()) // idempotent

	require.NoError(t, q.Enqueue(context.Background(), Job{FileID: uuid.New()}))
	assert.Empty(t, proc.seenIDs())
}

func TestProcessorQueue_shutdown_not_blocked_by_full_queue(t *testing.T) {
	proc := &stubFileProcessor{
		started: make(chan uuid.UUID, 4),
		gate:    make(chan struct{}),
	}
	q := NewProcessorQueue(proc, nil, WithWorkers(1), WithQueueSize(1))

	first := uuid.New()
	require.NoError(t, q.Enqueue(context.Background(), Job{FileID: first}))
	<-proc.started // worker holds the first job, channel is empty again

	buffered := uuid.New()
	require.NoError(t, q.Enqueue(context.Background(), Job{FileID: buffered}))

	// this one hits backpressure and blocks in the send
	overflow := uuid.New()
	go func() { _ = q.Enqueue(context.Background(), Job{FileID: overflow}) }()
	time.Sleep(50 * time.Millisecond)

	done := make(chan struct{})
	go func() {
		defer close(done)
		q.Shutdown(context.Background())
	}()
	close(proc.gate)

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("shutdown stuck behind a blocked enqueue")
	}

	seen := proc.seenIDs()
	assert.Contains(t, seen, first)
	assert.Contains(t, seen, buffered)
	assert.NotContains(t, seen, overflow)
}
