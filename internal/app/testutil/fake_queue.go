package testutil

import (
	"context"
	"sync"
	"time"

	"audio-scribe/internal/app/handler"
	"audio-scribe/internal/app/model"
	"audio-scribe/internal/app/queue"
)

// FakeJobQueue is an in-memory queue.JobQueue for tests.
type FakeJobQueue struct {
	mu       sync.Mutex
	pending  []*queue.Job
	statuses map[string]*queue.JobStatus
	enqueued map[string]time.Time
}

func NewFakeJobQueue() *FakeJobQueue {
	return &FakeJobQueue{
		statuses: make(map[string]*queue.JobStatus),
		enqueued: make(map[string]time.Time),
	}
}

func (f *FakeJobQueue) Enqueue(ctx context.Context, job *queue.Job) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if job.EnqueuedAt.IsZero() {
		job.EnqueuedAt = time.Now()
	}
	f.pending = append(f.pending, job)
	f.statuses[job.ID] = &queue.JobStatus{ID: job.ID, Status: model.StatusInQueue}
	f.enqueued[job.ID] = job.EnqueuedAt
	return nil
}

func (f *FakeJobQueue) Dequeue(ctx context.Context, timeout time.Duration) (*queue.Job, error) {
	deadline := time.Now().Add(timeout)
	for {
		f.mu.Lock()
		for len(f.pending) > 0 {
			job := f.pending[0]
			f.pending = f.pending[1:]
			st := f.statuses[job.ID]
			if st != nil && st.Status == model.StatusCancelled {
				continue
			}
			f.mu.Unlock()
			return job, nil
		}
		f.mu.Unlock()

		if time.Now().After(deadline) {
			return nil, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func (f *FakeJobQueue) MarkInProgress(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	st, ok := f.statuses[id]
	if !ok {
		return queue.ErrJobNotFound
	}
	st.Status = model.StatusInProgress
	if enq, ok := f.enqueued[id]; ok {
		st.DelayTime = time.Since(enq).Milliseconds()
	}
	return nil
}

func (f *FakeJobQueue) MarkCompleted(ctx context.Context, id string, output []byte, executionMS int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	st, ok := f.statuses[id]
	if !ok {
		return queue.ErrJobNotFound
	}
	st.Status = model.StatusCompleted
	st.Output = append([]byte(nil), output...)
	st.ExecutionTime = executionMS
	return nil
}

func (f *FakeJobQueue) MarkFailed(ctx context.Context, id string, errInfo *handler.ErrorInfo, executionMS int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	st, ok := f.statuses[id]
	if !ok {
		return queue.ErrJobNotFound
	}
	st.Status = model.StatusFailed
	st.Error = errInfo
	st.ExecutionTime = executionMS
	return nil
}

func (f *FakeJobQueue) Status(ctx context.Context, id string) (*queue.JobStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	st, ok := f.statuses[id]
	if !ok {
		return nil, queue.ErrJobNotFound
	}
	copied := *st
	return &copied, nil
}

func (f *FakeJobQueue) Cancel(ctx context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	st, ok := f.statuses[id]
	if !ok {
		return false, queue.ErrJobNotFound
	}
	if st.Status != model.StatusInQueue {
		return false, nil
	}
	st.Status = model.StatusCancelled
	for i, job := range f.pending {
		if job.ID == id {
			f.pending = append(f.pending[:i], f.pending[i+1:]...)
			break
		}
	}
	return true, nil
}

func (f *FakeJobQueue) Purge(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	purged := int64(len(f.pending))
	for _, job := range f.pending {
		if st, ok := f.statuses[job.ID]; ok {
			st.Status = model.StatusCancelled
		}
	}
	f.pending = nil
	return purged, nil
}

func (f *FakeJobQueue) Depth(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.pending)), nil
}

func (f *FakeJobQueue) Close() error { return nil }

var _ queue.JobQueue = (*FakeJobQueue)(nil)
