package testutil

import (
	"database/sql"
	"sort"
	"sync"
	"time"

	"audio-scribe/internal/app/model"
	"audio-scribe/internal/app/repository"
)

// MockJobDAO is an in-memory job ledger for tests.
type MockJobDAO struct {
	mu   sync.Mutex
	jobs map[string]*model.Job

	// InsertErr, when set, is returned by Insert.
	InsertErr error
}

func NewMockJobDAO() *MockJobDAO {
	return &MockJobDAO{jobs: make(map[string]*model.Job)}
}

func (m *MockJobDAO) Close() error { return nil }

func (m *MockJobDAO) Insert(job *model.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.InsertErr != nil {
		return m.InsertErr
	}
	copied := *job
	m.jobs[job.ID] = &copied
	return nil
}

func (m *MockJobDAO) UpdateStatus(id, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[id]
	if !ok {
		return sql.ErrNoRows
	}
	job.Status = status
	job.UpdatedAt = time.Now()
	return nil
}

func (m *MockJobDAO) Complete(id, resultJSON, transcript string, audioSeconds float64, executionMS int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[id]
	if !ok {
		return sql.ErrNoRows
	}
	job.Status = model.StatusCompleted
	job.ResultJSON = resultJSON
	job.Transcript = transcript
	job.AudioSeconds = audioSeconds
	job.ExecutionMS = executionMS
	job.UpdatedAt = time.Now()
	return nil
}

func (m *MockJobDAO) Fail(id, errorKind, errorMessage string, executionMS int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[id]
	if !ok {
		return sql.ErrNoRows
	}
	job.Status = model.StatusFailed
	job.ErrorKind = errorKind
	job.ErrorMessage = errorMessage
	job.ExecutionMS = executionMS
	job.UpdatedAt = time.Now()
	return nil
}

func (m *MockJobDAO) GetByID(id string) (*model.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *job
	return &copied, nil
}

func (m *MockJobDAO) FindBySource(sourceName string) (*model.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var newest *model.Job
	for _, job := range m.jobs {
		if job.SourceName != sourceName {
			continue
		}
		if newest == nil || job.CreatedAt.After(newest.CreatedAt) {
			newest = job
		}
	}
	if newest == nil {
		return nil, sql.ErrNoRows
	}
	copied := *newest
	return &copied, nil
}

func (m *MockJobDAO) List(limit, offset int) ([]model.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := m.sortedLocked()
	if offset >= len(all) {
		return []model.Job{}, nil
	}
	all = all[offset:]
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (m *MockJobDAO) ListByStatus(status string, limit int) ([]model.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	matched := make([]model.Job, 0)
	for _, job := range m.sortedLocked() {
		if job.Status != status {
			continue
		}
		matched = append(matched, job)
		if limit > 0 && len(matched) >= limit {
			break
		}
	}
	return matched, nil
}

func (m *MockJobDAO) CountByStatus() (map[string]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := make(map[string]int)
	for _, job := range m.jobs {
		counts[job.Status]++
	}
	return counts, nil
}

func (m *MockJobDAO) CountByEngine() (map[string]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := make(map[string]int)
	for _, job := range m.jobs {
		counts[job.Engine]++
	}
	return counts, nil
}

func (m *MockJobDAO) PurgeOlderThan(cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var purged int64
	for id, job := range m.jobs {
		if job.Terminal() && job.UpdatedAt.Before(cutoff) {
			delete(m.jobs, id)
			purged++
		}
	}
	return purged, nil
}

// Len reports how many jobs the ledger holds.
func (m *MockJobDAO) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.jobs)
}

func (m *MockJobDAO) sortedLocked() []model.Job {
	all := make([]model.Job, 0, len(m.jobs))
	for _, job := range m.jobs {
		all = append(all, *job)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	return all
}

var _ repository.JobDAO = (*MockJobDAO)(nil)
