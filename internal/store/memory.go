package store

import (
	"context"
	"sync"
)

// Memory keeps job records in a process-local map. Used when no Redis URL is
// configured; records vanish with the process, which matches the single-run
// scope of a split job.
type Memory struct {
	mu   sync.RWMutex
	jobs map[string]Job
}

func NewMemory() *Memory {
	return &Memory{jobs: make(map[string]Job)}
}

func (m *Memory) Put(ctx context.Context, job Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs[job.ID] = job
	return nil
}

func (m *Memory) Get(ctx context.Context, jobID string) (Job, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	job, ok := m.jobs[jobID]
	return job, ok, nil
}

func (m *Memory) Close() error { return nil }
