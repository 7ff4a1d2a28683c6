package worker

import (
	"context"
	"sync"
	"time"

	"commander-deck-service/internal/domain"
	"commander-deck-service/internal/domain/model"
)

// memJobStore is an in-memory job store for worker tests. TTLs of zero or
// less expire keys immediately, like the real store.
type memJobStore struct {
	mu       sync.Mutex
	jobs     map[string]*model.DeckJob
	status   map[string]model.JobStatus
	results  map[string][]byte
	progress map[string][]string

	// one-shot errors consumed by the next matching call, simulating
	// transient store failures
	listErr   error
	statusErr error
	jobErr    error
}

func newMemJobStore() *memJobStore {
	return &memJobStore{
		jobs:     make(map[string]*model.DeckJob),
		status:   make(map[string]model.JobStatus),
		results:  make(map[string][]byte),
		progress: make(map[string][]string),
	}
}

func (m *memJobStore) PutJob(ctx context.Context, job *model.DeckJob, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ttl <= 0 {
		return nil
	}
	cp := *job
	m.jobs[job.ID] = &cp
	m.status[job.ID] = job.Status
	return nil
}

func (m *memJobStore) GetJob(ctx context.Context, jobID string) (*model.DeckJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.jobErr != nil {
		err := m.jobErr
		m.jobErr = nil
		return nil, err
	}
	j, ok := m.jobs[jobID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *j
	return &cp, nil
}

func (m *memJobStore) ListJobIDs(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		err := m.listErr
		m.listErr = nil
		return nil, err
	}
	ids := make([]string, 0, len(m.jobs))
	for id := range m.jobs {
		ids = append(ids, id)
	}
	return ids, nil
}

func (m *memJobStore) GetStatus(ctx context.Context, jobID string) (model.JobStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.statusErr != nil {
		err := m.statusErr
		m.statusErr = nil
		return "", err
	}
	st, ok := m.status[jobID]
	if !ok {
		return "", domain.ErrNotFound
	}
	return st, nil
}

func (m *memJobStore) SetStatus(ctx context.Context, jobID string, status model.JobStatus, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ttl <= 0 {
		delete(m.status, jobID)
		return nil
	}
	m.status[jobID] = status
	return nil
}

func (m *memJobStore) ClaimJob(ctx context.Context, jobID string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.status[jobID] != model.JobStatusPending {
		return false, nil
	}
	m.status[jobID] = model.JobStatusProcessing
	return true, nil
}

func (m *memJobStore) AppendProgress(ctx context.Context, jobID, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.progress[jobID] = append(m.progress[jobID], message)
	return nil
}

func (m *memJobStore) PopProgress(ctx context.Context, jobID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q := m.progress[jobID]
	if len(q) == 0 {
		return "", domain.ErrNotFound
	}
	msg := q[0]
	m.progress[jobID] = q[1:]
	return msg, nil
}

func (m *memJobStore) PutResult(ctx context.Context, jobID string, payload []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ttl <= 0 {
		return nil
	}
	m.results[jobID] = append([]byte(nil), payload...)
	return nil
}

func (m *memJobStore) GetResult(ctx context.Context, jobID string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.results[jobID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return append([]byte(nil), r...), nil
}

func (m *memJobStore) DeleteJob(ctx context.Context, jobID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.jobs, jobID)
	delete(m.status, jobID)
	delete(m.results, jobID)
	delete(m.progress, jobID)
	return nil
}

func (m *memJobStore) DeleteDescriptor(ctx context.Context, jobID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.jobs, jobID)
	return nil
}

// memCatalog serves canned cards for enrichment tests.
type memCatalog struct {
	cards map[string]*model.Card
}

func (m *memCatalog) FindByIDs(ctx context.Context, ids []string) (map[string]*model.Card, error) {
	out := make(map[string]*model.Card, len(ids))
	for _, id := range ids {
		if c, ok := m.cards[id]; ok {
			cp := *c
			out[id] = &cp
		}
	}
	return out, nil
}
