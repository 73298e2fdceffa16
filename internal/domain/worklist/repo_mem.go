package worklist

import (
	"context"
	"sync"
)

// MemRepo is the default in-memory catalog: an ordered slice guarded by a
// mutex. Clones cross the boundary in both directions so no caller ever
// holds a reference into the catalog.
type MemRepo struct {
	mu      sync.RWMutex
	studies []*Study
}

// NewMemRepo returns an empty in-memory repository.
func NewMemRepo() *MemRepo {
	return &MemRepo{}
}

func (r *MemRepo) List(_ context.Context) ([]*Study, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Study, len(r.studies))
	for i, s := range r.studies {
		out[i] = s.Clone()
	}
	return out, nil
}

func (r *MemRepo) Get(_ context.Context, id string) (*Study, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.studies {
		if s.ID == id {
			return s.Clone(), nil
		}
	}
	return nil, ErrStudyNotFound
}

func (r *MemRepo) Insert(_ context.Context, s *Study) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.studies = append([]*Study{s.Clone()}, r.studies...)
	return nil
}

func (r *MemRepo) Update(_ context.Context, s *Study) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, existing := range r.studies {
		if existing.ID == s.ID {
			r.studies[i] = s.Clone()
			return nil
		}
	}
	return ErrStudyNotFound
}

func (r *MemRepo) Replace(_ context.Context, studies []*Study) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.studies = make([]*Study, len(studies))
	for i, s := range studies {
		r.studies[i] = s.Clone()
	}
	return nil
}

func (r *MemRepo) FindPrior(_ context.Context, patientID, excludeID string) (*Study, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.studies {
		if s.PatientID == patientID && s.ID != excludeID {
			return s.Clone(), nil
		}
	}
	return nil, ErrStudyNotFound
}
