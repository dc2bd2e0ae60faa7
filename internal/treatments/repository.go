package treatments

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/dentalcenter/practice-api/internal/civil"
)

// Repository defines the persistence operations for treatments.
type Repository interface {
	Insert(ctx context.Context, t *Treatment) (*Treatment, error)
	GetByID(ctx context.Context, id string) (*Treatment, error)
	Replace(ctx context.Context, t *Treatment) (*Treatment, error)
	SetStatus(ctx context.Context, id string, status Status) (*Treatment, error)
	List(ctx context.Context, filter ListFilter) ([]*Treatment, error)
	ListByDate(ctx context.Context, date civil.Date) ([]*Treatment, error)
	ListForPatient(ctx context.Context, patientID, patientName string) ([]*Treatment, error)
}

// InMemoryRepository keeps treatments in an insertion-ordered slice.
type InMemoryRepository struct {
	mu         sync.RWMutex
	treatments []*Treatment
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{}
}

// Seed loads fixture records, assigning ids to any that lack one.
func (r *InMemoryRepository) Seed(records []*Treatment) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range records {
		if t.ID == "" {
			t.ID = uuid.New().String()
		}
		cp := *t
		r.treatments = append(r.treatments, &cp)
	}
}

func (r *InMemoryRepository) Insert(ctx context.Context, t *Treatment) (*Treatment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	cp := *t
	r.treatments = append(r.treatments, &cp)
	out := cp
	return &out, nil
}

func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Treatment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, t := range r.treatments {
		if t.ID == id {
			cp := *t
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *InMemoryRepository) Replace(ctx context.Context, t *Treatment) (*Treatment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.treatments {
		if existing.ID == t.ID {
			cp := *t
			r.treatments[i] = &cp
			out := cp
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (r *InMemoryRepository) SetStatus(ctx context.Context, id string, status Status) (*Treatment, error) {
	if !status.valid() {
		return nil, ErrInvalidStatus
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.treatments {
		if t.ID == id {
			t.Status = status
			cp := *t
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *InMemoryRepository) List(ctx context.Context, filter ListFilter) ([]*Treatment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Treatment, 0, len(r.treatments))
	for _, t := range r.treatments {
		if filter.matches(t) {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *InMemoryRepository) ListByDate(ctx context.Context, date civil.Date) ([]*Treatment, error) {
	return r.List(ctx, ListFilter{Date: &date})
}

// ListForPatient matches by patient id first and falls back to the stamped
// display name, so older records stamped before a rename still show up.
func (r *InMemoryRepository) ListForPatient(ctx context.Context, patientID, patientName string) ([]*Treatment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*Treatment
	for _, t := range r.treatments {
		if t.PatientID == patientID || (patientName != "" && t.PatientName == patientName) {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}
