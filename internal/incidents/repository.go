package incidents

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Repository defines the persistence operations for incidents.
type Repository interface {
	Insert(ctx context.Context, in *Incident) (*Incident, error)
	GetByID(ctx context.Context, id string) (*Incident, error)
	Replace(ctx context.Context, in *Incident) (*Incident, error)
	List(ctx context.Context, filter ListFilter) ([]*Incident, error)
	ListForPatient(ctx context.Context, patientID, patientName string) ([]*Incident, error)
}

// InMemoryRepository keeps incidents in an insertion-ordered slice.
type InMemoryRepository struct {
	mu        sync.RWMutex
	incidents []*Incident
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{}
}

// Seed loads fixture records, assigning ids to any that lack one.
func (r *InMemoryRepository) Seed(records []*Incident) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, in := range records {
		if in.ID == "" {
			in.ID = uuid.New().String()
		}
		r.incidents = append(r.incidents, copyIncident(in))
	}
}

func copyIncident(in *Incident) *Incident {
	cp := *in
	cp.Files = make([]IncidentFile, len(in.Files))
	copy(cp.Files, in.Files)
	return &cp
}

func (r *InMemoryRepository) Insert(ctx context.Context, in *Incident) (*Incident, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if in.ID == "" {
		in.ID = uuid.New().String()
	}
	if in.Files == nil {
		in.Files = []IncidentFile{}
	}
	r.incidents = append(r.incidents, copyIncident(in))
	return copyIncident(in), nil
}

func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Incident, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, in := range r.incidents {
		if in.ID == id {
			return copyIncident(in), nil
		}
	}
	return nil, ErrNotFound
}

func (r *InMemoryRepository) Replace(ctx context.Context, in *Incident) (*Incident, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.incidents {
		if existing.ID == in.ID {
			r.incidents[i] = copyIncident(in)
			return copyIncident(in), nil
		}
	}
	return nil, ErrNotFound
}

func (r *InMemoryRepository) List(ctx context.Context, filter ListFilter) ([]*Incident, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Incident, 0, len(r.incidents))
	for _, in := range r.incidents {
		if filter.matches(in) {
			out = append(out, copyIncident(in))
		}
	}
	return out, nil
}

func (r *InMemoryRepository) ListForPatient(ctx context.Context, patientID, patientName string) ([]*Incident, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*Incident
	for _, in := range r.incidents {
		if in.PatientID == patientID || (patientName != "" && in.PatientName == patientName) {
			out = append(out, copyIncident(in))
		}
	}
	return out, nil
}
