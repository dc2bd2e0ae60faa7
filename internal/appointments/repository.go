package appointments

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/dentalcenter/practice-api/internal/civil"
)

// Repository defines the interface for appointment storage.
type Repository interface {
	Insert(ctx context.Context, a *Appointment) (*Appointment, error)
	GetByID(ctx context.Context, id string) (*Appointment, error)
	Replace(ctx context.Context, a *Appointment) (*Appointment, error)
	SetStatus(ctx context.Context, id string, status Status) (*Appointment, error)
	List(ctx context.Context, filter ListFilter) ([]*Appointment, error)
	ListByDate(ctx context.Context, day civil.Date) ([]*Appointment, error)
	ListForPatient(ctx context.Context, patientID, patientName string) ([]*Appointment, error)
	HasActiveForPatient(ctx context.Context, patientID string) (bool, error)
}

// InMemoryRepository implements Repository over an in-memory slice.
type InMemoryRepository struct {
	mu           sync.RWMutex
	appointments []*Appointment
}

// NewInMemoryRepository creates an empty in-memory appointment repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{}
}

// Seed inserts a fully-formed appointment, preserving its id.
func (r *InMemoryRepository) Seed(a *Appointment) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *a
	r.appointments = append(r.appointments, &cp)
}

// Insert stores a new appointment, assigning its id.
func (r *InMemoryRepository) Insert(ctx context.Context, a *Appointment) (*Appointment, error) {
	cp := *a
	cp.ID = uuid.NewString()

	r.mu.Lock()
	r.appointments = append(r.appointments, &cp)
	r.mu.Unlock()

	out := cp
	return &out, nil
}

// GetByID retrieves an appointment by id.
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.appointments {
		if a.ID == id {
			cp := *a
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

// Replace swaps the stored appointment with the same id.
func (r *InMemoryRepository) Replace(ctx context.Context, a *Appointment) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, existing := range r.appointments {
		if existing.ID == a.ID {
			cp := *a
			r.appointments[i] = &cp
			out := cp
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

// SetStatus updates only the status field. No transition legality is
// enforced.
func (r *InMemoryRepository) SetStatus(ctx context.Context, id string, status Status) (*Appointment, error) {
	if !status.valid() {
		return nil, ErrInvalidStatus
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range r.appointments {
		if a.ID == id {
			a.Status = status
			cp := *a
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

// List returns appointments matching the filter, in insertion order.
func (r *InMemoryRepository) List(ctx context.Context, filter ListFilter) ([]*Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Appointment, 0, len(r.appointments))
	for _, a := range r.appointments {
		if filter.matches(a) {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

// ListByDate returns the appointments on a calendar day.
func (r *InMemoryRepository) ListByDate(ctx context.Context, day civil.Date) ([]*Appointment, error) {
	return r.List(ctx, ListFilter{Date: &day})
}

// ListForPatient returns appointments referencing the patient, matching by
// id or by stamped display name. The name fallback keeps pre-registration
// portal accounts working.
func (r *InMemoryRepository) ListForPatient(ctx context.Context, patientID, patientName string) ([]*Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Appointment, 0)
	for _, a := range r.appointments {
		if (patientID != "" && a.PatientID == patientID) || (patientName != "" && a.PatientName == patientName) {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

// HasActiveForPatient reports whether any scheduled or confirmed appointment
// references the patient.
func (r *InMemoryRepository) HasActiveForPatient(ctx context.Context, patientID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.appointments {
		if a.PatientID == patientID && a.Status.Active() {
			return true, nil
		}
	}
	return false, nil
}
