package patients

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/dentalcenter/practice-api/internal/civil"
)

// Repository defines the interface for patient storage.
type Repository interface {
	Create(ctx context.Context, req *UpsertPatientRequest) (*Patient, error)
	GetByID(ctx context.Context, id string) (*Patient, error)
	FindByEmail(ctx context.Context, email string) (*Patient, error)
	Update(ctx context.Context, id string, req *UpsertPatientRequest) (*Patient, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]*Patient, error)
}

// InMemoryRepository implements Repository over an in-memory slice, the only
// backing store this system uses. IDs are uuids so a delete-then-insert
// sequence can never collide.
type InMemoryRepository struct {
	mu       sync.RWMutex
	patients []*Patient
	now      func() civil.Date
}

// NewInMemoryRepository creates an empty in-memory patient repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{now: civil.Today}
}

// Seed inserts a fully-formed patient record, preserving its id and dates.
func (r *InMemoryRepository) Seed(p *Patient) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.patients = append(r.patients, &cp)
}

// Create validates and inserts a new patient.
func (r *InMemoryRepository) Create(ctx context.Context, req *UpsertPatientRequest) (*Patient, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p := &Patient{
		ID:               uuid.NewString(),
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Email:            req.Email,
		Phone:            req.Phone,
		DateOfBirth:      req.DateOfBirth,
		Address:          req.Address,
		EmergencyContact: req.EmergencyContact,
		MedicalHistory:   append([]string(nil), req.MedicalHistory...),
		Allergies:        append([]string(nil), req.Allergies...),
		CreatedAt:        r.now(),
	}

	r.mu.Lock()
	r.patients = append(r.patients, p)
	r.mu.Unlock()

	cp := *p
	return &cp, nil
}

// GetByID retrieves a patient by id.
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.patients {
		if p.ID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

// FindByEmail retrieves the first patient with an exactly matching email.
// The portal uses this to pair a signed-in user with their record.
func (r *InMemoryRepository) FindByEmail(ctx context.Context, email string) (*Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.patients {
		if p.Email == email {
			cp := *p
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

// Update replaces the form-editable fields of a patient, leaving id,
// createdAt and lastVisit untouched.
func (r *InMemoryRepository) Update(ctx context.Context, id string, req *UpsertPatientRequest) (*Patient, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.patients {
		if p.ID != id {
			continue
		}
		p.FirstName = req.FirstName
		p.LastName = req.LastName
		p.Email = req.Email
		p.Phone = req.Phone
		p.DateOfBirth = req.DateOfBirth
		p.Address = req.Address
		p.EmergencyContact = req.EmergencyContact
		p.MedicalHistory = append([]string(nil), req.MedicalHistory...)
		p.Allergies = append([]string(nil), req.Allergies...)

		cp := *p
		return &cp, nil
	}
	return nil, ErrNotFound
}

// Delete removes a patient by id.
func (r *InMemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, p := range r.patients {
		if p.ID == id {
			r.patients = append(r.patients[:i], r.patients[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// List returns patients matching the filter, in insertion order.
func (r *InMemoryRepository) List(ctx context.Context, filter ListFilter) ([]*Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Patient, 0, len(r.patients))
	for _, p := range r.patients {
		if filter.matches(p) {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}
