package staff

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a staff id has no record.
var ErrNotFound = errors.New("staff member not found")

// Repository defines the interface for staff storage.
type Repository interface {
	Create(ctx context.Context, req *UpsertMemberRequest) (*Member, error)
	GetByID(ctx context.Context, id string) (*Member, error)
	Update(ctx context.Context, id string, req *UpsertMemberRequest) (*Member, error)
	List(ctx context.Context, filter ListFilter) ([]*Member, error)
}

// InMemoryRepository implements Repository over an in-memory slice.
type InMemoryRepository struct {
	mu      sync.RWMutex
	members []*Member
}

// NewInMemoryRepository creates an empty in-memory staff repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{}
}

// Seed inserts a fully-formed staff record, preserving its id.
func (r *InMemoryRepository) Seed(m *Member) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *m
	r.members = append(r.members, &cp)
}

// Create validates and inserts a new staff member.
func (r *InMemoryRepository) Create(ctx context.Context, req *UpsertMemberRequest) (*Member, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	m := &Member{
		ID:             uuid.NewString(),
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		Phone:          req.Phone,
		Role:           req.Role,
		Specialization: req.Specialization,
		LicenseNumber:  req.LicenseNumber,
		HireDate:       req.HireDate,
		Status:         req.Status,
	}

	r.mu.Lock()
	r.members = append(r.members, m)
	r.mu.Unlock()

	cp := *m
	return &cp, nil
}

// GetByID retrieves a staff member by id.
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, m := range r.members {
		if m.ID == id {
			cp := *m
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

// Update replaces the form-editable fields, keeping the id.
func (r *InMemoryRepository) Update(ctx context.Context, id string, req *UpsertMemberRequest) (*Member, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, m := range r.members {
		if m.ID != id {
			continue
		}
		m.FirstName = req.FirstName
		m.LastName = req.LastName
		m.Email = req.Email
		m.Phone = req.Phone
		m.Role = req.Role
		m.Specialization = req.Specialization
		m.LicenseNumber = req.LicenseNumber
		m.HireDate = req.HireDate
		m.Status = req.Status

		cp := *m
		return &cp, nil
	}
	return nil, ErrNotFound
}

// List returns staff matching the filter, in insertion order.
func (r *InMemoryRepository) List(ctx context.Context, filter ListFilter) ([]*Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Member, 0, len(r.members))
	for _, m := range r.members {
		if filter.matches(m) {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}
