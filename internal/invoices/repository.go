package invoices

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/dentalcenter/practice-api/internal/civil"
)

// Repository defines the persistence operations for invoices.
type Repository interface {
	Insert(ctx context.Context, inv *Invoice) (*Invoice, error)
	GetByID(ctx context.Context, id string) (*Invoice, error)
	Replace(ctx context.Context, inv *Invoice) (*Invoice, error)
	SetStatus(ctx context.Context, id string, status Status) (*Invoice, error)
	List(ctx context.Context, filter ListFilter) ([]*Invoice, error)
	ListForPatient(ctx context.Context, patientID, patientName string) ([]*Invoice, error)
	Summarize(ctx context.Context) (*Summary, error)
	PaidTotalBetween(ctx context.Context, from, to civil.Date) (float64, error)
}

// InMemoryRepository keeps invoices in an insertion-ordered slice.
type InMemoryRepository struct {
	mu       sync.RWMutex
	invoices []*Invoice
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{}
}

// Seed loads fixture records, assigning ids to any that lack one.
func (r *InMemoryRepository) Seed(records []*Invoice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, inv := range records {
		if inv.ID == "" {
			inv.ID = uuid.New().String()
		}
		r.invoices = append(r.invoices, copyInvoice(inv))
	}
}

func copyInvoice(inv *Invoice) *Invoice {
	cp := *inv
	cp.Items = append([]LineItem(nil), inv.Items...)
	return &cp
}

func (r *InMemoryRepository) Insert(ctx context.Context, inv *Invoice) (*Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if inv.ID == "" {
		inv.ID = uuid.New().String()
	}
	r.invoices = append(r.invoices, copyInvoice(inv))
	return copyInvoice(inv), nil
}

func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Invoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, inv := range r.invoices {
		if inv.ID == id {
			return copyInvoice(inv), nil
		}
	}
	return nil, ErrNotFound
}

func (r *InMemoryRepository) Replace(ctx context.Context, inv *Invoice) (*Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.invoices {
		if existing.ID == inv.ID {
			r.invoices[i] = copyInvoice(inv)
			return copyInvoice(inv), nil
		}
	}
	return nil, ErrNotFound
}

func (r *InMemoryRepository) SetStatus(ctx context.Context, id string, status Status) (*Invoice, error) {
	if !status.valid() {
		return nil, ErrInvalidStatus
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, inv := range r.invoices {
		if inv.ID == id {
			inv.Status = status
			return copyInvoice(inv), nil
		}
	}
	return nil, ErrNotFound
}

func (r *InMemoryRepository) List(ctx context.Context, filter ListFilter) ([]*Invoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Invoice, 0, len(r.invoices))
	for _, inv := range r.invoices {
		if filter.matches(inv) {
			out = append(out, copyInvoice(inv))
		}
	}
	return out, nil
}

func (r *InMemoryRepository) ListForPatient(ctx context.Context, patientID, patientName string) ([]*Invoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*Invoice
	for _, inv := range r.invoices {
		if inv.PatientID == patientID || (patientName != "" && inv.PatientName == patientName) {
			out = append(out, copyInvoice(inv))
		}
	}
	return out, nil
}

// Summarize totals every invoice by payment state. Overdue amounts count as
// pending since the money is still owed.
func (r *InMemoryRepository) Summarize(ctx context.Context) (*Summary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s := &Summary{Count: len(r.invoices)}
	for _, inv := range r.invoices {
		s.TotalBilled += inv.Total
		if inv.Status == StatusPaid {
			s.TotalPaid += inv.Total
		} else {
			s.TotalPending += inv.Total
		}
	}
	return s, nil
}

// PaidTotalBetween sums paid invoice totals with dates in [from, to].
func (r *InMemoryRepository) PaidTotalBetween(ctx context.Context, from, to civil.Date) (float64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var total float64
	for _, inv := range r.invoices {
		if inv.Status != StatusPaid {
			continue
		}
		if inv.Date.Before(from) || inv.Date.After(to) {
			continue
		}
		total += inv.Total
	}
	return total, nil
}
