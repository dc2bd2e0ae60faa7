package invoices

import (
	"context"
	"math"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/dentalcenter/practice-api/internal/patients"
	"github.com/dentalcenter/practice-api/pkg/logging"
)

var invoicesTracer = otel.Tracer("dentalcenter.internal.invoices")

// Service owns invoice writes. It stamps the patient display name and the
// computed subtotal, tax and total onto each record.
type Service struct {
	repo     Repository
	patients patients.Repository
	taxRate  float64
	logger   *logging.Logger
}

// NewService constructs an invoices service. taxRate is a fraction, e.g.
// 0.10 for 10% GST.
func NewService(repo Repository, patientRepo patients.Repository, taxRate float64, logger *logging.Logger) *Service {
	if repo == nil {
		panic("invoices: repository required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		repo:     repo,
		patients: patientRepo,
		taxRate:  taxRate,
		logger:   logger,
	}
}

// round2 keeps stored amounts at paise precision.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func (s *Service) stamp(ctx context.Context, inv *Invoice) error {
	p, err := s.patients.GetByID(ctx, inv.PatientID)
	if err != nil {
		return ErrUnknownPatient
	}
	inv.PatientName = p.FullName()

	var subtotal float64
	for _, item := range inv.Items {
		subtotal += item.Cost
	}
	inv.Subtotal = round2(subtotal)
	inv.Tax = round2(subtotal * s.taxRate)
	inv.Total = round2(inv.Subtotal + inv.Tax)
	return nil
}

// Create validates and issues a new invoice. The status defaults to pending.
func (s *Service) Create(ctx context.Context, req *UpsertInvoiceRequest) (*Invoice, error) {
	ctx, span := invoicesTracer.Start(ctx, "invoices.create")
	defer span.End()

	if err := req.Validate(); err != nil {
		return nil, err
	}

	inv := &Invoice{
		PatientID: req.PatientID,
		Date:      req.Date,
		DueDate:   req.DueDate,
		Items:     append([]LineItem(nil), req.Items...),
		Status:    req.Status,
	}
	if inv.Status == "" {
		inv.Status = StatusPending
	}
	if err := s.stamp(ctx, inv); err != nil {
		return nil, err
	}

	created, err := s.repo.Insert(ctx, inv)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.String("dental.invoice_id", created.ID))
	s.logger.Info("invoice issued",
		"id", created.ID,
		"patient", created.PatientName,
		"total", created.Total,
	)
	return created, nil
}

// Update rewrites an invoice from the form, preserving its id and
// recomputing the stamped amounts from the new line items.
func (s *Service) Update(ctx context.Context, id string, req *UpsertInvoiceRequest) (*Invoice, error) {
	ctx, span := invoicesTracer.Start(ctx, "invoices.update")
	defer span.End()

	if err := req.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	inv := &Invoice{
		ID:        existing.ID,
		PatientID: req.PatientID,
		Date:      req.Date,
		DueDate:   req.DueDate,
		Items:     append([]LineItem(nil), req.Items...),
		Status:    req.Status,
	}
	if inv.Status == "" {
		inv.Status = existing.Status
	}
	if err := s.stamp(ctx, inv); err != nil {
		return nil, err
	}

	return s.repo.Replace(ctx, inv)
}

// SetStatus moves an invoice between payment states.
func (s *Service) SetStatus(ctx context.Context, id string, status Status) (*Invoice, error) {
	inv, err := s.repo.SetStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	s.logger.Info("invoice status changed", "id", id, "status", status)
	return inv, nil
}
