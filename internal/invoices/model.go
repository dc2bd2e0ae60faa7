package invoices

import (
	"strings"

	"github.com/dentalcenter/practice-api/internal/civil"
	"github.com/dentalcenter/practice-api/internal/validation"
)

// Status is the payment state of an invoice.
type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
	StatusOverdue Status = "overdue"
)

func (s Status) valid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusOverdue:
		return true
	}
	return false
}

// LineItem is a single billed procedure. Amounts are in INR.
type LineItem struct {
	Procedure string  `json:"procedure"`
	Cost      float64 `json:"cost"`
}

// Invoice is a bill issued to a patient. Subtotal, tax and total are
// computed once when the invoice is written, so a later tax-rate change
// never rewrites existing bills.
type Invoice struct {
	ID          string     `json:"id"`
	PatientID   string     `json:"patientId"`
	PatientName string     `json:"patientName"`
	Date        civil.Date `json:"date"`
	DueDate     civil.Date `json:"dueDate"`
	Items       []LineItem `json:"items"`
	Subtotal    float64    `json:"subtotal"`
	Tax         float64    `json:"tax"`
	Total       float64    `json:"total"`
	Status      Status     `json:"status"`
}

// UpsertInvoiceRequest is the payload for creating or editing an invoice.
// Totals are never accepted from the client.
type UpsertInvoiceRequest struct {
	PatientID string     `json:"patientId"`
	Date      civil.Date `json:"date"`
	DueDate   civil.Date `json:"dueDate"`
	Items     []LineItem `json:"items"`
	Status    Status     `json:"status"`
}

func (r *UpsertInvoiceRequest) Validate() error {
	errs := validation.Errors{}
	if strings.TrimSpace(r.PatientID) == "" {
		errs.Add("patientId", "Patient is required")
	}
	if r.Date.IsZero() {
		errs.Add("date", "Date is required")
	}
	if r.DueDate.IsZero() {
		errs.Add("dueDate", "Due date is required")
	}
	if len(r.Items) == 0 {
		errs.Add("items", "At least one line item is required")
	}
	for _, item := range r.Items {
		if strings.TrimSpace(item.Procedure) == "" {
			errs.Add("items", "Each line item needs a procedure")
			break
		}
		if item.Cost < 0 {
			errs.Add("items", "Line item cost cannot be negative")
			break
		}
	}
	if r.Status != "" && !r.Status.valid() {
		errs.Add("status", "Invalid status")
	}
	return errs.AsError()
}

// ListFilter narrows List results.
type ListFilter struct {
	Search string
	Status Status
}

func (f ListFilter) matches(inv *Invoice) bool {
	if f.Status != "" && inv.Status != f.Status {
		return false
	}
	if f.Search == "" {
		return true
	}
	q := strings.ToLower(f.Search)
	if strings.Contains(strings.ToLower(inv.PatientName), q) ||
		strings.Contains(strings.ToLower(inv.ID), q) {
		return true
	}
	for _, item := range inv.Items {
		if strings.Contains(strings.ToLower(item.Procedure), q) {
			return true
		}
	}
	return false
}

// Summary aggregates invoice amounts for the billing overview cards.
type Summary struct {
	TotalBilled  float64 `json:"totalBilled"`
	TotalPaid    float64 `json:"totalPaid"`
	TotalPending float64 `json:"totalPending"`
	Count        int     `json:"count"`
}
