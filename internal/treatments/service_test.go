package treatments

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dentalcenter/practice-api/internal/civil"
	"github.com/dentalcenter/practice-api/internal/patients"
	"github.com/dentalcenter/practice-api/internal/staff"
	"github.com/dentalcenter/practice-api/pkg/logging"
)

func newTestService(t *testing.T) (*Service, *InMemoryRepository, *patients.Patient, *staff.Member) {
	t.Helper()
	ctx := context.Background()

	patientRepo := patients.NewInMemoryRepository()
	p, err := patientRepo.Create(ctx, &patients.UpsertPatientRequest{
		FirstName:   "Sarah",
		LastName:    "Johnson",
		Email:       "sarah.johnson@email.com",
		Phone:       "(555) 123-4567",
		DateOfBirth: civil.Date{Year: 1985, Month: 3, Day: 15},
	})
	require.NoError(t, err)

	staffRepo := staff.NewInMemoryRepository()
	d, err := staffRepo.Create(ctx, &staff.UpsertMemberRequest{
		FirstName:      "Michael",
		LastName:       "Thompson",
		Email:          "m.thompson@dentalcenter.com",
		Phone:          "(555) 111-2222",
		Role:           staff.RoleDentist,
		Specialization: "General Dentistry",
		LicenseNumber:  "DDS-12345",
		HireDate:       civil.Date{Year: 2020, Month: 1, Day: 15},
		Status:         staff.StatusActive,
	})
	require.NoError(t, err)

	repo := NewInMemoryRepository()
	svc := NewService(repo, patientRepo, staffRepo, logging.Default())
	return svc, repo, p, d
}

func treatmentRequest(p *patients.Patient, d *staff.Member) *UpsertTreatmentRequest {
	return &UpsertTreatmentRequest{
		PatientID:   p.ID,
		DentistID:   d.ID,
		Date:        civil.Date{Year: 2024, Month: 12, Day: 20},
		Procedure:   "Dental Cleaning",
		Description: "Routine scale and polish",
		Cost:        5000,
		Notes:       "No issues found",
	}
}

func TestCreateStampsNamesAndDefaultsStatus(t *testing.T) {
	svc, _, p, d := newTestService(t)

	tr, err := svc.Create(context.Background(), treatmentRequest(p, d))
	require.NoError(t, err)
	assert.NotEmpty(t, tr.ID)
	assert.Equal(t, StatusPlanned, tr.Status)
	assert.Equal(t, "Sarah Johnson", tr.PatientName)
	assert.Equal(t, "Michael Thompson", tr.DentistName)
	assert.Equal(t, 5000.0, tr.Cost)
}

func TestCreateValidation(t *testing.T) {
	svc, _, p, d := newTestService(t)

	req := treatmentRequest(p, d)
	req.Procedure = ""
	req.Cost = -100
	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Procedure is required")
	assert.Contains(t, err.Error(), "Cost cannot be negative")
}

func TestCreateUnknownRefs(t *testing.T) {
	svc, _, p, d := newTestService(t)
	ctx := context.Background()

	req := treatmentRequest(p, d)
	req.PatientID = "ghost"
	_, err := svc.Create(ctx, req)
	assert.ErrorIs(t, err, ErrUnknownPatient)

	req = treatmentRequest(p, d)
	req.DentistID = "ghost"
	_, err = svc.Create(ctx, req)
	assert.ErrorIs(t, err, ErrUnknownDentist)
}

func TestUpdatePreservesIDAndRestamps(t *testing.T) {
	svc, _, p, d := newTestService(t)
	ctx := context.Background()

	tr, err := svc.Create(ctx, treatmentRequest(p, d))
	require.NoError(t, err)

	req := treatmentRequest(p, d)
	req.Cost = 7500
	req.Status = StatusInProgress
	followUp := civil.Date{Year: 2025, Month: 1, Day: 15}
	req.FollowUpRequired = true
	req.FollowUpDate = &followUp
	updated, err := svc.Update(ctx, tr.ID, req)
	require.NoError(t, err)
	assert.Equal(t, tr.ID, updated.ID)
	assert.Equal(t, 7500.0, updated.Cost)
	assert.Equal(t, StatusInProgress, updated.Status)
	assert.True(t, updated.FollowUpRequired)
	require.NotNil(t, updated.FollowUpDate)
	assert.Equal(t, followUp, *updated.FollowUpDate)
	assert.Equal(t, "Sarah Johnson", updated.PatientName)
}

func TestSetStatusAllowsAnyValidTransition(t *testing.T) {
	svc, _, p, d := newTestService(t)
	ctx := context.Background()

	tr, err := svc.Create(ctx, treatmentRequest(p, d))
	require.NoError(t, err)

	// Straight to completed and back again; no transition graph is enforced.
	_, err = svc.SetStatus(ctx, tr.ID, StatusCompleted)
	require.NoError(t, err)
	after, err := svc.SetStatus(ctx, tr.ID, StatusPlanned)
	require.NoError(t, err)
	assert.Equal(t, StatusPlanned, after.Status)

	_, err = svc.SetStatus(ctx, tr.ID, Status("bogus"))
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestListFilters(t *testing.T) {
	svc, repo, p, d := newTestService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, treatmentRequest(p, d))
	require.NoError(t, err)

	second := treatmentRequest(p, d)
	second.Date = civil.Date{Year: 2025, Month: 1, Day: 6}
	second.Procedure = "Root Canal"
	second.Status = StatusCompleted
	_, err = svc.Create(ctx, second)
	require.NoError(t, err)

	byDate, err := repo.ListByDate(ctx, first.Date)
	require.NoError(t, err)
	require.Len(t, byDate, 1)
	assert.Equal(t, first.ID, byDate[0].ID)

	byStatus, err := repo.List(ctx, ListFilter{Status: StatusCompleted})
	require.NoError(t, err)
	require.Len(t, byStatus, 1)
	assert.Equal(t, "Root Canal", byStatus[0].Procedure)

	bySearch, err := repo.List(ctx, ListFilter{Search: "root"})
	require.NoError(t, err)
	require.Len(t, bySearch, 1)

	forPatient, err := repo.ListForPatient(ctx, p.ID, "")
	require.NoError(t, err)
	assert.Len(t, forPatient, 2)
}
