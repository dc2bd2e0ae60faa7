package portal

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dentalcenter/practice-api/internal/appointments"
	"github.com/dentalcenter/practice-api/internal/auth"
	"github.com/dentalcenter/practice-api/internal/civil"
	"github.com/dentalcenter/practice-api/internal/invoices"
	"github.com/dentalcenter/practice-api/internal/notify"
	"github.com/dentalcenter/practice-api/internal/patients"
	"github.com/dentalcenter/practice-api/internal/staff"
	"github.com/dentalcenter/practice-api/internal/treatments"
	"github.com/dentalcenter/practice-api/pkg/logging"
)

var testToday = civil.Date{Year: 2024, Month: 12, Day: 28}

type fixture struct {
	svc     *Service
	patient *patients.Patient
	dentist *staff.Member
	profile *auth.Profile
}

func newFixture(t *testing.T) *fixture {
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

	apptRepo := appointments.NewInMemoryRepository()
	booking := appointments.NewService(apptRepo, patientRepo, staffRepo, logging.Default()).
		WithToday(func() civil.Date { return testToday })

	svc := NewService(patientRepo, apptRepo, booking,
		treatments.NewInMemoryRepository(), invoices.NewInMemoryRepository(), logging.Default()).
		WithToday(func() civil.Date { return testToday })

	return &fixture{
		svc:     svc,
		patient: p,
		dentist: d,
		profile: &auth.Profile{
			ID:        "u-sarah",
			Email:     "sarah.johnson@email.com",
			FirstName: "Sarah",
			LastName:  "Johnson",
			Role:      auth.RolePatient,
		},
	}
}

func TestResolvePatientByEmail(t *testing.T) {
	f := newFixture(t)

	p, err := f.svc.ResolvePatient(context.Background(), f.profile)
	require.NoError(t, err)
	assert.Equal(t, f.patient.ID, p.ID)
}

func TestResolvePatientFallsBackToFullName(t *testing.T) {
	f := newFixture(t)

	// Account registered under a different address than the patient record.
	profile := *f.profile
	profile.Email = "sarah.j@personal.example.com"
	p, err := f.svc.ResolvePatient(context.Background(), &profile)
	require.NoError(t, err)
	assert.Equal(t, f.patient.ID, p.ID)
}

func TestResolvePatientNoMatch(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.ResolvePatient(context.Background(), &auth.Profile{
		Email:     "stranger@example.com",
		FirstName: "No",
		LastName:  "Body",
	})
	assert.ErrorIs(t, err, ErrNoPatientRecord)
}

func TestBookUsesSessionPatient(t *testing.T) {
	f := newFixture(t)

	a, err := f.svc.Book(context.Background(), f.profile, &appointments.BookRequest{
		PatientID: "spoofed-id",
		DentistID: f.dentist.ID,
		Date:      civil.Date{Year: 2024, Month: 12, Day: 30},
		Time:      "09:00",
		Duration:  30,
		Type:      "Checkup",
	})
	require.NoError(t, err)
	assert.Equal(t, f.patient.ID, a.PatientID, "body patient id is ignored")
	assert.Equal(t, "Sarah Johnson", a.PatientName)
}

func TestBookRejectsPastDate(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Book(context.Background(), f.profile, &appointments.BookRequest{
		DentistID: f.dentist.ID,
		Date:      civil.Date{Year: 2024, Month: 12, Day: 27},
		Time:      "09:00",
		Duration:  30,
		Type:      "Checkup",
	})
	assert.ErrorIs(t, err, appointments.ErrPastDate)
}

func TestDashboardUpcomingOrderAndFilter(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	later, err := f.svc.Book(ctx, f.profile, &appointments.BookRequest{
		DentistID: f.dentist.ID,
		Date:      civil.Date{Year: 2025, Month: 1, Day: 6},
		Time:      "10:00",
		Duration:  30,
		Type:      "Checkup",
	})
	require.NoError(t, err)
	sooner, err := f.svc.Book(ctx, f.profile, &appointments.BookRequest{
		DentistID: f.dentist.ID,
		Date:      civil.Date{Year: 2024, Month: 12, Day: 30},
		Time:      "09:00",
		Duration:  60,
		Type:      "Cleaning",
	})
	require.NoError(t, err)
	cancelled, err := f.svc.Book(ctx, f.profile, &appointments.BookRequest{
		DentistID: f.dentist.ID,
		Date:      civil.Date{Year: 2025, Month: 1, Day: 10},
		Time:      "11:00",
		Duration:  30,
		Type:      "Checkup",
	})
	require.NoError(t, err)
	_, err = f.svc.booking.SetStatus(ctx, cancelled.ID, appointments.StatusCancelled)
	require.NoError(t, err)

	dash, err := f.svc.Dashboard(ctx, f.profile)
	require.NoError(t, err)
	assert.Len(t, dash.Appointments, 3)
	require.Len(t, dash.Upcoming, 2, "cancelled visits are not upcoming")
	assert.Equal(t, sooner.ID, dash.Upcoming[0].ID)
	assert.Equal(t, later.ID, dash.Upcoming[1].ID)
	assert.Equal(t, f.patient.ID, dash.Patient.ID)
}

func TestBookSendsConfirmation(t *testing.T) {
	f := newFixture(t)
	rec := &notify.RecordingSender{}
	f.svc.WithMailer(notify.NewMailer(rec, nil))

	a, err := f.svc.Book(context.Background(), f.profile, &appointments.BookRequest{
		DentistID: f.dentist.ID,
		Date:      civil.Date{Year: 2024, Month: 12, Day: 30},
		Time:      "10:00",
		Duration:  30,
		Type:      "Cleaning",
	})
	require.NoError(t, err)

	sent := rec.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "sarah.johnson@email.com", sent[0].To)
	assert.Contains(t, sent[0].Subject, a.Date.String())
	assert.Contains(t, sent[0].Body, a.DentistName)
}

func TestBookFailureSendsNothing(t *testing.T) {
	f := newFixture(t)
	rec := &notify.RecordingSender{}
	f.svc.WithMailer(notify.NewMailer(rec, nil))

	_, err := f.svc.Book(context.Background(), f.profile, &appointments.BookRequest{
		DentistID: f.dentist.ID,
		Date:      civil.Date{Year: 2020, Month: 1, Day: 1},
		Time:      "10:00",
		Duration:  30,
		Type:      "Cleaning",
	})
	require.ErrorIs(t, err, appointments.ErrPastDate)
	assert.Empty(t, rec.Sent())
}
