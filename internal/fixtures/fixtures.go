// Package fixtures holds the demo data the API boots with. Every run starts
// from the same records; schedule-dependent dates are derived from today so
// the calendar always has something to show.
package fixtures

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dentalcenter/practice-api/internal/appointments"
	"github.com/dentalcenter/practice-api/internal/auth"
	"github.com/dentalcenter/practice-api/internal/civil"
	"github.com/dentalcenter/practice-api/internal/incidents"
	"github.com/dentalcenter/practice-api/internal/invoices"
	"github.com/dentalcenter/practice-api/internal/patients"
	"github.com/dentalcenter/practice-api/internal/staff"
	"github.com/dentalcenter/practice-api/internal/treatments"
)

// Data is a fully cross-referenced demo dataset.
type Data struct {
	Users        []*auth.Credential
	Patients     []*patients.Patient
	Staff        []*staff.Member
	Appointments []*appointments.Appointment
	Treatments   []*treatments.Treatment
	Invoices     []*invoices.Invoice
	Incidents    []*incidents.Incident
}

// schedule derives the demo dates from a reference day: today, tomorrow,
// the day after, next week, in ten days, in two weeks, and next month.
type schedule struct {
	today     civil.Date
	tomorrow  civil.Date
	dayAfter  civil.Date
	nextWeek  civil.Date
	tenDays   civil.Date
	twoWeeks  civil.Date
	nextMonth civil.Date
}

func newSchedule(today civil.Date) schedule {
	return schedule{
		today:     today,
		tomorrow:  today.AddDays(1),
		dayAfter:  today.AddDays(2),
		nextWeek:  today.AddDays(7),
		tenDays:   today.AddDays(10),
		twoWeeks:  today.AddDays(14),
		nextMonth: today.AddMonths(1),
	}
}

// Demo builds the demo dataset relative to today.
func Demo(today civil.Date) *Data {
	s := newSchedule(today)
	now := time.Date(today.Year, today.Month, today.Day, 8, 0, 0, 0, time.UTC)

	sarah := &patients.Patient{
		ID:          uuid.New().String(),
		FirstName:   "Sarah",
		LastName:    "Johnson",
		Email:       "sarah.johnson@email.com",
		Phone:       "(555) 123-4567",
		DateOfBirth: civil.Date{Year: 1985, Month: 3, Day: 15},
		Address:     "123 Oak Street, Springfield, IL 62701",
		EmergencyContact: patients.EmergencyContact{
			Name:         "Mike Johnson",
			Phone:        "(555) 123-4568",
			Relationship: "Spouse",
		},
		MedicalHistory: []string{"Hypertension", "Previous root canal"},
		Allergies:      []string{"Penicillin"},
		CreatedAt:      civil.Date{Year: 2024, Month: 1, Day: 15},
		LastVisit:      datePtr(civil.Date{Year: 2024, Month: 12, Day: 15}),
	}
	david := &patients.Patient{
		ID:          uuid.New().String(),
		FirstName:   "David",
		LastName:    "Miller",
		Email:       "david.miller@email.com",
		Phone:       "(555) 234-5678",
		DateOfBirth: civil.Date{Year: 1978, Month: 7, Day: 22},
		Address:     "456 Pine Avenue, Springfield, IL 62702",
		EmergencyContact: patients.EmergencyContact{
			Name:         "Lisa Miller",
			Phone:        "(555) 234-5679",
			Relationship: "Wife",
		},
		MedicalHistory: []string{"Diabetes Type 2"},
		Allergies:      []string{},
		CreatedAt:      civil.Date{Year: 2024, Month: 2, Day: 10},
		LastVisit:      datePtr(civil.Date{Year: 2024, Month: 12, Day: 10}),
	}
	emily := &patients.Patient{
		ID:          uuid.New().String(),
		FirstName:   "Emily",
		LastName:    "Davis",
		Email:       "emily.davis@email.com",
		Phone:       "(555) 345-6789",
		DateOfBirth: civil.Date{Year: 1992, Month: 11, Day: 8},
		Address:     "789 Maple Drive, Springfield, IL 62703",
		EmergencyContact: patients.EmergencyContact{
			Name:         "Robert Davis",
			Phone:        "(555) 345-6790",
			Relationship: "Father",
		},
		MedicalHistory: []string{},
		Allergies:      []string{"Latex"},
		CreatedAt:      civil.Date{Year: 2024, Month: 3, Day: 5},
		LastVisit:      datePtr(civil.Date{Year: 2024, Month: 12, Day: 20}),
	}
	michael := &patients.Patient{
		ID:          uuid.New().String(),
		FirstName:   "Michael",
		LastName:    "Brown",
		Email:       "michael.brown@email.com",
		Phone:       "(555) 456-7890",
		DateOfBirth: civil.Date{Year: 1980, Month: 5, Day: 12},
		Address:     "321 Elm Street, Springfield, IL 62704",
		EmergencyContact: patients.EmergencyContact{
			Name:         "Jennifer Brown",
			Phone:        "(555) 456-7891",
			Relationship: "Wife",
		},
		MedicalHistory: []string{"High Blood Pressure"},
		Allergies:      []string{},
		CreatedAt:      civil.Date{Year: 2024, Month: 4, Day: 1},
		LastVisit:      datePtr(civil.Date{Year: 2024, Month: 12, Day: 18}),
	}
	jessica := &patients.Patient{
		ID:          uuid.New().String(),
		FirstName:   "Jessica",
		LastName:    "Wilson",
		Email:       "jessica.wilson@email.com",
		Phone:       "(555) 567-8901",
		DateOfBirth: civil.Date{Year: 1995, Month: 9, Day: 25},
		Address:     "654 Cedar Avenue, Springfield, IL 62705",
		EmergencyContact: patients.EmergencyContact{
			Name:         "Mark Wilson",
			Phone:        "(555) 567-8902",
			Relationship: "Husband",
		},
		MedicalHistory: []string{},
		Allergies:      []string{"Ibuprofen"},
		CreatedAt:      civil.Date{Year: 2024, Month: 5, Day: 15},
		LastVisit:      datePtr(civil.Date{Year: 2024, Month: 12, Day: 22}),
	}

	// The honorific lives in the first name so stamped display names read
	// "Dr. Michael Thompson", like the front desk expects.
	thompson := &staff.Member{
		ID:             uuid.New().String(),
		FirstName:      "Dr. Michael",
		LastName:       "Thompson",
		Email:          "mthompson@dentalcenter.com",
		Phone:          "(555) 111-2222",
		Role:           staff.RoleDentist,
		Specialization: "General Dentistry",
		LicenseNumber:  "DDS-12345",
		HireDate:       civil.Date{Year: 2020, Month: 1, Day: 15},
		Status:         staff.StatusActive,
	}
	wilson := &staff.Member{
		ID:             uuid.New().String(),
		FirstName:      "Dr. Jennifer",
		LastName:       "Wilson",
		Email:          "jwilson@dentalcenter.com",
		Phone:          "(555) 222-3333",
		Role:           staff.RoleDentist,
		Specialization: "Orthodontics",
		LicenseNumber:  "DDS-23456",
		HireDate:       civil.Date{Year: 2021, Month: 3, Day: 20},
		Status:         staff.StatusActive,
	}
	garcia := &staff.Member{
		ID:            uuid.New().String(),
		FirstName:     "Maria",
		LastName:      "Garcia",
		Email:         "mgarcia@dentalcenter.com",
		Phone:         "(555) 333-4444",
		Role:          staff.RoleHygienist,
		LicenseNumber: "RDH-34567",
		HireDate:      civil.Date{Year: 2022, Month: 6, Day: 10},
		Status:        staff.StatusActive,
	}

	users := []*auth.Credential{
		{
			Profile: auth.Profile{
				ID:        uuid.New().String(),
				Email:     "admin@dentalcenter.com",
				FirstName: "Dr. Admin",
				LastName:  "User",
				Role:      auth.RoleAdmin,
			},
			Password: "admin123",
		},
		{
			Profile: auth.Profile{
				ID:        uuid.New().String(),
				Email:     "patient@example.com",
				FirstName: "John",
				LastName:  "Patient",
				Role:      auth.RolePatient,
			},
			Password: "patient123",
		},
		{
			Profile: auth.Profile{
				ID:        uuid.New().String(),
				Email:     "sarah.johnson@email.com",
				FirstName: "Sarah",
				LastName:  "Johnson",
				Role:      auth.RolePatient,
			},
			Password: "sarah123",
		},
	}

	appts := []*appointments.Appointment{
		appt(sarah, thompson, s.today, "09:00", 60, "Cleaning", appointments.StatusScheduled, "Regular 6-month cleaning and checkup"),
		appt(david, thompson, s.today, "10:30", 90, "Root Canal", appointments.StatusConfirmed, "Follow-up root canal treatment on tooth #14"),
		appt(emily, wilson, s.tomorrow, "14:00", 45, "Consultation", appointments.StatusScheduled, "Orthodontic consultation for braces"),
		appt(michael, thompson, s.dayAfter, "11:00", 75, "Filling", appointments.StatusConfirmed, "Composite filling for cavity on tooth #12"),
		appt(jessica, wilson, s.nextWeek, "15:30", 120, "Crown", appointments.StatusScheduled, "Crown placement for tooth #8"),
		appt(sarah, thompson, s.tenDays, "08:30", 30, "Follow-up", appointments.StatusScheduled, "Post-cleaning follow-up"),
		appt(emily, wilson, s.twoWeeks, "13:00", 60, "Orthodontic", appointments.StatusScheduled, "Braces adjustment appointment"),
		appt(david, thompson, s.nextMonth, "16:00", 45, "Consultation", appointments.StatusScheduled, "Consultation for dental implant"),
		appt(michael, thompson, s.tomorrow, "12:00", 90, "Extraction", appointments.StatusConfirmed, "Wisdom tooth extraction"),
		appt(jessica, wilson, s.dayAfter, "09:30", 60, "Cleaning", appointments.StatusScheduled, "Routine dental cleaning"),
	}

	treats := []*treatments.Treatment{
		{
			ID:        uuid.New().String(),
			PatientID: sarah.ID, PatientName: sarah.FullName(),
			DentistID: thompson.ID, DentistName: thompson.FullName(),
			Date: s.today, Procedure: "Dental Cleaning",
			Description: "Routine prophylaxis and oral examination",
			Cost:        9960, Status: treatments.StatusCompleted,
			Notes:            "Good oral hygiene. Recommended fluoride treatment.",
			FollowUpRequired: true, FollowUpDate: datePtr(s.tenDays),
		},
		{
			ID:        uuid.New().String(),
			PatientID: david.ID, PatientName: david.FullName(),
			DentistID: thompson.ID, DentistName: thompson.FullName(),
			Date: s.tomorrow, Procedure: "Root Canal Therapy",
			Description: "Endodontic treatment on tooth #14",
			Cost:        70550, Status: treatments.StatusInProgress,
			Notes:            "First session completed. Crown placement scheduled.",
			FollowUpRequired: true, FollowUpDate: datePtr(s.twoWeeks),
		},
		{
			ID:        uuid.New().String(),
			PatientID: emily.ID, PatientName: emily.FullName(),
			DentistID: wilson.ID, DentistName: wilson.FullName(),
			Date: s.dayAfter, Procedure: "Orthodontic Consultation",
			Description: "Initial consultation for braces treatment",
			Cost:        12450, Status: treatments.StatusPlanned,
			Notes:            "Patient interested in clear aligners. X-rays needed.",
			FollowUpRequired: true, FollowUpDate: datePtr(s.nextMonth),
		},
		{
			ID:        uuid.New().String(),
			PatientID: michael.ID, PatientName: michael.FullName(),
			DentistID: thompson.ID, DentistName: thompson.FullName(),
			Date: s.nextWeek, Procedure: "Composite Filling",
			Description: "Tooth-colored filling for cavity",
			Cost:        14940, Status: treatments.StatusPlanned,
			Notes: "Small cavity on molar. Local anesthesia required.",
		},
		{
			ID:        uuid.New().String(),
			PatientID: jessica.ID, PatientName: jessica.FullName(),
			DentistID: wilson.ID, DentistName: wilson.FullName(),
			Date: s.tenDays, Procedure: "Dental Crown",
			Description: "Porcelain crown placement",
			Cost:        78850, Status: treatments.StatusPlanned,
			Notes:            "Crown fabricated. Ready for placement.",
			FollowUpRequired: true, FollowUpDate: datePtr(s.nextMonth),
		},
	}

	bills := []*invoices.Invoice{
		invoice(sarah, s.today, s.nextWeek, "Dental Cleaning", 9960, invoices.StatusPaid),
		invoice(david, s.tomorrow, s.twoWeeks, "Root Canal Therapy", 70550, invoices.StatusPending),
		invoice(michael, s.dayAfter, s.nextMonth, "Composite Filling", 14940, invoices.StatusPending),
	}

	resolvedToday := now
	incs := []*incidents.Incident{
		{
			ID:        uuid.New().String(),
			PatientID: sarah.ID, PatientName: sarah.FullName(),
			AppointmentID: appts[0].ID,
			Title:         "Post-Cleaning Sensitivity",
			Description:   "Patient experiencing mild sensitivity after routine cleaning. Recommended fluoride treatment.",
			Category:      incidents.CategoryTreatment,
			Severity:      incidents.SeverityLow,
			Priority:      incidents.PriorityMedium,
			Status:        incidents.StatusResolved,
			DentistID:     thompson.ID, DentistName: thompson.FullName(),
			CreatedAt: now, UpdatedAt: now, ResolvedAt: &resolvedToday,
			Cost:                3735,
			Treatment:           "Fluoride application and sensitivity toothpaste recommendation",
			NextAppointmentDate: datePtr(s.tenDays),
			Files:               []incidents.IncidentFile{},
			Notes:               "Patient responded well to fluoride treatment. Sensitivity reduced significantly.",
			FollowUpRequired:    true,
		},
		{
			ID:        uuid.New().String(),
			PatientID: david.ID, PatientName: david.FullName(),
			AppointmentID: appts[1].ID,
			Title:         "Root Canal Complication",
			Description:   "Unexpected inflammation during root canal procedure. Additional treatment required.",
			Category:      incidents.CategoryEmergency,
			Severity:      incidents.SeverityHigh,
			Priority:      incidents.PriorityHigh,
			Status:        incidents.StatusInProgress,
			DentistID:     thompson.ID, DentistName: thompson.FullName(),
			CreatedAt: now, UpdatedAt: now,
			Cost:                26560,
			Treatment:           "Anti-inflammatory medication and extended root canal therapy",
			NextAppointmentDate: datePtr(s.twoWeeks),
			Files:               []incidents.IncidentFile{},
			Notes:               "Patient prescribed antibiotics. Monitoring for improvement. Crown placement postponed.",
			FollowUpRequired:    true,
		},
		{
			ID:        uuid.New().String(),
			PatientID: emily.ID, PatientName: emily.FullName(),
			AppointmentID: appts[2].ID,
			Title:         "Orthodontic Assessment",
			Description:   "Comprehensive orthodontic evaluation for braces treatment planning.",
			Category:      incidents.CategoryConsultation,
			Severity:      incidents.SeverityLow,
			Priority:      incidents.PriorityLow,
			Status:        incidents.StatusOpen,
			DentistID:     wilson.ID, DentistName: wilson.FullName(),
			CreatedAt: now, UpdatedAt: now,
			Treatment:           "Orthodontic evaluation and treatment planning",
			NextAppointmentDate: datePtr(s.nextMonth),
			Files:               []incidents.IncidentFile{},
			Notes:               "Patient is a good candidate for clear aligners. Detailed treatment plan to be prepared.",
			FollowUpRequired:    true,
		},
		{
			ID:        uuid.New().String(),
			PatientID: michael.ID, PatientName: michael.FullName(),
			Title:       "Emergency Tooth Pain",
			Description: "Patient called with severe tooth pain. Emergency appointment scheduled.",
			Category:    incidents.CategoryEmergency,
			Severity:    incidents.SeverityCritical,
			Priority:    incidents.PriorityUrgent,
			Status:      incidents.StatusOpen,
			DentistID:   thompson.ID, DentistName: thompson.FullName(),
			CreatedAt: now, UpdatedAt: now,
			NextAppointmentDate: datePtr(s.dayAfter),
			Files:               []incidents.IncidentFile{},
			Notes:               "Patient reports severe pain in lower left molar. Possible abscess. Emergency appointment needed.",
			FollowUpRequired:    true,
		},
		{
			ID:        uuid.New().String(),
			PatientID: jessica.ID, PatientName: jessica.FullName(),
			Title:       "Crown Preparation Follow-up",
			Description: "Follow-up after crown preparation to check healing and fit temporary crown.",
			Category:    incidents.CategoryFollowUp,
			Severity:    incidents.SeverityLow,
			Priority:    incidents.PriorityLow,
			Status:      incidents.StatusResolved,
			DentistID:   wilson.ID, DentistName: wilson.FullName(),
			CreatedAt: now, UpdatedAt: now, ResolvedAt: &resolvedToday,
			Treatment:           "Temporary crown adjustment and healing assessment",
			NextAppointmentDate: datePtr(s.nextMonth),
			Files:               []incidents.IncidentFile{},
			Notes:               "Healing progressing well. Temporary crown fits properly. Ready for permanent crown placement.",
			FollowUpRequired:    true,
		},
	}

	return &Data{
		Users:        users,
		Patients:     []*patients.Patient{sarah, david, emily, michael, jessica},
		Staff:        []*staff.Member{thompson, wilson, garcia},
		Appointments: appts,
		Treatments:   treats,
		Invoices:     bills,
		Incidents:    incs,
	}
}

func appt(p *patients.Patient, d *staff.Member, date civil.Date, timeOfDay string, duration int, kind string, status appointments.Status, notes string) *appointments.Appointment {
	return &appointments.Appointment{
		ID:          uuid.New().String(),
		PatientID:   p.ID,
		PatientName: p.FullName(),
		DentistID:   d.ID,
		DentistName: d.FullName(),
		Date:        date,
		Time:        timeOfDay,
		Duration:    duration,
		Type:        kind,
		Status:      status,
		Notes:       notes,
	}
}

func invoice(p *patients.Patient, date, due civil.Date, procedure string, cost float64, status invoices.Status) *invoices.Invoice {
	tax := cost * 0.10
	return &invoices.Invoice{
		ID:          uuid.New().String(),
		PatientID:   p.ID,
		PatientName: p.FullName(),
		Date:        date,
		DueDate:     due,
		Items:       []invoices.LineItem{{Procedure: procedure, Cost: cost}},
		Subtotal:    cost,
		Tax:         tax,
		Total:       cost + tax,
		Status:      status,
	}
}

func datePtr(d civil.Date) *civil.Date { return &d }

// Repos collects every repository the demo data seeds into.
type Repos struct {
	Users        *auth.InMemoryUserRepository
	Patients     *patients.InMemoryRepository
	Staff        *staff.InMemoryRepository
	Appointments *appointments.InMemoryRepository
	Treatments   *treatments.InMemoryRepository
	Invoices     *invoices.InMemoryRepository
	Incidents    *incidents.InMemoryRepository
}

// Seed loads the dataset into the repositories.
func Seed(ctx context.Context, data *Data, repos Repos) error {
	if repos.Users != nil {
		for _, cred := range data.Users {
			if err := repos.Users.Insert(ctx, cred); err != nil {
				return err
			}
		}
	}
	if repos.Patients != nil {
		for _, p := range data.Patients {
			repos.Patients.Seed(p)
		}
	}
	if repos.Staff != nil {
		for _, m := range data.Staff {
			repos.Staff.Seed(m)
		}
	}
	if repos.Appointments != nil {
		for _, a := range data.Appointments {
			repos.Appointments.Seed(a)
		}
	}
	if repos.Treatments != nil {
		repos.Treatments.Seed(data.Treatments)
	}
	if repos.Invoices != nil {
		repos.Invoices.Seed(data.Invoices)
	}
	if repos.Incidents != nil {
		repos.Incidents.Seed(data.Incidents)
	}
	return nil
}
