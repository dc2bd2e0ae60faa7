package patients

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dentalcenter/practice-api/internal/civil"
	"github.com/dentalcenter/practice-api/internal/validation"
)

func validRequest() *UpsertPatientRequest {
	return &UpsertPatientRequest{
		FirstName:   "Sarah",
		LastName:    "Johnson",
		Email:       "sarah.johnson@email.com",
		Phone:       "(555) 123-4567",
		DateOfBirth: civil.Date{Year: 1985, Month: 3, Day: 15},
		Address:     "123 Oak Street, Springfield, IL 62701",
		EmergencyContact: EmergencyContact{
			Name:         "Mike Johnson",
			Phone:        "(555) 123-4568",
			Relationship: "Spouse",
		},
		MedicalHistory: []string{"Hypertension"},
		Allergies:      []string{"Penicillin"},
	}
}

func TestCreateAssignsUniqueIDs(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	a, err := repo.Create(ctx, validRequest())
	require.NoError(t, err)
	require.NotEmpty(t, a.ID)
	assert.False(t, a.CreatedAt.IsZero())

	// Delete then insert again: ids must never collide.
	require.NoError(t, repo.Delete(ctx, a.ID))
	b, err := repo.Create(ctx, validRequest())
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestCreateValidation(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	req := validRequest()
	req.FirstName = "  "
	req.Email = "not-an-email"
	_, err := repo.Create(ctx, req)
	require.Error(t, err)

	var fields validation.Errors
	require.ErrorAs(t, err, &fields)
	assert.Equal(t, "First name is required", fields["firstName"])
	assert.Equal(t, "Email is invalid", fields["email"])

	list, err := repo.List(ctx, ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, list, "failed create must not insert")
}

func TestSearchFindsNewPatient(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	_, err := repo.Create(ctx, validRequest())
	require.NoError(t, err)

	other := validRequest()
	other.FirstName = "David"
	other.LastName = "Miller"
	other.Email = "david.miller@email.com"
	other.Phone = "(555) 234-5678"
	_, err = repo.Create(ctx, other)
	require.NoError(t, err)

	for _, q := range []string{"sarah", "JOHNSON", "sarah.johnson@email.com", "(555) 123-4567"} {
		list, err := repo.List(ctx, ListFilter{Search: q})
		require.NoError(t, err)
		require.Len(t, list, 1, "search %q", q)
		assert.Equal(t, "Sarah Johnson", list[0].FullName())
	}
}

func TestDeleteRemovesFromSearch(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	p, err := repo.Create(ctx, validRequest())
	require.NoError(t, err)
	require.NoError(t, repo.Delete(ctx, p.ID))

	list, err := repo.List(ctx, ListFilter{Search: "sarah"})
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = repo.GetByID(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, p.ID), ErrNotFound)
}

func TestUpdatePreservesIDCreatedAtAndLastVisit(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	lastVisit := civil.Date{Year: 2024, Month: 12, Day: 15}
	seeded := &Patient{
		ID:          "seed-1",
		FirstName:   "Emily",
		LastName:    "Davis",
		Email:       "emily.davis@email.com",
		Phone:       "(555) 345-6789",
		DateOfBirth: civil.Date{Year: 1992, Month: 11, Day: 8},
		CreatedAt:   civil.Date{Year: 2024, Month: 3, Day: 5},
		LastVisit:   &lastVisit,
	}
	repo.Seed(seeded)

	req := validRequest()
	req.FirstName = "Emily"
	req.LastName = "Davis"
	req.Email = "emily.davis@email.com"
	req.Phone = "(555) 999-0000" // the edit

	updated, err := repo.Update(ctx, "seed-1", req)
	require.NoError(t, err)
	assert.Equal(t, "seed-1", updated.ID)
	assert.Equal(t, "(555) 999-0000", updated.Phone)
	assert.Equal(t, civil.Date{Year: 2024, Month: 3, Day: 5}, updated.CreatedAt)
	require.NotNil(t, updated.LastVisit)
	assert.Equal(t, lastVisit, *updated.LastVisit)
}

func TestUpdateMissingPatient(t *testing.T) {
	repo := NewInMemoryRepository()

	_, err := repo.Update(context.Background(), "ghost", validRequest())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFindByEmail(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	created, err := repo.Create(ctx, validRequest())
	require.NoError(t, err)

	found, err := repo.FindByEmail(ctx, "sarah.johnson@email.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = repo.FindByEmail(ctx, "SARAH.JOHNSON@EMAIL.COM")
	assert.ErrorIs(t, err, ErrNotFound)
}
