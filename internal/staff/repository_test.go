package staff

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dentalcenter/practice-api/internal/civil"
	"github.com/dentalcenter/practice-api/internal/validation"
)

func dentistRequest() *UpsertMemberRequest {
	return &UpsertMemberRequest{
		FirstName:      "Michael",
		LastName:       "Thompson",
		Email:          "m.thompson@dentalcenter.com",
		Phone:          "(555) 111-2222",
		Role:           RoleDentist,
		Specialization: "General Dentistry",
		LicenseNumber:  "DDS-12345",
		HireDate:       civil.Date{Year: 2020, Month: 1, Day: 15},
		Status:         StatusActive,
	}
}

func TestCreateAndList(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	m, err := repo.Create(ctx, dentistRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, m.ID)

	recep := dentistRequest()
	recep.Role = RoleReceptionist
	recep.Specialization = ""
	recep.LicenseNumber = ""
	recep.FirstName = "Paula"
	_, err = repo.Create(ctx, recep)
	require.NoError(t, err)

	dentists, err := repo.List(ctx, ListFilter{Role: RoleDentist})
	require.NoError(t, err)
	require.Len(t, dentists, 1)
	assert.Equal(t, "Michael Thompson", dentists[0].FullName())

	active, err := repo.List(ctx, ListFilter{Status: StatusActive})
	require.NoError(t, err)
	assert.Len(t, active, 2)
}

func TestLicenseRequiredForLicensedRoles(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	for _, role := range []Role{RoleDentist, RoleHygienist} {
		req := dentistRequest()
		req.Role = role
		req.Specialization = ""
		req.LicenseNumber = ""

		_, err := repo.Create(ctx, req)
		require.Error(t, err, "role %s", role)

		var fields validation.Errors
		require.ErrorAs(t, err, &fields)
		assert.Contains(t, fields, "specialization")
		assert.Contains(t, fields, "licenseNumber")
	}

	// Unlicensed roles skip the check.
	for _, role := range []Role{RoleAssistant, RoleReceptionist, RoleAdmin} {
		req := dentistRequest()
		req.Role = role
		req.Specialization = ""
		req.LicenseNumber = ""
		_, err := repo.Create(ctx, req)
		assert.NoError(t, err, "role %s", role)
	}
}

func TestUpdatePreservesID(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	m, err := repo.Create(ctx, dentistRequest())
	require.NoError(t, err)

	req := dentistRequest()
	req.Status = StatusInactive
	updated, err := repo.Update(ctx, m.ID, req)
	require.NoError(t, err)
	assert.Equal(t, m.ID, updated.ID)
	assert.Equal(t, StatusInactive, updated.Status)

	_, err = repo.Update(ctx, "ghost", dentistRequest())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInvalidRoleRejected(t *testing.T) {
	repo := NewInMemoryRepository()

	req := dentistRequest()
	req.Role = Role("janitor")
	_, err := repo.Create(context.Background(), req)
	var fields validation.Errors
	require.ErrorAs(t, err, &fields)
	assert.Contains(t, fields, "role")
}
