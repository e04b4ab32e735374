package services

import (
	"context"
	"testing"

	"github.com/justsurfingit/job-portal/internal/apperr"
	"github.com/justsurfingit/job-portal/internal/models"
	"github.com/justsurfingit/job-portal/internal/policy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompanyRegister(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	rita := f.user(t, "rita@acme.io", models.RoleRecruiter)

	c, err := f.companies.Register(ctx, rita, "  Acme ")
	require.NoError(t, err)
	assert.Equal(t, "Acme", c.Name)
	require.NotNil(t, c.UserID)
	assert.Equal(t, rita.ID, *c.UserID)

	_, err = f.companies.Register(ctx, rita, "Acme")
	assert.Equal(t, msgCompanyTaken, apperr.Message(err))
	assert.Equal(t, 400, apperr.Status(err))

	_, err = f.companies.Register(ctx, rita, "")
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	mine, err := f.companies.ListMine(ctx, rita.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	none, err := f.companies.ListMine(ctx, rita.ID+100)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestCompanyOwnership(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	rita := f.user(t, "rita@acme.io", models.RoleRecruiter)
	ron := f.user(t, "ron@globex.io", models.RoleRecruiter)
	admin := policy.Actor{ID: 99, Role: models.RoleSuperUser}
	acme := f.company(t, rita, "Acme")

	_, err := f.companies.Update(ctx, ron, acme.ID, CompanyInput{Website: "https://evil.io"})
	assert.True(t, apperr.Is(err, apperr.KindForbidden))
	assert.Equal(t, 403, apperr.Status(err))

	updated, err := f.companies.Update(ctx, rita, acme.ID, CompanyInput{Website: "https://acme.io", Location: " "})
	require.NoError(t, err)
	assert.Equal(t, "https://acme.io", updated.Website)
	assert.Equal(t, "Acme", updated.Name)

	assert.True(t, apperr.Is(f.companies.Delete(ctx, ron, acme.ID), apperr.KindForbidden))
	require.NoError(t, f.companies.Delete(ctx, admin, acme.ID))
	_, err = f.companies.Get(ctx, acme.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestAdminCompaniesHaveNoOwner(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	rita := f.user(t, "rita@acme.io", models.RoleRecruiter)
	admin := policy.Actor{ID: 99, Role: models.RoleSuperUser}

	c, err := f.companies.Add(ctx, admin, CompanyInput{Name: "Initech", Industry: "Software"})
	require.NoError(t, err)
	assert.Nil(t, c.UserID)

	_, err = f.companies.Update(ctx, rita, c.ID, CompanyInput{Description: "mine now"})
	assert.True(t, apperr.Is(err, apperr.KindForbidden))

	_, err = f.companies.Update(ctx, admin, c.ID, CompanyInput{Description: "printers"})
	require.NoError(t, err)

	n, err := f.companies.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}
