package services

import (
	"bytes"
	"context"
	"mime/multipart"
	"testing"
	"time"

	"github.com/justsurfingit/job-portal/internal/auth"
	"github.com/justsurfingit/job-portal/internal/database/memory"
	"github.com/justsurfingit/job-portal/internal/logging"
	"github.com/justsurfingit/job-portal/internal/models"
	"github.com/justsurfingit/job-portal/internal/policy"
	"github.com/stretchr/testify/require"
)

const strongPassword = "Str0ng!pass"

type fixture struct {
	store     *memory.Store
	users     *UserService
	companies *CompanyService
	jobs      *JobService
	apps      *ApplicationService
	blogs     *BlogService
	analytics *AnalyticsService
	reports   *ReportService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.New()
	log := logging.Discard()
	return &fixture{
		store:     store,
		users:     NewUserService(store, nil, auth.NewTokenManager("test-secret", time.Hour), log),
		companies: NewCompanyService(store, nil, log),
		jobs:      NewJobService(store, nil, log),
		apps:      NewApplicationService(store, nil, log),
		blogs:     NewBlogService(store, nil, log),
		analytics: NewAnalyticsService(store),
		reports:   NewReportService(store),
	}
}

func (f *fixture) user(t *testing.T, email, role string) policy.Actor {
	t.Helper()
	u := &models.User{Fullname: email, Email: email, PhoneNumber: "123", Role: role}
	require.NoError(t, f.store.CreateUser(context.Background(), u))
	return policy.Actor{ID: u.ID, Role: u.Role}
}

func (f *fixture) company(t *testing.T, owner policy.Actor, name string) *models.Company {
	t.Helper()
	c, err := f.companies.Register(context.Background(), owner, name)
	require.NoError(t, err)
	return c
}

// fileHeader builds a real multipart.FileHeader by parsing an encoded form.
func fileHeader(t *testing.T, field, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile(field, name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File[field][0]
}
