package services

import (
	"context"
	"errors"
	"mime/multipart"
	"strings"

	"github.com/justsurfingit/job-portal/internal/apperr"
	"github.com/justsurfingit/job-portal/internal/database"
	"github.com/justsurfingit/job-portal/internal/models"
	"github.com/justsurfingit/job-portal/internal/policy"
	"github.com/justsurfingit/job-portal/internal/storage"
	"github.com/sirupsen/logrus"
)

const (
	msgCompanyTaken     = "You can't register same company."
	msgCompanyNotFound  = "Company not found."
	msgCompanyForbidden = "You are not authorized to modify this company."
)

// CompanyInput carries add/update fields. Update skips blank values.
type CompanyInput struct {
	Name        string
	Description string
	Website     string
	Location    string
	Industry    string
	Logo        *multipart.FileHeader
}

type CompanyService struct {
	store database.Store
	files storage.Store
	log   logrus.FieldLogger
}

func NewCompanyService(store database.Store, files storage.Store, log logrus.FieldLogger) *CompanyService {
	return &CompanyService{store: store, files: files, log: log}
}

// Register creates a company owned by the caller with only a name.
func (s *CompanyService) Register(ctx context.Context, actor policy.Actor, name string) (*models.Company, error) {
	return s.Add(ctx, actor, CompanyInput{Name: name})
}

// Add creates a company with full details. Companies added by an admin have no owner.
func (s *CompanyService) Add(ctx context.Context, actor policy.Actor, in CompanyInput) (*models.Company, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperr.Validation("Company name is required.")
	}
	if _, err := s.store.GetCompanyByName(ctx, name); err == nil {
		return nil, apperr.Conflict(msgCompanyTaken)
	} else if !errors.Is(err, database.ErrNotFound) {
		return nil, apperr.Internal("failed to look up company", err)
	}

	c := &models.Company{
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		Website:     strings.TrimSpace(in.Website),
		Location:    strings.TrimSpace(in.Location),
		Industry:    strings.TrimSpace(in.Industry),
	}
	if !actor.IsAdmin() {
		c.UserID = policy.Owner(actor.ID)
	}
	if in.Logo != nil {
		url, err := upload(ctx, s.files, in.Logo, "logos")
		if err != nil {
			return nil, err
		}
		c.Logo = url
	}

	if err := s.store.CreateCompany(ctx, c); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, apperr.Conflict(msgCompanyTaken)
		}
		return nil, apperr.Internal("failed to create company", err)
	}
	s.log.WithFields(logrus.Fields{"company_id": c.ID, "user_id": actor.ID}).Info("company registered")
	return c, nil
}

// ListMine returns the caller's companies, newest first.
func (s *CompanyService) ListMine(ctx context.Context, ownerID uint) ([]models.Company, error) {
	out, err := s.store.ListCompaniesByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperr.Internal("failed to list companies", err)
	}
	return out, nil
}

// ListAll returns every company with the owner's name and email.
func (s *CompanyService) ListAll(ctx context.Context) ([]models.Company, error) {
	out, err := s.store.ListCompanies(ctx)
	if err != nil {
		return nil, apperr.Internal("failed to list companies", err)
	}
	return out, nil
}

func (s *CompanyService) Get(ctx context.Context, id uint) (*models.Company, error) {
	c, err := s.store.GetCompany(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, apperr.NotFound(msgCompanyNotFound)
	}
	if err != nil {
		return nil, apperr.Internal("failed to load company", err)
	}
	return c, nil
}

// Update changes the supplied fields; the logo is replaced only when a file is sent.
func (s *CompanyService) Update(ctx context.Context, actor policy.Actor, id uint, in CompanyInput) (*models.Company, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(actor, c.UserID, msgCompanyForbidden); err != nil {
		return nil, err
	}

	for _, f := range []struct {
		dst *string
		v   string
	}{
		{&c.Name, in.Name},
		{&c.Description, in.Description},
		{&c.Website, in.Website},
		{&c.Location, in.Location},
		{&c.Industry, in.Industry},
	} {
		if v := strings.TrimSpace(f.v); v != "" {
			*f.dst = v
		}
	}
	if in.Logo != nil {
		url, err := upload(ctx, s.files, in.Logo, "logos")
		if err != nil {
			return nil, err
		}
		c.Logo = url
	}

	if err := s.store.UpdateCompany(ctx, c); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, apperr.Conflict(msgCompanyTaken)
		}
		return nil, apperr.Internal("failed to update company", err)
	}
	s.log.WithField("company_id", c.ID).Info("company updated")
	return c, nil
}

// Delete removes the company with its jobs and their applications.
func (s *CompanyService) Delete(ctx context.Context, actor policy.Actor, id uint) error {
	c, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := policy.Authorize(actor, c.UserID, msgCompanyForbidden); err != nil {
		return err
	}
	if err := s.store.DeleteCompany(ctx, id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return apperr.NotFound(msgCompanyNotFound)
		}
		return apperr.Internal("failed to delete company", err)
	}
	s.log.WithField("company_id", id).Info("company deleted")
	return nil
}

func (s *CompanyService) Count(ctx context.Context) (int64, error) {
	n, err := s.store.CountCompanies(ctx)
	if err != nil {
		return 0, apperr.Internal("failed to count companies", err)
	}
	return n, nil
}
