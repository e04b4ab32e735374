package services

import (
	"context"
	"errors"
	"strings"

	"github.com/justsurfingit/job-portal/internal/apperr"
	"github.com/justsurfingit/job-portal/internal/database"
	"github.com/justsurfingit/job-portal/internal/dtos"
	"github.com/justsurfingit/job-portal/internal/models"
	"github.com/justsurfingit/job-portal/internal/policy"
	"github.com/sirupsen/logrus"
)

const (
	msgJobsNotFound = "Jobs not found."
	msgJobNotFound  = "Job not found."
	msgJobForbidden = "You are not authorized to modify this job."
)

type JobService struct {
	store     database.Store
	extractor *LLMService
	matcher   *MatcherService
	log       logrus.FieldLogger
}

// NewJobService wires the job store; extractor may be nil when no model is configured.
func NewJobService(store database.Store, extractor *LLMService, log logrus.FieldLogger) *JobService {
	return &JobService{store: store, extractor: extractor, matcher: NewMatcherService(store), log: log}
}

// Post creates a job for an existing company on behalf of the caller.
func (s *JobService) Post(ctx context.Context, actor policy.Actor, req *dtos.JobPostRequest) (*models.Job, error) {
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Description) == "" ||
		strings.TrimSpace(req.Salary) == "" || strings.TrimSpace(req.Location) == "" ||
		strings.TrimSpace(req.JobType) == "" || req.Position <= 0 || req.CompanyID == 0 {
		return nil, apperr.Validation(msgMissingFields)
	}
	if _, err := s.store.GetCompany(ctx, req.CompanyID); errors.Is(err, database.ErrNotFound) {
		return nil, apperr.NotFound(msgCompanyNotFound)
	} else if err != nil {
		return nil, apperr.Internal("failed to load company", err)
	}

	experience := 1
	if req.ExperienceLevel != nil {
		experience = *req.ExperienceLevel
	}
	job := &models.Job{
		Title:           strings.TrimSpace(req.Title),
		Description:     strings.TrimSpace(req.Description),
		Requirements:    req.Requirements.Strings(),
		Salary:          strings.TrimSpace(req.Salary),
		SalaryValue:     models.ParseSalary(req.Salary),
		ExperienceLevel: experience,
		Location:        strings.TrimSpace(req.Location),
		JobType:         strings.TrimSpace(req.JobType),
		Position:        req.Position,
		CompanyID:       req.CompanyID,
		CreatedByID:     policy.Owner(actor.ID),
	}
	if job.Requirements == nil {
		job.Requirements = []string{}
	}
	if err := s.store.CreateJob(ctx, job); err != nil {
		return nil, apperr.Internal("failed to create job", err)
	}
	s.log.WithFields(logrus.Fields{"job_id": job.ID, "company_id": job.CompanyID, "user_id": actor.ID}).Info("job posted")
	return job, nil
}

// Search matches keyword against title or description. No match is a not-found outcome.
func (s *JobService) Search(ctx context.Context, keyword string) ([]models.Job, error) {
	jobs, err := s.store.SearchJobs(ctx, keyword)
	if err != nil {
		return nil, apperr.Internal("failed to search jobs", err)
	}
	if len(jobs) == 0 {
		return nil, apperr.NotFound(msgJobsNotFound)
	}
	return jobs, nil
}

// Get returns the job with its company and applications.
func (s *JobService) Get(ctx context.Context, id uint) (*models.Job, error) {
	job, err := s.store.GetJob(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, apperr.NotFound(msgJobNotFound)
	}
	if err != nil {
		return nil, apperr.Internal("failed to load job", err)
	}
	return job, nil
}

// ListByCreator returns the caller's jobs; an empty list is not an error.
func (s *JobService) ListByCreator(ctx context.Context, userID uint) ([]models.Job, error) {
	jobs, err := s.store.ListJobsByCreator(ctx, userID)
	if err != nil {
		return nil, apperr.Internal("failed to list jobs", err)
	}
	return jobs, nil
}

func (s *JobService) Update(ctx context.Context, actor policy.Actor, id uint, req *dtos.JobUpdateRequest) (*models.Job, error) {
	job, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(actor, job.CreatedByID, msgJobForbidden); err != nil {
		return nil, err
	}

	setString := func(dst *string, v *string) {
		if v != nil && strings.TrimSpace(*v) != "" {
			*dst = strings.TrimSpace(*v)
		}
	}
	setString(&job.Title, req.Title)
	setString(&job.Description, req.Description)
	setString(&job.Location, req.Location)
	setString(&job.JobType, req.JobType)
	if req.Salary != nil && strings.TrimSpace(*req.Salary) != "" {
		job.Salary = strings.TrimSpace(*req.Salary)
		job.SalaryValue = models.ParseSalary(job.Salary)
	}
	if req.Requirements.IsSet() {
		job.Requirements = req.Requirements.Strings()
	}
	if req.ExperienceLevel != nil {
		job.ExperienceLevel = *req.ExperienceLevel
	}
	if req.Position != nil {
		job.Position = *req.Position
	}
	if req.CompanyID != nil && *req.CompanyID != job.CompanyID {
		company, err := s.store.GetCompany(ctx, *req.CompanyID)
		if errors.Is(err, database.ErrNotFound) {
			return nil, apperr.NotFound(msgCompanyNotFound)
		}
		if err != nil {
			return nil, apperr.Internal("failed to load company", err)
		}
		job.CompanyID = company.ID
		job.Company = company
	}

	if err := s.store.UpdateJob(ctx, job); err != nil {
		return nil, apperr.Internal("failed to update job", err)
	}
	s.log.WithField("job_id", job.ID).Info("job updated")
	return job, nil
}

// Delete removes the job and its applications.
func (s *JobService) Delete(ctx context.Context, actor policy.Actor, id uint) error {
	job, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := policy.Authorize(actor, job.CreatedByID, msgJobForbidden); err != nil {
		return err
	}
	if err := s.store.DeleteJob(ctx, id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return apperr.NotFound(msgJobNotFound)
		}
		return apperr.Internal("failed to delete job", err)
	}
	s.log.WithField("job_id", id).Info("job deleted")
	return nil
}

func (s *JobService) Count(ctx context.Context) (int64, error) {
	n, err := s.store.CountJobs(ctx)
	if err != nil {
		return 0, apperr.Internal("failed to count jobs", err)
	}
	return n, nil
}

// Extract turns a raw job posting into a draft the client can review before posting.
func (s *JobService) Extract(ctx context.Context, req *dtos.JobExtractionRequest) (*dtos.ExtractedJob, error) {
	if s.extractor == nil {
		return nil, apperr.Unavailable("Job extraction is not configured.")
	}
	draft, err := s.extractor.ExtractJobDetails(ctx, req.RawHTML)
	if err != nil {
		return nil, apperr.Internal("AI extraction failed", err)
	}
	draft.URL = req.URL

	company, err := s.matcher.FindCompany(ctx, draft.CompanyName, req.URL)
	if err != nil {
		s.log.WithError(err).Warn("company matching failed")
	} else if company != nil {
		draft.CompanyID = policy.Owner(company.ID)
	}
	return draft, nil
}
