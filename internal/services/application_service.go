package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/justsurfingit/job-portal/internal/apperr"
	"github.com/justsurfingit/job-portal/internal/database"
	"github.com/justsurfingit/job-portal/internal/models"
	"github.com/justsurfingit/job-portal/internal/policy"
	"github.com/sirupsen/logrus"
)

const (
	msgAlreadyApplied       = "You have already applied for this job"
	msgNoApplications       = "No Applications"
	msgApplicationNotFound  = "Application not found."
	msgApplicationForbidden = "You are not authorized to modify this application."
	msgInvalidStatus        = "Invalid status."
	msgWithdrawNotFound     = "Application not found or you are not authorized to withdraw it."

	notifyTimeout = 30 * time.Second
)

type ApplicationService struct {
	store    database.Store
	notifier Notifier
	onNotify func(ok bool)
	log      logrus.FieldLogger

	wg sync.WaitGroup
}

// NewApplicationService wires the store; notifier may be nil to disable emails.
func NewApplicationService(store database.Store, notifier Notifier, log logrus.FieldLogger) *ApplicationService {
	return &ApplicationService{store: store, notifier: notifier, log: log}
}

// OnNotify registers a callback receiving each notification outcome.
func (s *ApplicationService) OnNotify(f func(ok bool)) {
	s.onNotify = f
}

// Wait blocks until in-flight notifications finish.
func (s *ApplicationService) Wait() {
	s.wg.Wait()
}

// Apply records one application per (job, applicant); the store's unique index
// reports repeats.
func (s *ApplicationService) Apply(ctx context.Context, applicantID, jobID uint) (*models.Application, error) {
	if jobID == 0 {
		return nil, apperr.Validation("Job id is required.")
	}
	if _, err := s.store.GetJob(ctx, jobID); errors.Is(err, database.ErrNotFound) {
		return nil, apperr.NotFound(msgJobNotFound)
	} else if err != nil {
		return nil, apperr.Internal("failed to load job", err)
	}

	app := &models.Application{JobID: jobID, ApplicantID: applicantID, Status: models.StatusPending}
	if err := s.store.CreateApplication(ctx, app); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, apperr.Conflict(msgAlreadyApplied)
		}
		return nil, apperr.Internal("failed to create application", err)
	}
	s.log.WithFields(logrus.Fields{"application_id": app.ID, "job_id": jobID, "user_id": applicantID}).Info("application created")
	return app, nil
}

// AppliedJobs lists the applicant's applications; none is a not-found outcome.
func (s *ApplicationService) AppliedJobs(ctx context.Context, applicantID uint) ([]models.Application, error) {
	apps, err := s.store.ListApplicationsByApplicant(ctx, applicantID)
	if err != nil {
		return nil, apperr.Internal("failed to list applications", err)
	}
	if len(apps) == 0 {
		return nil, apperr.NotFound(msgNoApplications)
	}
	return apps, nil
}

// Applicants returns the job with each application's applicant filled in.
func (s *ApplicationService) Applicants(ctx context.Context, jobID uint) (*models.Job, error) {
	job, err := s.store.GetJob(ctx, jobID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, apperr.NotFound(msgJobNotFound)
	}
	if err != nil {
		return nil, apperr.Internal("failed to load job", err)
	}
	apps, err := s.store.ListApplicationsByJob(ctx, jobID)
	if err != nil {
		return nil, apperr.Internal("failed to list applicants", err)
	}
	job.Applications = apps
	return job, nil
}

func (s *ApplicationService) All(ctx context.Context) ([]models.Application, error) {
	apps, err := s.store.ListApplications(ctx)
	if err != nil {
		return nil, apperr.Internal("failed to list applications", err)
	}
	return apps, nil
}

// CountsByCompany returns the number of applications per company name. Every
// company appears, including those without applications.
func (s *ApplicationService) CountsByCompany(ctx context.Context) (map[string]int64, error) {
	companies, err := s.store.ListCompanies(ctx)
	if err != nil {
		return nil, apperr.Internal("failed to list companies", err)
	}
	apps, err := s.store.ListApplications(ctx)
	if err != nil {
		return nil, apperr.Internal("failed to list applications", err)
	}

	counts := make(map[string]int64, len(companies))
	for _, c := range companies {
		counts[c.Name] = 0
	}
	for _, a := range apps {
		if a.Job == nil || a.Job.Company == nil {
			continue
		}
		if _, ok := counts[a.Job.Company.Name]; ok {
			counts[a.Job.Company.Name]++
		}
	}
	return counts, nil
}

// UpdateStatus sets any known status, lower-cased.
func (s *ApplicationService) UpdateStatus(ctx context.Context, actor policy.Actor, id uint, status string) (*models.Application, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	switch status {
	case models.StatusPending, models.StatusAccepted, models.StatusRejected:
	default:
		return nil, apperr.Validation(msgInvalidStatus)
	}
	return s.setStatus(ctx, actor, id, status)
}

// Decide is the recruiter path and only accepts or rejects.
func (s *ApplicationService) Decide(ctx context.Context, actor policy.Actor, id uint, status string) (*models.Application, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if status != models.StatusAccepted && status != models.StatusRejected {
		return nil, apperr.Validation("Status must be either 'accepted' or 'rejected'.")
	}
	return s.setStatus(ctx, actor, id, status)
}

func (s *ApplicationService) setStatus(ctx context.Context, actor policy.Actor, id uint, status string) (*models.Application, error) {
	app, err := s.authorizeRecruiter(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := s.store.UpdateApplicationStatus(ctx, id, status); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, apperr.NotFound(msgApplicationNotFound)
		}
		return nil, apperr.Internal("failed to update status", err)
	}
	previous := app.Status
	app.Status = status
	s.log.WithFields(logrus.Fields{"application_id": id, "status": status, "user_id": actor.ID}).Info("application status updated")

	if previous != status {
		s.notify(app)
	}
	return app, nil
}

// authorizeRecruiter loads the application and checks the caller created its job.
func (s *ApplicationService) authorizeRecruiter(ctx context.Context, actor policy.Actor, id uint) (*models.Application, error) {
	app, err := s.store.GetApplication(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, apperr.NotFound(msgApplicationNotFound)
	}
	if err != nil {
		return nil, apperr.Internal("failed to load application", err)
	}
	var owner *uint
	if app.Job != nil {
		owner = app.Job.CreatedByID
	}
	if err := policy.Authorize(actor, owner, msgApplicationForbidden); err != nil {
		return nil, err
	}
	return app, nil
}

func (s *ApplicationService) notify(app *models.Application) {
	if s.notifier == nil {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		log := s.log.WithField("application_id", app.ID)
		change, err := s.statusChange(ctx, app)
		if err == nil {
			err = s.notifier.NotifyStatusChange(ctx, change)
		}
		if err != nil {
			log.WithError(err).Warn("status notification failed")
		} else {
			log.Info("status notification sent")
		}
		if s.onNotify != nil {
			s.onNotify(err == nil)
		}
	}()
}

func (s *ApplicationService) statusChange(ctx context.Context, app *models.Application) (StatusChange, error) {
	applicant, err := s.store.GetUser(ctx, app.ApplicantID)
	if err != nil {
		return StatusChange{}, err
	}
	change := StatusChange{
		ApplicantName:  applicant.Fullname,
		ApplicantEmail: applicant.Email,
		Status:         app.Status,
	}
	if app.Job != nil {
		change.JobTitle = app.Job.Title
		if c, err := s.store.GetCompany(ctx, app.Job.CompanyID); err == nil {
			change.CompanyName = c.Name
		}
	}
	return change, nil
}

// Withdraw deletes the application only when the caller submitted it.
func (s *ApplicationService) Withdraw(ctx context.Context, applicantID, id uint) error {
	app, err := s.store.GetApplication(ctx, id)
	if errors.Is(err, database.ErrNotFound) || (err == nil && app.ApplicantID != applicantID) {
		return apperr.NotFound(msgWithdrawNotFound)
	}
	if err != nil {
		return apperr.Internal("failed to load application", err)
	}
	if err := s.store.DeleteApplication(ctx, id); err != nil {
		return apperr.Internal("failed to withdraw application", err)
	}
	s.log.WithFields(logrus.Fields{"application_id": id, "user_id": applicantID}).Info("application withdrawn")
	return nil
}

// Delete lets the job's creator (or an admin) remove an application.
func (s *ApplicationService) Delete(ctx context.Context, actor policy.Actor, id uint) error {
	if _, err := s.authorizeRecruiter(ctx, actor, id); err != nil {
		return err
	}
	if err := s.store.DeleteApplication(ctx, id); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return apperr.NotFound(msgApplicationNotFound)
		}
		return apperr.Internal("failed to delete application", err)
	}
	s.log.WithFields(logrus.Fields{"application_id": id, "user_id": actor.ID}).Info("application deleted")
	return nil
}

func (s *ApplicationService) Total(ctx context.Context) (int64, error) {
	n, err := s.store.CountApplications(ctx)
	if err != nil {
		return 0, apperr.Internal("failed to count applications", err)
	}
	return n, nil
}

func (s *ApplicationService) RecruiterCount(ctx context.Context) (int64, error) {
	n, err := s.store.CountUsersByRole(ctx, models.RoleRecruiter)
	if err != nil {
		return 0, apperr.Internal("failed to count recruiters", err)
	}
	return n, nil
}
