package database

import (
	"context"
	"errors"

	"github.com/justsurfingit/job-portal/internal/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// UserRepository persists users.
type UserRepository interface {
	CreateUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, id uint) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUser(ctx context.Context, u *models.User) error
	// DeleteUser removes the user and the applications they submitted.
	DeleteUser(ctx context.Context, id uint) error
	ListUsersByRole(ctx context.Context, role string) ([]models.User, error)
	CountUsersByRole(ctx context.Context, role string) (int64, error)
}

// CompanyRepository persists companies. Listings are newest first.
type CompanyRepository interface {
	CreateCompany(ctx context.Context, c *models.Company) error
	GetCompany(ctx context.Context, id uint) (*models.Company, error)
	GetCompanyByName(ctx context.Context, name string) (*models.Company, error)
	ListCompaniesByOwner(ctx context.Context, ownerID uint) ([]models.Company, error)
	// ListCompanies preloads each owner.
	ListCompanies(ctx context.Context) ([]models.Company, error)
	UpdateCompany(ctx context.Context, c *models.Company) error
	// DeleteCompany removes the company together with its jobs and their applications.
	DeleteCompany(ctx context.Context, id uint) error
	CountCompanies(ctx context.Context) (int64, error)
}

// JobRepository persists jobs. Listings are newest first with Company preloaded.
type JobRepository interface {
	CreateJob(ctx context.Context, j *models.Job) error
	// GetJob preloads Company and Applications.
	GetJob(ctx context.Context, id uint) (*models.Job, error)
	// SearchJobs matches keyword case-insensitively against title or description.
	SearchJobs(ctx context.Context, keyword string) ([]models.Job, error)
	ListJobsByCreator(ctx context.Context, userID uint) ([]models.Job, error)
	UpdateJob(ctx context.Context, j *models.Job) error
	// DeleteJob removes the job and its applications.
	DeleteJob(ctx context.Context, id uint) error
	CountJobs(ctx context.Context) (int64, error)
}

// ApplicationRepository persists applications. A (job, applicant) pair is unique;
// CreateApplication returns ErrDuplicate when it already exists.
type ApplicationRepository interface {
	CreateApplication(ctx context.Context, a *models.Application) error
	// GetApplication preloads Job.
	GetApplication(ctx context.Context, id uint) (*models.Application, error)
	// ListApplicationsByApplicant preloads Job and Job.Company, newest first.
	ListApplicationsByApplicant(ctx context.Context, applicantID uint) ([]models.Application, error)
	// ListApplicationsByJob preloads Applicant, newest first.
	ListApplicationsByJob(ctx context.Context, jobID uint) ([]models.Application, error)
	// ListApplications preloads Applicant, Job and Job.Company, newest first.
	ListApplications(ctx context.Context) ([]models.Application, error)
	UpdateApplicationStatus(ctx context.Context, id uint, status string) error
	DeleteApplication(ctx context.Context, id uint) error
	CountApplications(ctx context.Context) (int64, error)
}

// BlogQuery selects one page of blogs. SortBy is a column name.
type BlogQuery struct {
	Offset int
	Limit  int
	SortBy string
	Desc   bool
}

// Sortable blog columns.
const (
	BlogSortCreatedAt = "created_at"
	BlogSortUpdatedAt = "updated_at"
	BlogSortTitle     = "title"
)

// BlogRepository persists blogs and their comments. Authors are preloaded.
type BlogRepository interface {
	CreateBlog(ctx context.Context, b *models.Blog) error
	GetBlog(ctx context.Context, id uint) (*models.Blog, error)
	ListBlogs(ctx context.Context, q BlogQuery) ([]models.Blog, int64, error)
	ListBlogsByAuthor(ctx context.Context, authorID uint) ([]models.Blog, error)
	UpdateBlog(ctx context.Context, b *models.Blog) error
	// DeleteBlog removes the blog and its comments.
	DeleteBlog(ctx context.Context, id uint) error

	CreateComment(ctx context.Context, c *models.Comment) error
	// ListComments returns comments newest first and the blog's total comment count.
	ListComments(ctx context.Context, blogID uint, skip, limit int) ([]models.Comment, int64, error)
}

// JobDimension is a job column that job counts can be grouped by.
type JobDimension string

const (
	DimJobType         JobDimension = "job_type"
	DimExperienceLevel JobDimension = "experience_level"
	DimLocation        JobDimension = "location"
)

// Period is the granularity of time-series counts.
type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// AnalyticsRepository runs read-only aggregations. Bucket keys for periods are
// "2006-01-02" (day), "2006-W01" (ISO week) and "2006-01" (month), sorted ascending.
type AnalyticsRepository interface {
	CountJobsBy(ctx context.Context, dim JobDimension) ([]models.Bucket, error)
	CountJobsBySalaryRange(ctx context.Context) ([]models.Bucket, error)
	CountApplicationsByStatus(ctx context.Context) ([]models.Bucket, error)
	CountApplicationsByPeriod(ctx context.Context, p Period) ([]models.Bucket, error)
	CountJobsByPeriod(ctx context.Context, p Period) ([]models.Bucket, error)
	TopRequirements(ctx context.Context, limit int) ([]models.Bucket, error)
	CountJobsByIndustry(ctx context.Context) ([]models.Bucket, error)
	AverageSalaryByPosition(ctx context.Context, minJobs int) ([]models.PositionSalary, error)
}

// Store bundles every repository behind one handle.
type Store interface {
	UserRepository
	CompanyRepository
	JobRepository
	ApplicationRepository
	BlogRepository
	AnalyticsRepository
}

// UnspecifiedIndustry labels jobs whose company has no industry.
const UnspecifiedIndustry = "Unspecified"

// PeriodKeyLayout returns the Go layout matching the period bucket keys; week keys
// are built from ISO weeks instead.
func PeriodKeyLayout(p Period) string {
	switch p {
	case PeriodMonth:
		return "2006-01"
	default:
		return "2006-01-02"
	}
}

func ValidPeriod(p Period) bool {
	return p == PeriodDay || p == PeriodWeek || p == PeriodMonth
}

func ValidDimension(d JobDimension) bool {
	return d == DimJobType || d == DimExperienceLevel || d == DimLocation
}
