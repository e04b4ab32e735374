package memory

import (
	"context"
	"testing"
	"time"

	"github.com/justsurfingit/job-portal/internal/database"
	"github.com/justsurfingit/job-portal/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tickingStore returns a store whose clock advances one minute per write.
func tickingStore(start time.Time) *Store {
	s := New()
	now := start
	s.SetClock(func() time.Time {
		now = now.Add(time.Minute)
		return now
	})
	return s
}

func seed(t *testing.T, s *Store) (recruiter, student models.User, company models.Company, job models.Job) {
	t.Helper()
	ctx := context.Background()

	recruiter = models.User{Fullname: "Rita", Email: "rita@acme.io", Role: models.RoleRecruiter}
	require.NoError(t, s.CreateUser(ctx, &recruiter))
	student = models.User{Fullname: "Sam", Email: "sam@uni.edu", Role: models.RoleStudent}
	require.NoError(t, s.CreateUser(ctx, &student))

	company = models.Company{Name: "Acme", Industry: "Robotics", UserID: &recruiter.ID}
	require.NoError(t, s.CreateCompany(ctx, &company))

	job = models.Job{Title: "Go Engineer", Description: "Build APIs", CompanyID: company.ID, CreatedByID: &recruiter.ID}
	require.NoError(t, s.CreateJob(ctx, &job))
	return
}

func TestUserUniqueness(t *testing.T) {
	s := New()
	ctx := context.Background()

	require.NoError(t, s.CreateUser(ctx, &models.User{Email: "a@b.co"}))
	err := s.CreateUser(ctx, &models.User{Email: "a@b.co"})
	assert.ErrorIs(t, err, database.ErrDuplicate)

	_, err = s.GetUser(ctx, 999)
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestApplicationPairIsUnique(t *testing.T) {
	s := New()
	ctx := context.Background()
	_, student, _, job := seed(t, s)

	a := models.Application{JobID: job.ID, ApplicantID: student.ID}
	require.NoError(t, s.CreateApplication(ctx, &a))
	assert.Equal(t, models.StatusPending, a.Status)

	err := s.CreateApplication(ctx, &models.Application{JobID: job.ID, ApplicantID: student.ID})
	assert.ErrorIs(t, err, database.ErrDuplicate)

	got, err := s.GetJob(ctx, job.ID)
	require.NoError(t, err)
	require.Len(t, got.Applications, 1)
	assert.Equal(t, "Acme", got.Company.Name)
}

func TestDeleteCompanyCascades(t *testing.T) {
	s := New()
	ctx := context.Background()
	_, student, company, job := seed(t, s)
	require.NoError(t, s.CreateApplication(ctx, &models.Application{JobID: job.ID, ApplicantID: student.ID}))

	require.NoError(t, s.DeleteCompany(ctx, company.ID))

	_, err := s.GetJob(ctx, job.ID)
	assert.ErrorIs(t, err, database.ErrNotFound)
	n, err := s.CountApplications(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestDeleteUserRemovesApplications(t *testing.T) {
	s := New()
	ctx := context.Background()
	_, student, _, job := seed(t, s)
	require.NoError(t, s.CreateApplication(ctx, &models.Application{JobID: job.ID, ApplicantID: student.ID}))

	require.NoError(t, s.DeleteUser(ctx, student.ID))

	apps, err := s.ListApplicationsByJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Empty(t, apps)
}

func TestSearchJobsNewestFirst(t *testing.T) {
	s := tickingStore(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()
	_, _, company, _ := seed(t, s)

	require.NoError(t, s.CreateJob(ctx, &models.Job{Title: "Data Analyst", Description: "SQL and golang", CompanyID: company.ID}))
	require.NoError(t, s.CreateJob(ctx, &models.Job{Title: "Designer", Description: "Figma", CompanyID: company.ID}))

	jobs, err := s.SearchJobs(ctx, "GO")
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, "Data Analyst", jobs[0].Title)
	assert.Equal(t, "Go Engineer", jobs[1].Title)

	all, err := s.SearchJobs(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestListBlogsPaging(t *testing.T) {
	s := tickingStore(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()
	author := models.User{Fullname: "Ann", Email: "ann@x.io"}
	require.NoError(t, s.CreateUser(ctx, &author))

	for _, title := range []string{"b", "c", "a"} {
		require.NoError(t, s.CreateBlog(ctx, &models.Blog{Title: title, AuthorID: author.ID}))
	}

	blogs, total, err := s.ListBlogs(ctx, database.BlogQuery{Limit: 2, SortBy: database.BlogSortCreatedAt, Desc: true})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, blogs, 2)
	assert.Equal(t, "a", blogs[0].Title)
	assert.Equal(t, "Ann", blogs[0].Author.Fullname)

	blogs, _, err = s.ListBlogs(ctx, database.BlogQuery{Offset: 1, Limit: 10, SortBy: database.BlogSortTitle})
	require.NoError(t, err)
	require.Len(t, blogs, 2)
	assert.Equal(t, "b", blogs[0].Title)
	assert.Equal(t, "c", blogs[1].Title)

	blogs, _, err = s.ListBlogs(ctx, database.BlogQuery{Offset: 5, Limit: 10, SortBy: database.BlogSortTitle})
	require.NoError(t, err)
	assert.Empty(t, blogs)
}

func TestComments(t *testing.T) {
	s := tickingStore(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()
	author := models.User{Fullname: "Ann", Email: "ann@x.io"}
	require.NoError(t, s.CreateUser(ctx, &author))
	blog := models.Blog{Title: "t", AuthorID: author.ID}
	require.NoError(t, s.CreateBlog(ctx, &blog))

	for _, body := range []string{"first", "second", "third"} {
		require.NoError(t, s.CreateComment(ctx, &models.Comment{Content: body, AuthorID: author.ID, BlogID: blog.ID}))
	}

	comments, total, err := s.ListComments(ctx, blog.ID, 1, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, comments, 1)
	assert.Equal(t, "second", comments[0].Content)

	require.NoError(t, s.DeleteBlog(ctx, blog.ID))
	_, total, err = s.ListComments(ctx, blog.ID, 0, 20)
	require.NoError(t, err)
	assert.Zero(t, total)
}
