// Package memory provides an in-memory database.Store. It is safe for concurrent
// use and is intended for tests and local development.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/justsurfingit/job-portal/internal/database"
	"github.com/justsurfingit/job-portal/internal/models"
)

type Store struct {
	mu     sync.RWMutex
	nextID uint
	now    func() time.Time

	users        map[uint]models.User
	companies    map[uint]models.Company
	jobs         map[uint]models.Job
	applications map[uint]models.Application
	blogs        map[uint]models.Blog
	comments     map[uint]models.Comment
}

var _ database.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		nextID:       1,
		now:          func() time.Time { return time.Now().UTC() },
		users:        make(map[uint]models.User),
		companies:    make(map[uint]models.Company),
		jobs:         make(map[uint]models.Job),
		applications: make(map[uint]models.Application),
		blogs:        make(map[uint]models.Blog),
		comments:     make(map[uint]models.Comment),
	}
}

// SetClock replaces the timestamp source; tests use it to control ordering.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Store) nextIDLocked() uint {
	id := s.nextID
	s.nextID++
	return id
}

// stampLocked sets the creation time when zero and always refreshes the update time.
func (s *Store) stampLocked(created *time.Time, updated *time.Time) {
	now := s.now()
	if created.IsZero() {
		*created = now
	}
	*updated = now
}

type timestamped interface {
	models.User | models.Company | models.Job | models.Application | models.Blog | models.Comment
}

// sortNewest orders by created time, then id, both descending.
func sortNewest[T timestamped](items []T, key func(T) (time.Time, uint)) {
	sort.Slice(items, func(i, j int) bool {
		ti, ii := key(items[i])
		tj, ij := key(items[j])
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return ii > ij
	})
}

func summary(u models.User) *models.User {
	return &models.User{ID: u.ID, Fullname: u.Fullname, Email: u.Email}
}

// Users ---------------------------------------------------------------------

func (s *Store) CreateUser(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == u.Email {
			return database.ErrDuplicate
		}
	}
	u.ID = s.nextIDLocked()
	s.stampLocked(&u.CreatedAt, &u.UpdatedAt)
	s.users[u.ID] = *u
	return nil
}

func (s *Store) GetUser(_ context.Context, id uint) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return &u, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, database.ErrNotFound
}

func (s *Store) UpdateUser(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[u.ID]; !ok {
		return database.ErrNotFound
	}
	for id, existing := range s.users {
		if id != u.ID && existing.Email == u.Email {
			return database.ErrDuplicate
		}
	}
	s.stampLocked(&u.CreatedAt, &u.UpdatedAt)
	s.users[u.ID] = *u
	return nil
}

func (s *Store) DeleteUser(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return database.ErrNotFound
	}
	for appID, a := range s.applications {
		if a.ApplicantID == id {
			delete(s.applications, appID)
		}
	}
	delete(s.users, id)
	return nil
}

func (s *Store) ListUsersByRole(_ context.Context, role string) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.User{}
	for _, u := range s.users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	sortNewest(out, func(u models.User) (time.Time, uint) { return u.CreatedAt, u.ID })
	return out, nil
}

func (s *Store) CountUsersByRole(_ context.Context, role string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, u := range s.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

// Companies -----------------------------------------------------------------

func (s *Store) CreateCompany(_ context.Context, c *models.Company) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.companies {
		if existing.Name == c.Name {
			return database.ErrDuplicate
		}
	}
	c.ID = s.nextIDLocked()
	s.stampLocked(&c.CreatedAt, &c.UpdatedAt)
	stored := *c
	stored.User = nil
	s.companies[c.ID] = stored
	return nil
}

func (s *Store) GetCompany(_ context.Context, id uint) (*models.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.companies[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return &c, nil
}

func (s *Store) GetCompanyByName(_ context.Context, name string) (*models.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.companies {
		if c.Name == name {
			return &c, nil
		}
	}
	return nil, database.ErrNotFound
}

func (s *Store) ListCompaniesByOwner(_ context.Context, ownerID uint) ([]models.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Company{}
	for _, c := range s.companies {
		if c.UserID != nil && *c.UserID == ownerID {
			out = append(out, c)
		}
	}
	sortNewest(out, func(c models.Company) (time.Time, uint) { return c.CreatedAt, c.ID })
	return out, nil
}

func (s *Store) ListCompanies(_ context.Context) ([]models.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Company, 0, len(s.companies))
	for _, c := range s.companies {
		if c.UserID != nil {
			if u, ok := s.users[*c.UserID]; ok {
				c.User = summary(u)
			}
		}
		out = append(out, c)
	}
	sortNewest(out, func(c models.Company) (time.Time, uint) { return c.CreatedAt, c.ID })
	return out, nil
}

func (s *Store) UpdateCompany(_ context.Context, c *models.Company) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.companies[c.ID]; !ok {
		return database.ErrNotFound
	}
	for id, existing := range s.companies {
		if id != c.ID && existing.Name == c.Name {
			return database.ErrDuplicate
		}
	}
	s.stampLocked(&c.CreatedAt, &c.UpdatedAt)
	stored := *c
	stored.User = nil
	s.companies[c.ID] = stored
	return nil
}

func (s *Store) DeleteCompany(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.companies[id]; !ok {
		return database.ErrNotFound
	}
	for jobID, j := range s.jobs {
		if j.CompanyID == id {
			s.deleteJobLocked(jobID)
		}
	}
	delete(s.companies, id)
	return nil
}

func (s *Store) CountCompanies(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.companies)), nil
}

// Jobs ----------------------------------------------------------------------

func (s *Store) CreateJob(_ context.Context, j *models.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	j.ID = s.nextIDLocked()
	s.stampLocked(&j.CreatedAt, &j.UpdatedAt)
	s.jobs[j.ID] = stripJob(*j)
	return nil
}

func stripJob(j models.Job) models.Job {
	j.Company = nil
	j.CreatedBy = nil
	j.Applications = nil
	return j
}

func (s *Store) withCompanyLocked(j models.Job) models.Job {
	if c, ok := s.companies[j.CompanyID]; ok {
		j.Company = &c
	}
	return j
}

func (s *Store) GetJob(_ context.Context, id uint) (*models.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	j, ok := s.jobs[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	j = s.withCompanyLocked(j)
	apps := []models.Application{}
	for _, a := range s.applications {
		if a.JobID == id {
			apps = append(apps, a)
		}
	}
	sortNewest(apps, func(a models.Application) (time.Time, uint) { return a.CreatedAt, a.ID })
	j.Applications = apps
	return &j, nil
}

func (s *Store) SearchJobs(_ context.Context, keyword string) ([]models.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	kw := strings.ToLower(strings.TrimSpace(keyword))
	out := []models.Job{}
	for _, j := range s.jobs {
		if kw == "" ||
			strings.Contains(strings.ToLower(j.Title), kw) ||
			strings.Contains(strings.ToLower(j.Description), kw) {
			out = append(out, s.withCompanyLocked(j))
		}
	}
	sortNewest(out, func(j models.Job) (time.Time, uint) { return j.CreatedAt, j.ID })
	return out, nil
}

func (s *Store) ListJobsByCreator(_ context.Context, userID uint) ([]models.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Job{}
	for _, j := range s.jobs {
		if j.CreatedByID != nil && *j.CreatedByID == userID {
			out = append(out, s.withCompanyLocked(j))
		}
	}
	sortNewest(out, func(j models.Job) (time.Time, uint) { return j.CreatedAt, j.ID })
	return out, nil
}

func (s *Store) UpdateJob(_ context.Context, j *models.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[j.ID]; !ok {
		return database.ErrNotFound
	}
	s.stampLocked(&j.CreatedAt, &j.UpdatedAt)
	s.jobs[j.ID] = stripJob(*j)
	return nil
}

func (s *Store) DeleteJob(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[id]; !ok {
		return database.ErrNotFound
	}
	s.deleteJobLocked(id)
	return nil
}

func (s *Store) deleteJobLocked(id uint) {
	for appID, a := range s.applications {
		if a.JobID == id {
			delete(s.applications, appID)
		}
	}
	delete(s.jobs, id)
}

func (s *Store) CountJobs(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.jobs)), nil
}

// Applications --------------------------------------------------------------

func (s *Store) CreateApplication(_ context.Context, a *models.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.applications {
		if existing.JobID == a.JobID && existing.ApplicantID == a.ApplicantID {
			return database.ErrDuplicate
		}
	}
	if a.Status == "" {
		a.Status = models.StatusPending
	}
	a.ID = s.nextIDLocked()
	s.stampLocked(&a.CreatedAt, &a.UpdatedAt)
	stored := *a
	stored.Job = nil
	stored.Applicant = nil
	s.applications[a.ID] = stored
	return nil
}

func (s *Store) GetApplication(_ context.Context, id uint) (*models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.applications[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	if j, ok := s.jobs[a.JobID]; ok {
		a.Job = &j
	}
	return &a, nil
}

func (s *Store) listApplicationsLocked(match func(models.Application) bool, fill func(*models.Application)) []models.Application {
	out := []models.Application{}
	for _, a := range s.applications {
		if match(a) {
			fill(&a)
			out = append(out, a)
		}
	}
	sortNewest(out, func(a models.Application) (time.Time, uint) { return a.CreatedAt, a.ID })
	return out
}

func (s *Store) ListApplicationsByApplicant(_ context.Context, applicantID uint) ([]models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.listApplicationsLocked(
		func(a models.Application) bool { return a.ApplicantID == applicantID },
		func(a *models.Application) {
			if j, ok := s.jobs[a.JobID]; ok {
				j = s.withCompanyLocked(j)
				a.Job = &j
			}
		},
	), nil
}

func (s *Store) ListApplicationsByJob(_ context.Context, jobID uint) ([]models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.listApplicationsLocked(
		func(a models.Application) bool { return a.JobID == jobID },
		func(a *models.Application) {
			if u, ok := s.users[a.ApplicantID]; ok {
				a.Applicant = &u
			}
		},
	), nil
}

func (s *Store) ListApplications(_ context.Context) ([]models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.listApplicationsLocked(
		func(models.Application) bool { return true },
		func(a *models.Application) {
			if u, ok := s.users[a.ApplicantID]; ok {
				applicant := summary(u)
				applicant.PhoneNumber = u.PhoneNumber
				a.Applicant = applicant
			}
			if j, ok := s.jobs[a.JobID]; ok {
				j = s.withCompanyLocked(j)
				a.Job = &j
			}
		},
	), nil
}

func (s *Store) UpdateApplicationStatus(_ context.Context, id uint, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.applications[id]
	if !ok {
		return database.ErrNotFound
	}
	a.Status = status
	a.UpdatedAt = s.now()
	s.applications[id] = a
	return nil
}

func (s *Store) DeleteApplication(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.applications[id]; !ok {
		return database.ErrNotFound
	}
	delete(s.applications, id)
	return nil
}

func (s *Store) CountApplications(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.applications)), nil
}

// Blogs ---------------------------------------------------------------------

func (s *Store) withAuthorLocked(b models.Blog) models.Blog {
	b.Comments = nil
	if u, ok := s.users[b.AuthorID]; ok {
		b.Author = summary(u)
	}
	return b
}

func (s *Store) CreateBlog(_ context.Context, b *models.Blog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b.ID = s.nextIDLocked()
	s.stampLocked(&b.CreatedAt, &b.UpdatedAt)
	stored := *b
	stored.Author = nil
	stored.Comments = nil
	s.blogs[b.ID] = stored
	return nil
}

func (s *Store) GetBlog(_ context.Context, id uint) (*models.Blog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.blogs[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	b = s.withAuthorLocked(b)
	return &b, nil
}

func blogLess(sortBy string, a, b models.Blog) int {
	switch sortBy {
	case database.BlogSortTitle:
		return strings.Compare(a.Title, b.Title)
	case database.BlogSortUpdatedAt:
		return a.UpdatedAt.Compare(b.UpdatedAt)
	default:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
}

func (s *Store) ListBlogs(_ context.Context, q database.BlogQuery) ([]models.Blog, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]models.Blog, 0, len(s.blogs))
	for _, b := range s.blogs {
		all = append(all, s.withAuthorLocked(b))
	}
	sort.Slice(all, func(i, j int) bool {
		c := blogLess(q.SortBy, all[i], all[j])
		if c == 0 {
			c = int(all[i].ID) - int(all[j].ID)
		}
		if q.Desc {
			return c > 0
		}
		return c < 0
	})
	return page(all, q.Offset, q.Limit), int64(len(all)), nil
}

func page[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}

func (s *Store) ListBlogsByAuthor(_ context.Context, authorID uint) ([]models.Blog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Blog{}
	for _, b := range s.blogs {
		if b.AuthorID == authorID {
			out = append(out, s.withAuthorLocked(b))
		}
	}
	sortNewest(out, func(b models.Blog) (time.Time, uint) { return b.CreatedAt, b.ID })
	return out, nil
}

func (s *Store) UpdateBlog(_ context.Context, b *models.Blog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.blogs[b.ID]; !ok {
		return database.ErrNotFound
	}
	s.stampLocked(&b.CreatedAt, &b.UpdatedAt)
	stored := *b
	stored.Author = nil
	stored.Comments = nil
	s.blogs[b.ID] = stored
	return nil
}

func (s *Store) DeleteBlog(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.blogs[id]; !ok {
		return database.ErrNotFound
	}
	for cid, c := range s.comments {
		if c.BlogID == id {
			delete(s.comments, cid)
		}
	}
	delete(s.blogs, id)
	return nil
}

func (s *Store) CreateComment(_ context.Context, c *models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c.ID = s.nextIDLocked()
	s.stampLocked(&c.CreatedAt, &c.UpdatedAt)
	stored := *c
	stored.Author = nil
	s.comments[c.ID] = stored
	return nil
}

func (s *Store) ListComments(_ context.Context, blogID uint, skip, limit int) ([]models.Comment, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := []models.Comment{}
	for _, c := range s.comments {
		if c.BlogID == blogID {
			if u, ok := s.users[c.AuthorID]; ok {
				c.Author = summary(u)
			}
			all = append(all, c)
		}
	}
	sortNewest(all, func(c models.Comment) (time.Time, uint) { return c.CreatedAt, c.ID })
	return page(all, skip, limit), int64(len(all)), nil
}
