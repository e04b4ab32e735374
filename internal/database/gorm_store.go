package database

import (
	"context"
	"errors"
	"strings"

	"github.com/justsurfingit/job-portal/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore implements Store on top of gorm.
type GormStore struct {
	db *gorm.DB
}

var _ Store = (*GormStore)(nil)

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	}
	return err
}

func rowsOrNotFound(tx *gorm.DB) error {
	if tx.Error != nil {
		return translate(tx.Error)
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func newestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC").Order("id DESC")
}

func authorSummary(db *gorm.DB) *gorm.DB {
	return db.Select("id", "fullname", "email")
}

// likePattern escapes LIKE metacharacters so keyword is matched literally.
func likePattern(keyword string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(keyword) + "%"
}

// Users ---------------------------------------------------------------------

func (s *GormStore) CreateUser(ctx context.Context, u *models.User) error {
	return translate(s.db.WithContext(ctx).Create(u).Error)
}

func (s *GormStore) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *GormStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *GormStore) UpdateUser(ctx context.Context, u *models.User) error {
	return translate(s.db.WithContext(ctx).Omit(clause.Associations).Save(u).Error)
}

func (s *GormStore) DeleteUser(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("applicant_id = ?", id).Delete(&models.Application{}).Error; err != nil {
			return err
		}
		return rowsOrNotFound(tx.Delete(&models.User{}, id))
	})
}

func (s *GormStore) ListUsersByRole(ctx context.Context, role string) ([]models.User, error) {
	var users []models.User
	err := newestFirst(s.db.WithContext(ctx)).Where("role = ?", role).Find(&users).Error
	return users, translate(err)
}

func (s *GormStore) CountUsersByRole(ctx context.Context, role string) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.User{}).Where("role = ?", role).Count(&n).Error
	return n, translate(err)
}

// Companies -----------------------------------------------------------------

func (s *GormStore) CreateCompany(ctx context.Context, c *models.Company) error {
	return translate(s.db.WithContext(ctx).Omit(clause.Associations).Create(c).Error)
}

func (s *GormStore) GetCompany(ctx context.Context, id uint) (*models.Company, error) {
	var c models.Company
	if err := s.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (s *GormStore) GetCompanyByName(ctx context.Context, name string) (*models.Company, error) {
	var c models.Company
	if err := s.db.WithContext(ctx).Where("name = ?", name).First(&c).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (s *GormStore) ListCompaniesByOwner(ctx context.Context, ownerID uint) ([]models.Company, error) {
	var out []models.Company
	err := newestFirst(s.db.WithContext(ctx)).Where("user_id = ?", ownerID).Find(&out).Error
	return out, translate(err)
}

func (s *GormStore) ListCompanies(ctx context.Context) ([]models.Company, error) {
	var out []models.Company
	err := newestFirst(s.db.WithContext(ctx)).Preload("User", authorSummary).Find(&out).Error
	return out, translate(err)
}

func (s *GormStore) UpdateCompany(ctx context.Context, c *models.Company) error {
	return translate(s.db.WithContext(ctx).Omit(clause.Associations).Save(c).Error)
}

func (s *GormStore) DeleteCompany(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		jobIDs := tx.Model(&models.Job{}).Select("id").Where("company_id = ?", id)
		if err := tx.Where("job_id IN (?)", jobIDs).Delete(&models.Application{}).Error; err != nil {
			return err
		}
		if err := tx.Where("company_id = ?", id).Delete(&models.Job{}).Error; err != nil {
			return err
		}
		return rowsOrNotFound(tx.Delete(&models.Company{}, id))
	})
}

func (s *GormStore) CountCompanies(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Company{}).Count(&n).Error
	return n, translate(err)
}

// Jobs ----------------------------------------------------------------------

func (s *GormStore) CreateJob(ctx context.Context, j *models.Job) error {
	return translate(s.db.WithContext(ctx).Omit(clause.Associations).Create(j).Error)
}

func (s *GormStore) GetJob(ctx context.Context, id uint) (*models.Job, error) {
	var j models.Job
	err := s.db.WithContext(ctx).
		Preload("Company").
		Preload("Applications", newestFirst).
		First(&j, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &j, nil
}

func (s *GormStore) SearchJobs(ctx context.Context, keyword string) ([]models.Job, error) {
	q := newestFirst(s.db.WithContext(ctx)).Preload("Company")
	if kw := strings.TrimSpace(keyword); kw != "" {
		p := likePattern(kw)
		q = q.Where("title ILIKE ? OR description ILIKE ?", p, p)
	}
	var out []models.Job
	return out, translate(q.Find(&out).Error)
}

func (s *GormStore) ListJobsByCreator(ctx context.Context, userID uint) ([]models.Job, error) {
	var out []models.Job
	err := newestFirst(s.db.WithContext(ctx)).Preload("Company").Where("created_by_id = ?", userID).Find(&out).Error
	return out, translate(err)
}

func (s *GormStore) UpdateJob(ctx context.Context, j *models.Job) error {
	return translate(s.db.WithContext(ctx).Omit(clause.Associations).Save(j).Error)
}

func (s *GormStore) DeleteJob(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("job_id = ?", id).Delete(&models.Application{}).Error; err != nil {
			return err
		}
		return rowsOrNotFound(tx.Delete(&models.Job{}, id))
	})
}

func (s *GormStore) CountJobs(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Job{}).Count(&n).Error
	return n, translate(err)
}

// Applications --------------------------------------------------------------

func (s *GormStore) CreateApplication(ctx context.Context, a *models.Application) error {
	return translate(s.db.WithContext(ctx).Omit(clause.Associations).Create(a).Error)
}

func (s *GormStore) GetApplication(ctx context.Context, id uint) (*models.Application, error) {
	var a models.Application
	if err := s.db.WithContext(ctx).Preload("Job").First(&a, id).Error; err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (s *GormStore) ListApplicationsByApplicant(ctx context.Context, applicantID uint) ([]models.Application, error) {
	var out []models.Application
	err := newestFirst(s.db.WithContext(ctx)).
		Preload("Job.Company").
		Where("applicant_id = ?", applicantID).
		Find(&out).Error
	return out, translate(err)
}

func (s *GormStore) ListApplicationsByJob(ctx context.Context, jobID uint) ([]models.Application, error) {
	var out []models.Application
	err := newestFirst(s.db.WithContext(ctx)).Preload("Applicant").Where("job_id = ?", jobID).Find(&out).Error
	return out, translate(err)
}

func (s *GormStore) ListApplications(ctx context.Context) ([]models.Application, error) {
	var out []models.Application
	err := newestFirst(s.db.WithContext(ctx)).
		Preload("Applicant", func(db *gorm.DB) *gorm.DB { return db.Select("id", "fullname", "email", "phone_number") }).
		Preload("Job.Company").
		Find(&out).Error
	return out, translate(err)
}

func (s *GormStore) UpdateApplicationStatus(ctx context.Context, id uint, status string) error {
	return rowsOrNotFound(s.db.WithContext(ctx).Model(&models.Application{}).Where("id = ?", id).Update("status", status))
}

func (s *GormStore) DeleteApplication(ctx context.Context, id uint) error {
	return rowsOrNotFound(s.db.WithContext(ctx).Delete(&models.Application{}, id))
}

func (s *GormStore) CountApplications(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Application{}).Count(&n).Error
	return n, translate(err)
}

// Blogs ---------------------------------------------------------------------

func (s *GormStore) CreateBlog(ctx context.Context, b *models.Blog) error {
	return translate(s.db.WithContext(ctx).Omit(clause.Associations).Create(b).Error)
}

func (s *GormStore) GetBlog(ctx context.Context, id uint) (*models.Blog, error) {
	var b models.Blog
	if err := s.db.WithContext(ctx).Preload("Author", authorSummary).First(&b, id).Error; err != nil {
		return nil, translate(err)
	}
	return &b, nil
}

func (s *GormStore) ListBlogs(ctx context.Context, q BlogQuery) ([]models.Blog, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Blog{}).Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}
	var out []models.Blog
	err := s.db.WithContext(ctx).
		Preload("Author", authorSummary).
		Order(clause.OrderByColumn{Column: clause.Column{Name: q.SortBy}, Desc: q.Desc}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: q.Desc}).
		Offset(q.Offset).
		Limit(q.Limit).
		Find(&out).Error
	return out, total, translate(err)
}

func (s *GormStore) ListBlogsByAuthor(ctx context.Context, authorID uint) ([]models.Blog, error) {
	var out []models.Blog
	err := newestFirst(s.db.WithContext(ctx)).Preload("Author", authorSummary).Where("author_id = ?", authorID).Find(&out).Error
	return out, translate(err)
}

func (s *GormStore) UpdateBlog(ctx context.Context, b *models.Blog) error {
	return translate(s.db.WithContext(ctx).Omit(clause.Associations).Save(b).Error)
}

func (s *GormStore) DeleteBlog(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("blog_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return rowsOrNotFound(tx.Delete(&models.Blog{}, id))
	})
}

func (s *GormStore) CreateComment(ctx context.Context, c *models.Comment) error {
	return translate(s.db.WithContext(ctx).Omit(clause.Associations).Create(c).Error)
}

func (s *GormStore) ListComments(ctx context.Context, blogID uint, skip, limit int) ([]models.Comment, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Comment{}).Where("blog_id = ?", blogID).Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}
	var out []models.Comment
	err := newestFirst(s.db.WithContext(ctx)).
		Preload("Author", authorSummary).
		Where("blog_id = ?", blogID).
		Offset(skip).
		Limit(limit).
		Find(&out).Error
	return out, total, translate(err)
}
