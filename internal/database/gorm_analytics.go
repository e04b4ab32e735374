package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/justsurfingit/job-portal/internal/models"
)

var periodExpr = map[Period]string{
	PeriodDay:   `to_char(created_at, 'YYYY-MM-DD')`,
	PeriodWeek:  `to_char(date_trunc('week', created_at), 'IYYY-"W"IW')`,
	PeriodMonth: `to_char(created_at, 'YYYY-MM')`,
}

// salaryRangeExpr renders models.SalaryRanges as a CASE expression over salary_value.
func salaryRangeExpr() string {
	var b strings.Builder
	b.WriteString("CASE")
	for _, r := range models.SalaryRanges {
		if r.Max == 0 {
			fmt.Fprintf(&b, " ELSE '%s'", r.Label)
			continue
		}
		fmt.Fprintf(&b, " WHEN salary_value < %.0f THEN '%s'", r.Max, r.Label)
	}
	b.WriteString(" END")
	return b.String()
}

func (s *GormStore) CountJobsBy(ctx context.Context, dim JobDimension) ([]models.Bucket, error) {
	if !ValidDimension(dim) {
		return nil, fmt.Errorf("unknown job dimension %q", dim)
	}
	col := string(dim)
	var out []models.Bucket
	err := s.db.WithContext(ctx).Model(&models.Job{}).
		Select(col + "::text AS key, count(*) AS count").
		Group(col).
		Order("count DESC, key").
		Scan(&out).Error
	return out, translate(err)
}

func (s *GormStore) CountJobsBySalaryRange(ctx context.Context) ([]models.Bucket, error) {
	var out []models.Bucket
	err := s.db.WithContext(ctx).Model(&models.Job{}).
		Select(salaryRangeExpr() + " AS key, count(*) AS count").
		Where("salary_value IS NOT NULL").
		Group("key").
		Scan(&out).Error
	return out, translate(err)
}

func (s *GormStore) CountApplicationsByStatus(ctx context.Context) ([]models.Bucket, error) {
	var out []models.Bucket
	err := s.db.WithContext(ctx).Model(&models.Application{}).
		Select("status AS key, count(*) AS count").
		Group("status").
		Order("key").
		Scan(&out).Error
	return out, translate(err)
}

func (s *GormStore) countByPeriod(ctx context.Context, model any, p Period) ([]models.Bucket, error) {
	expr, ok := periodExpr[p]
	if !ok {
		return nil, fmt.Errorf("unknown period %q", p)
	}
	var out []models.Bucket
	err := s.db.WithContext(ctx).Model(model).
		Select(expr + " AS key, count(*) AS count").
		Group("key").
		Order("key").
		Scan(&out).Error
	return out, translate(err)
}

func (s *GormStore) CountApplicationsByPeriod(ctx context.Context, p Period) ([]models.Bucket, error) {
	return s.countByPeriod(ctx, &models.Application{}, p)
}

func (s *GormStore) CountJobsByPeriod(ctx context.Context, p Period) ([]models.Bucket, error) {
	return s.countByPeriod(ctx, &models.Job{}, p)
}

func (s *GormStore) TopRequirements(ctx context.Context, limit int) ([]models.Bucket, error) {
	var out []models.Bucket
	err := s.db.WithContext(ctx).Raw(
		`SELECT r AS key, count(*) AS count
		 FROM jobs, unnest(requirements) AS r
		 GROUP BY r
		 ORDER BY count DESC, key
		 LIMIT ?`, limit).
		Scan(&out).Error
	return out, translate(err)
}

func (s *GormStore) CountJobsByIndustry(ctx context.Context) ([]models.Bucket, error) {
	var out []models.Bucket
	err := s.db.WithContext(ctx).Table("jobs").
		Select("COALESCE(NULLIF(companies.industry, ''), ?) AS key, count(jobs.id) AS count", UnspecifiedIndustry).
		Joins("JOIN companies ON companies.id = jobs.company_id").
		Group("key").
		Order("count DESC, key").
		Scan(&out).Error
	return out, translate(err)
}

func (s *GormStore) AverageSalaryByPosition(ctx context.Context, minJobs int) ([]models.PositionSalary, error) {
	var out []models.PositionSalary
	err := s.db.WithContext(ctx).Model(&models.Job{}).
		Select("position, avg(salary_value) AS average_salary, count(*) AS jobs").
		Where("salary_value IS NOT NULL").
		Group("position").
		Having("count(*) > ?", minJobs).
		Order("position").
		Scan(&out).Error
	return out, translate(err)
}
