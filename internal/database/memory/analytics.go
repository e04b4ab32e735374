package memory

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/justsurfingit/job-portal/internal/database"
	"github.com/justsurfingit/job-portal/internal/models"
)

type counter map[string]int64

func (c counter) byCount() []models.Bucket {
	out := c.byKey()
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

func (c counter) byKey() []models.Bucket {
	out := make([]models.Bucket, 0, len(c))
	for k, n := range c {
		out = append(out, models.Bucket{Key: k, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

func periodKey(t time.Time, p database.Period) string {
	if p == database.PeriodWeek {
		y, w := t.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", y, w)
	}
	return t.Format(database.PeriodKeyLayout(p))
}

func (s *Store) CountJobsBy(_ context.Context, dim database.JobDimension) ([]models.Bucket, error) {
	if !database.ValidDimension(dim) {
		return nil, fmt.Errorf("unknown job dimension %q", dim)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	c := counter{}
	for _, j := range s.jobs {
		switch dim {
		case database.DimJobType:
			c[j.JobType]++
		case database.DimExperienceLevel:
			c[strconv.Itoa(j.ExperienceLevel)]++
		case database.DimLocation:
			c[j.Location]++
		}
	}
	return c.byCount(), nil
}

func (s *Store) CountJobsBySalaryRange(_ context.Context) ([]models.Bucket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c := counter{}
	for _, j := range s.jobs {
		if j.SalaryValue != nil {
			c[models.SalaryRangeLabel(*j.SalaryValue)]++
		}
	}
	out := []models.Bucket{}
	for _, r := range models.SalaryRanges {
		if n, ok := c[r.Label]; ok {
			out = append(out, models.Bucket{Key: r.Label, Count: n})
		}
	}
	return out, nil
}

func (s *Store) CountApplicationsByStatus(_ context.Context) ([]models.Bucket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c := counter{}
	for _, a := range s.applications {
		c[a.Status]++
	}
	return c.byKey(), nil
}

func (s *Store) CountApplicationsByPeriod(_ context.Context, p database.Period) ([]models.Bucket, error) {
	if !database.ValidPeriod(p) {
		return nil, fmt.Errorf("unknown period %q", p)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	c := counter{}
	for _, a := range s.applications {
		c[periodKey(a.CreatedAt, p)]++
	}
	return c.byKey(), nil
}

func (s *Store) CountJobsByPeriod(_ context.Context, p database.Period) ([]models.Bucket, error) {
	if !database.ValidPeriod(p) {
		return nil, fmt.Errorf("unknown period %q", p)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	c := counter{}
	for _, j := range s.jobs {
		c[periodKey(j.CreatedAt, p)]++
	}
	return c.byKey(), nil
}

func (s *Store) TopRequirements(_ context.Context, limit int) ([]models.Bucket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c := counter{}
	for _, j := range s.jobs {
		for _, r := range j.Requirements {
			c[r]++
		}
	}
	out := c.byCount()
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) CountJobsByIndustry(_ context.Context) ([]models.Bucket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c := counter{}
	for _, j := range s.jobs {
		company, ok := s.companies[j.CompanyID]
		if !ok {
			continue
		}
		industry := company.Industry
		if industry == "" {
			industry = database.UnspecifiedIndustry
		}
		c[industry]++
	}
	return c.byCount(), nil
}

func (s *Store) AverageSalaryByPosition(_ context.Context, minJobs int) ([]models.PositionSalary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	type acc struct {
		sum float64
		n   int64
	}
	byPosition := map[int]*acc{}
	for _, j := range s.jobs {
		if j.SalaryValue == nil {
			continue
		}
		a, ok := byPosition[j.Position]
		if !ok {
			a = &acc{}
			byPosition[j.Position] = a
		}
		a.sum += *j.SalaryValue
		a.n++
	}

	out := []models.PositionSalary{}
	for pos, a := range byPosition {
		if a.n > int64(minJobs) {
			out = append(out, models.PositionSalary{Position: pos, AverageSalary: a.sum / float64(a.n), Jobs: a.n})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}
