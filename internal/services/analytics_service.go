package services

import (
	"context"
	"sort"
	"strconv"

	"github.com/justsurfingit/job-portal/internal/apperr"
	"github.com/justsurfingit/job-portal/internal/database"
	"github.com/justsurfingit/job-portal/internal/models"
)

const (
	topRequirements        = 15
	minJobsForSalaryByRole = 3
)

type JobMarketStats struct {
	ByJobType         []models.Bucket `json:"byJobType"`
	ByExperienceLevel []models.Bucket `json:"byExperienceLevel"`
	ByLocation        []models.Bucket `json:"byLocation"`
	BySalaryRange     []models.Bucket `json:"bySalaryRange"`
}

type ApplicationStats struct {
	Weekly        []models.Bucket `json:"weekly"`
	ByStatus      []models.Bucket `json:"byStatus"`
	Total         int64           `json:"total"`
	AveragePerJob float64         `json:"averagePerJob"`
}

type IndustryStats struct {
	TopRequirements  []models.Bucket         `json:"topRequirements"`
	ByIndustry       []models.Bucket         `json:"byIndustry"`
	SalaryByPosition []models.PositionSalary `json:"salaryByPosition"`
}

type TrendPoint struct {
	Period          string `json:"period"`
	Jobs            int64  `json:"jobs"`
	Applications    int64  `json:"applications"`
	ConversionRatio string `json:"conversionRatio"`
}

// AnalyticsService runs read-only aggregations for the dashboard and B2B clients.
type AnalyticsService struct {
	store database.AnalyticsRepository
	jobs  database.JobRepository
}

func NewAnalyticsService(store database.Store) *AnalyticsService {
	return &AnalyticsService{store: store, jobs: store}
}

func (s *AnalyticsService) JobMarket(ctx context.Context) (*JobMarketStats, error) {
	var out JobMarketStats
	var err error
	if out.ByJobType, err = s.store.CountJobsBy(ctx, database.DimJobType); err != nil {
		return nil, apperr.Internal("failed to aggregate job types", err)
	}
	if out.ByExperienceLevel, err = s.store.CountJobsBy(ctx, database.DimExperienceLevel); err != nil {
		return nil, apperr.Internal("failed to aggregate experience levels", err)
	}
	if out.ByLocation, err = s.store.CountJobsBy(ctx, database.DimLocation); err != nil {
		return nil, apperr.Internal("failed to aggregate locations", err)
	}
	if out.BySalaryRange, err = s.store.CountJobsBySalaryRange(ctx); err != nil {
		return nil, apperr.Internal("failed to aggregate salaries", err)
	}
	sortSalaryBuckets(out.BySalaryRange)
	return &out, nil
}

// sortSalaryBuckets orders buckets the way models.SalaryRanges lists them.
func sortSalaryBuckets(b []models.Bucket) {
	rank := make(map[string]int, len(models.SalaryRanges))
	for i, r := range models.SalaryRanges {
		rank[r.Label] = i
	}
	sort.SliceStable(b, func(i, j int) bool { return rank[b[i].Key] < rank[b[j].Key] })
}

func (s *AnalyticsService) Applications(ctx context.Context) (*ApplicationStats, error) {
	var out ApplicationStats
	var err error
	if out.Weekly, err = s.store.CountApplicationsByPeriod(ctx, database.PeriodWeek); err != nil {
		return nil, apperr.Internal("failed to aggregate applications", err)
	}
	if out.ByStatus, err = s.ApplicationsByStatus(ctx); err != nil {
		return nil, err
	}
	for _, b := range out.ByStatus {
		out.Total += b.Count
	}
	jobs, err := s.jobs.CountJobs(ctx)
	if err != nil {
		return nil, apperr.Internal("failed to count jobs", err)
	}
	if jobs > 0 {
		out.AveragePerJob = roundTo(float64(out.Total)/float64(jobs), 2)
	}
	return &out, nil
}

// ApplicationsByStatus returns the status distribution; the counts sum to the
// number of stored applications.
func (s *AnalyticsService) ApplicationsByStatus(ctx context.Context) ([]models.Bucket, error) {
	out, err := s.store.CountApplicationsByStatus(ctx)
	if err != nil {
		return nil, apperr.Internal("failed to aggregate statuses", err)
	}
	return out, nil
}

func (s *AnalyticsService) Industry(ctx context.Context) (*IndustryStats, error) {
	var out IndustryStats
	var err error
	if out.TopRequirements, err = s.store.TopRequirements(ctx, topRequirements); err != nil {
		return nil, apperr.Internal("failed to aggregate requirements", err)
	}
	if out.ByIndustry, err = s.store.CountJobsByIndustry(ctx); err != nil {
		return nil, apperr.Internal("failed to aggregate industries", err)
	}
	if out.SalaryByPosition, err = s.store.AverageSalaryByPosition(ctx, minJobsForSalaryByRole); err != nil {
		return nil, apperr.Internal("failed to aggregate salaries", err)
	}
	for i := range out.SalaryByPosition {
		out.SalaryByPosition[i].AverageSalary = roundTo(out.SalaryByPosition[i].AverageSalary, 2)
	}
	return &out, nil
}

// TimeTrends joins job and application counts per period, ascending.
func (s *AnalyticsService) TimeTrends(ctx context.Context, period string) ([]TrendPoint, error) {
	p := database.Period(period)
	if period == "" {
		p = database.PeriodMonth
	}
	if !database.ValidPeriod(p) {
		return nil, apperr.Validation("Invalid period. Use day, week or month.")
	}

	jobs, err := s.store.CountJobsByPeriod(ctx, p)
	if err != nil {
		return nil, apperr.Internal("failed to aggregate jobs", err)
	}
	apps, err := s.store.CountApplicationsByPeriod(ctx, p)
	if err != nil {
		return nil, apperr.Internal("failed to aggregate applications", err)
	}

	points := map[string]*TrendPoint{}
	get := func(key string) *TrendPoint {
		tp, ok := points[key]
		if !ok {
			tp = &TrendPoint{Period: key}
			points[key] = tp
		}
		return tp
	}
	for _, b := range jobs {
		get(b.Key).Jobs = b.Count
	}
	for _, b := range apps {
		get(b.Key).Applications = b.Count
	}

	out := make([]TrendPoint, 0, len(points))
	for _, tp := range points {
		tp.ConversionRatio = conversionRatio(tp.Applications, tp.Jobs)
		out = append(out, *tp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Period < out[j].Period })
	return out, nil
}

func conversionRatio(applications, jobs int64) string {
	if jobs == 0 {
		return "0"
	}
	return strconv.FormatFloat(float64(applications)/float64(jobs), 'f', 2, 64)
}

func roundTo(v float64, places int) float64 {
	f, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', places, 64), 64)
	return f
}
