package services

import (
	"context"
	"testing"
	"time"

	"github.com/justsurfingit/job-portal/internal/apperr"
	"github.com/justsurfingit/job-portal/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversionRatio(t *testing.T) {
	assert.Equal(t, "0", conversionRatio(5, 0))
	assert.Equal(t, "0.00", conversionRatio(0, 3))
	assert.Equal(t, "1.50", conversionRatio(3, 2))
	assert.Equal(t, "0.33", conversionRatio(1, 3))
}

func TestApplicationStatsSumToTotal(t *testing.T) {
	ctx := context.Background()
	w := newAppWorld(t)
	second, err := w.jobs.Post(ctx, w.rita, postRequest(w.acme.ID, "SRE"))
	require.NoError(t, err)
	ola := w.user(t, "ola@uni.edu", models.RoleStudent)

	a1, err := w.apps.Apply(ctx, w.sam.ID, w.job.ID)
	require.NoError(t, err)
	_, err = w.apps.Apply(ctx, w.sam.ID, second.ID)
	require.NoError(t, err)
	_, err = w.apps.Apply(ctx, ola.ID, w.job.ID)
	require.NoError(t, err)
	_, err = w.apps.Decide(ctx, w.rita, a1.ID, "accepted")
	require.NoError(t, err)

	stats, err := w.analytics.Applications(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, stats.Total)
	assert.Equal(t, 1.5, stats.AveragePerJob)

	var sum int64
	for _, b := range stats.ByStatus {
		sum += b.Count
	}
	total, err := w.apps.Total(ctx)
	require.NoError(t, err)
	assert.Equal(t, total, sum)
	assert.Equal(t, []models.Bucket{{Key: "accepted", Count: 1}, {Key: "pending", Count: 2}}, stats.ByStatus)
}

func TestTimeTrends(t *testing.T) {
	ctx := context.Background()
	w := newAppWorld(t)
	w.store.SetClock(func() time.Time { return time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC) })
	_, err := w.apps.Apply(ctx, w.sam.ID, w.job.ID)
	require.NoError(t, err)

	_, err = w.analytics.TimeTrends(ctx, "year")
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	points, err := w.analytics.TimeTrends(ctx, "")
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, "2024-03", points[0].Period)
	assert.EqualValues(t, 0, points[0].Jobs)
	assert.EqualValues(t, 1, points[0].Applications)
	assert.Equal(t, "0", points[0].ConversionRatio)
	assert.EqualValues(t, 1, points[1].Jobs)
	assert.Equal(t, "0.00", points[1].ConversionRatio)
	assert.Less(t, points[0].Period, points[1].Period)
}

func TestJobMarketAndIndustry(t *testing.T) {
	ctx := context.Background()
	w := newAppWorld(t)
	for i := 0; i < 3; i++ {
		req := postRequest(w.acme.ID, "Backend")
		req.Salary = "60k"
		_, err := w.jobs.Post(ctx, w.rita, req)
		require.NoError(t, err)
	}

	market, err := w.analytics.JobMarket(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Bucket{{Key: "Full-time", Count: 4}}, market.ByJobType)
	require.NotEmpty(t, market.BySalaryRange)
	assert.Equal(t, "50k-75k", market.BySalaryRange[0].Key)

	industry, err := w.analytics.Industry(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Bucket{{Key: "Go", Count: 4}, {Key: "PostgreSQL", Count: 4}}, industry.TopRequirements)
	require.Len(t, industry.SalaryByPosition, 1)
	got := industry.SalaryByPosition[0]
	assert.Equal(t, 2, got.Position)
	assert.EqualValues(t, 4, got.Jobs)
	assert.Equal(t, 75000.0, got.AverageSalary)
}
