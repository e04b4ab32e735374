package services

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/justsurfingit/job-portal/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserReport(t *testing.T) {
	ctx := context.Background()
	w := newAppWorld(t)
	w.reports.now = func() time.Time { return time.Date(2025, 1, 2, 3, 4, 0, 0, time.UTC) }

	empty, err := w.reports.UserReport(ctx, w.sam.ID)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(empty.Content, []byte("%PDF")))

	app, err := w.apps.Apply(ctx, w.sam.ID, w.job.ID)
	require.NoError(t, err)
	_, err = w.apps.Decide(ctx, w.rita, app.ID, "rejected")
	require.NoError(t, err)

	report, err := w.reports.UserReport(ctx, w.sam.ID)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("application-report-%d.pdf", w.sam.ID), report.Filename)
	assert.True(t, bytes.HasPrefix(report.Content, []byte("%PDF")))
	assert.Greater(t, len(report.Content), len(empty.Content))

	_, err = w.reports.UserReport(ctx, 999)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "żółwżó...", truncate("żółwżółwżółw", 9))
}
