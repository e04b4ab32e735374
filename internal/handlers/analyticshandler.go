package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/job-portal/internal/services"
	"github.com/sirupsen/logrus"
)

// AnalyticsHandler serves both the dashboard charts and the B2B API; the two
// differ only in the guard placed in front of them.
type AnalyticsHandler struct {
	analytics *services.AnalyticsService
	log       logrus.FieldLogger
}

func NewAnalyticsHandler(analytics *services.AnalyticsService, log logrus.FieldLogger) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics, log: log}
}

func respondData[T any](h *AnalyticsHandler, c *gin.Context, f func(context.Context) (T, error)) {
	data, err := f(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": data, "success": true})
}

func (h *AnalyticsHandler) JobMarket(c *gin.Context) {
	respondData(h, c, h.analytics.JobMarket)
}

func (h *AnalyticsHandler) Applications(c *gin.Context) {
	respondData(h, c, h.analytics.Applications)
}

func (h *AnalyticsHandler) ApplicationsByStatus(c *gin.Context) {
	respondData(h, c, h.analytics.ApplicationsByStatus)
}

func (h *AnalyticsHandler) Industry(c *gin.Context) {
	respondData(h, c, h.analytics.Industry)
}

func (h *AnalyticsHandler) TimeTrends(c *gin.Context) {
	period := c.DefaultQuery("period", "month")
	respondData(h, c, func(ctx context.Context) ([]services.TrendPoint, error) {
		return h.analytics.TimeTrends(ctx, period)
	})
}
