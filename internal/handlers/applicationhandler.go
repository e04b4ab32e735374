package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/job-portal/internal/dtos"
	"github.com/justsurfingit/job-portal/internal/middleware"
	"github.com/justsurfingit/job-portal/internal/models"
	"github.com/justsurfingit/job-portal/internal/policy"
	"github.com/justsurfingit/job-portal/internal/services"
	"github.com/sirupsen/logrus"
)

type ApplicationHandler struct {
	apps *services.ApplicationService
	log  logrus.FieldLogger
}

func NewApplicationHandler(apps *services.ApplicationService, log logrus.FieldLogger) *ApplicationHandler {
	return &ApplicationHandler{apps: apps, log: log}
}

func (h *ApplicationHandler) Apply(c *gin.Context) {
	jobID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if _, err := h.apps.Apply(c.Request.Context(), middleware.UserID(c), jobID); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Job applied successfully.", "success": true})
}

func (h *ApplicationHandler) GetAppliedJobs(c *gin.Context) {
	apps, err := h.apps.AppliedJobs(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"application": apps, "success": true})
}

func (h *ApplicationHandler) GetApplicants(c *gin.Context) {
	jobID, ok := pathID(c, "id")
	if !ok {
		return
	}
	job, err := h.apps.Applicants(c.Request.Context(), jobID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"job": job, "success": true})
}

func (h *ApplicationHandler) GetAll(c *gin.Context) {
	apps, err := h.apps.All(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"applications": apps, "success": true})
}

func (h *ApplicationHandler) CompanyCounts(c *gin.Context) {
	counts, err := h.apps.CountsByCompany(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": counts, "success": true})
}

func (h *ApplicationHandler) status(update func(*gin.Context, policy.Actor, uint, string) (*models.Application, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		var req dtos.StatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			bindFailed(c, err)
			return
		}
		app, err := update(c, middleware.Actor(c), id, req.Status)
		if err != nil {
			respondError(c, h.log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Status updated successfully.", "application": app, "success": true})
	}
}

// UpdateStatus accepts any known status.
func (h *ApplicationHandler) UpdateStatus() gin.HandlerFunc {
	return h.status(func(c *gin.Context, a policy.Actor, id uint, s string) (*models.Application, error) {
		return h.apps.UpdateStatus(c.Request.Context(), a, id, s)
	})
}

// Decide is the recruiter accept/reject endpoint.
func (h *ApplicationHandler) Decide() gin.HandlerFunc {
	return h.status(func(c *gin.Context, a policy.Actor, id uint, s string) (*models.Application, error) {
		return h.apps.Decide(c.Request.Context(), a, id, s)
	})
}

func (h *ApplicationHandler) Withdraw(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.apps.Withdraw(c.Request.Context(), middleware.UserID(c), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Application withdrawn successfully.", "success": true})
}

func (h *ApplicationHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.apps.Delete(c.Request.Context(), middleware.Actor(c), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Application deleted successfully.", "success": true})
}

func (h *ApplicationHandler) Total(c *gin.Context) {
	n, err := h.apps.Total(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"total": n, "success": true})
}

func (h *ApplicationHandler) RecruiterCount(c *gin.Context) {
	n, err := h.apps.RecruiterCount(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": n, "success": true})
}
