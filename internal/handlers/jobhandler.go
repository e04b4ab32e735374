package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/job-portal/internal/dtos"
	"github.com/justsurfingit/job-portal/internal/middleware"
	"github.com/justsurfingit/job-portal/internal/services"
	"github.com/sirupsen/logrus"
)

type JobHandler struct {
	JobService *services.JobService
	log        logrus.FieldLogger
}

func NewJobHandler(j *services.JobService, log logrus.FieldLogger) *JobHandler {
	return &JobHandler{JobService: j, log: log}
}

// ParseJob is the POST /job/extract endpoint. It returns a draft and stores nothing.
func (h *JobHandler) ParseJob(c *gin.Context) {
	var req dtos.JobExtractionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	draft, err := h.JobService.Extract(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": draft, "success": true})
}

// CreateJob is POST /job/post.
func (h *JobHandler) CreateJob(c *gin.Context) {
	var req dtos.JobPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	job, err := h.JobService.Post(c.Request.Context(), middleware.Actor(c), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "New job created successfully.", "job": job, "success": true})
}

func (h *JobHandler) GetAllJobs(c *gin.Context) {
	jobs, err := h.JobService.Search(c.Request.Context(), c.Query("keyword"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": jobs, "success": true})
}

func (h *JobHandler) GetJobByID(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	job, err := h.JobService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"job": job, "success": true})
}

// GetAdminJobs lists the jobs the caller created.
func (h *JobHandler) GetAdminJobs(c *gin.Context) {
	jobs, err := h.JobService.ListByCreator(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": jobs, "success": true})
}

func (h *JobHandler) UpdateJob(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dtos.JobUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	job, err := h.JobService.Update(c.Request.Context(), middleware.Actor(c), id, &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Job updated successfully.", "job": job, "success": true})
}

func (h *JobHandler) DeleteJob(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.JobService.Delete(c.Request.Context(), middleware.Actor(c), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Job deleted successfully.", "success": true})
}

func (h *JobHandler) CountJobs(c *gin.Context) {
	n, err := h.JobService.Count(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": n, "success": true})
}
