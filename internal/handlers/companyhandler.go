package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/job-portal/internal/dtos"
	"github.com/justsurfingit/job-portal/internal/middleware"
	"github.com/justsurfingit/job-portal/internal/services"
	"github.com/sirupsen/logrus"
)

type CompanyHandler struct {
	companies *services.CompanyService
	log       logrus.FieldLogger
}

func NewCompanyHandler(companies *services.CompanyService, log logrus.FieldLogger) *CompanyHandler {
	return &CompanyHandler{companies: companies, log: log}
}

func (h *CompanyHandler) Register(c *gin.Context) {
	var req dtos.CompanyRegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		bindFailed(c, err)
		return
	}
	company, err := h.companies.Register(c.Request.Context(), middleware.Actor(c), req.CompanyName)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Company registered successfully.", "company": company, "success": true})
}

func (h *CompanyHandler) input(c *gin.Context) (services.CompanyInput, bool) {
	var req dtos.CompanyRequest
	if err := c.ShouldBind(&req); err != nil {
		bindFailed(c, err)
		return services.CompanyInput{}, false
	}
	return services.CompanyInput{
		Name:        req.Name,
		Description: req.Description,
		Website:     req.Website,
		Location:    req.Location,
		Industry:    req.Industry,
		Logo:        formFile(c, "file"),
	}, true
}

// Add creates a company with full details and an optional logo.
func (h *CompanyHandler) Add(c *gin.Context) {
	in, ok := h.input(c)
	if !ok {
		return
	}
	company, err := h.companies.Add(c.Request.Context(), middleware.Actor(c), in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Company added successfully.", "company": company, "success": true})
}

// GetMine lists the caller's companies.
func (h *CompanyHandler) GetMine(c *gin.Context) {
	companies, err := h.companies.ListMine(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"companies": companies, "success": true})
}

func (h *CompanyHandler) GetAll(c *gin.Context) {
	companies, err := h.companies.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"companies": companies, "success": true})
}

func (h *CompanyHandler) GetByID(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	company, err := h.companies.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"company": company, "success": true})
}

func (h *CompanyHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	in, ok := h.input(c)
	if !ok {
		return
	}
	company, err := h.companies.Update(c.Request.Context(), middleware.Actor(c), id, in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Company information updated.", "company": company, "success": true})
}

func (h *CompanyHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.companies.Delete(c.Request.Context(), middleware.Actor(c), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Company deleted successfully.", "success": true})
}

func (h *CompanyHandler) Count(c *gin.Context) {
	n, err := h.companies.Count(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": n, "success": true})
}
