package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/job-portal/internal/dtos"
	"github.com/justsurfingit/job-portal/internal/middleware"
	"github.com/justsurfingit/job-portal/internal/models"
	"github.com/justsurfingit/job-portal/internal/services"
	"github.com/sirupsen/logrus"
)

// CookieConfig controls the session cookie. Its lifetime is independent of the token's.
type CookieConfig struct {
	MaxAge time.Duration
	Secure bool
}

type UserHandler struct {
	users   *services.UserService
	reports *services.ReportService
	cookie  CookieConfig
	log     logrus.FieldLogger
}

func NewUserHandler(users *services.UserService, reports *services.ReportService, cookie CookieConfig, log logrus.FieldLogger) *UserHandler {
	return &UserHandler{users: users, reports: reports, cookie: cookie, log: log}
}

func (h *UserHandler) setSession(c *gin.Context, token string, maxAge int) {
	if h.cookie.Secure {
		c.SetSameSite(http.SameSiteNoneMode)
	} else {
		c.SetSameSite(http.SameSiteLaxMode)
	}
	c.SetCookie(middleware.CookieName, token, maxAge, "/", "", h.cookie.Secure, true)
}

func (h *UserHandler) newUser(c *gin.Context) (services.NewUser, bool) {
	var req dtos.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		bindFailed(c, err)
		return services.NewUser{}, false
	}
	profile, err := req.ProfileFields.Parse()
	if err != nil {
		respondError(c, h.log, err)
		return services.NewUser{}, false
	}
	return services.NewUser{
		Fullname:    req.Fullname,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Password:    req.Password,
		Role:        req.Role,
		Profile:     profile,
		Avatar:      formFile(c, "file"),
	}, true
}

func (h *UserHandler) Register(c *gin.Context) {
	in, ok := h.newUser(c)
	if !ok {
		return
	}
	if _, err := h.users.Register(c.Request.Context(), in); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Account created successfully.", "success": true})
}

func (h *UserHandler) Login(c *gin.Context) {
	var req dtos.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		bindFailed(c, err)
		return
	}
	user, token, err := h.users.Login(c.Request.Context(), req.Email, req.Password, req.Role)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	h.setSession(c, token, int(h.cookie.MaxAge.Seconds()))
	c.JSON(http.StatusOK, gin.H{
		"message": "Welcome back " + user.Fullname,
		"user":    user,
		"success": true,
	})
}

func (h *UserHandler) Logout(c *gin.Context) {
	h.setSession(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully.", "success": true})
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req dtos.UpdateProfileRequest
	if err := c.ShouldBind(&req); err != nil {
		bindFailed(c, err)
		return
	}
	records, err := req.ProfileFields.Parse()
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	user, err := h.users.UpdateProfile(c.Request.Context(), middleware.UserID(c), services.ProfileUpdate{
		Fullname:    req.Fullname,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Bio:         req.Bio,
		Skills:      req.Skills.Strings(),
		Records:     records,
		Resume:      formFile(c, "resume"),
		Photo:       formFile(c, "profilePhoto"),
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully.", "user": user, "success": true})
}

// Report sends the caller's application report as a PDF attachment.
func (h *UserHandler) Report(c *gin.Context) {
	report, err := h.reports.UserReport(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+report.Filename+`"`)
	c.Header("Content-Length", strconv.Itoa(len(report.Content)))
	c.Data(http.StatusOK, "application/pdf", report.Content)
}

func (h *UserHandler) listByRole(role, key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		users, err := h.users.ListByRole(c.Request.Context(), role)
		if err != nil {
			respondError(c, h.log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{key: users, "success": true})
	}
}

func (h *UserHandler) deleteByRole(role, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c, "id")
		if !ok {
			return
		}
		if err := h.users.DeleteByRole(c.Request.Context(), id, role); err != nil {
			respondError(c, h.log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": message, "success": true})
	}
}

func (h *UserHandler) createWithRole(role, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		in, ok := h.newUser(c)
		if !ok {
			return
		}
		user, err := h.users.CreateByAdmin(c.Request.Context(), in, role)
		if err != nil {
			respondError(c, h.log, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": message, "user": user, "success": true})
	}
}

func (h *UserHandler) ListRecruiters() gin.HandlerFunc {
	return h.listByRole(models.RoleRecruiter, "recruiters")
}

func (h *UserHandler) ListStudents() gin.HandlerFunc {
	return h.listByRole(models.RoleStudent, "students")
}

func (h *UserHandler) DeleteRecruiter() gin.HandlerFunc {
	return h.deleteByRole(models.RoleRecruiter, "Recruiter deleted successfully.")
}

func (h *UserHandler) DeleteStudent() gin.HandlerFunc {
	return h.deleteByRole(models.RoleStudent, "Student deleted successfully.")
}

func (h *UserHandler) CreateRecruiter() gin.HandlerFunc {
	return h.createWithRole(models.RoleRecruiter, "Recruiter created successfully.")
}

func (h *UserHandler) CreateStudent() gin.HandlerFunc {
	return h.createWithRole(models.RoleStudent, "Applicant created successfully.")
}

// Count returns the number of users per role.
func (h *UserHandler) Count(c *gin.Context) {
	out := gin.H{"success": true}
	for _, role := range []string{models.RoleStudent, models.RoleRecruiter} {
		n, err := h.users.CountByRole(c.Request.Context(), role)
		if err != nil {
			respondError(c, h.log, err)
			return
		}
		out[role+"s"] = n
	}
	c.JSON(http.StatusOK, out)
}
