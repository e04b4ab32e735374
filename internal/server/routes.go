package server

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/job-portal/internal/auth"
	"github.com/justsurfingit/job-portal/internal/handlers"
	mw "github.com/justsurfingit/job-portal/internal/middleware"
	"github.com/justsurfingit/job-portal/internal/models"
	"github.com/justsurfingit/job-portal/internal/services"
	"github.com/justsurfingit/job-portal/internal/storage"
)

// Cache lifetimes per route family. Only shared listings and aggregates are
// cached; responses that follow the caller's own writes are always served fresh.
const (
	ttlShort     = 30 * time.Second
	ttlJobs      = time.Minute
	ttlCatalog   = 5 * time.Minute
	ttlAnalytics = 5 * time.Minute
)

func (s *Server) routes(d Deps, tokens *auth.TokenManager) *gin.Engine {
	cfg := d.Config
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.MaxMultipartMemory = storage.MaxUploadSize
	// ClientIP only honours X-Forwarded-For from these peers; none by default.
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		d.Log.WithError(err).Warn("invalid TRUSTED_PROXIES, trusting no proxy")
		_ = r.SetTrustedProxies(nil)
	}
	r.Use(mw.RequestLogger(d.Log), mw.Recovery(d.Log), d.Metrics.Middleware(), corsConfig(cfg))

	r.GET("/health", handlers.HealthCheck)
	r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	if cfg.UploadDir != "" {
		r.Group("/uploads", mw.StaticHeaders()).Static("/", cfg.UploadDir)
	}

	users := services.NewUserService(d.Store, d.Files, tokens, d.Log)
	companies := services.NewCompanyService(d.Store, d.Files, d.Log)
	jobs := services.NewJobService(d.Store, d.Extractor, d.Log)
	blogs := services.NewBlogService(d.Store, d.Files, d.Log)
	analytics := services.NewAnalyticsService(d.Store)
	reports := services.NewReportService(d.Store)

	userH := handlers.NewUserHandler(users, reports, handlers.CookieConfig{
		MaxAge: cfg.CookieMaxAge,
		Secure: cfg.IsProduction(),
	}, d.Log)
	companyH := handlers.NewCompanyHandler(companies, d.Log)
	jobH := handlers.NewJobHandler(jobs, d.Log)
	appH := handlers.NewApplicationHandler(s.apps, d.Log)
	blogH := handlers.NewBlogHandler(blogs, d.Log)
	analyticsH := handlers.NewAnalyticsHandler(analytics, d.Log)

	authed := mw.Auth(tokens)
	admin := mw.RequireRole(models.RoleSuperUser)
	recruiter := mw.RequireRole(models.RoleRecruiter, models.RoleSuperUser)
	upload := mw.UploadDeadline(cfg.UploadTimeout, d.Log)
	authLimit := mw.NewRateLimiter(cfg.AuthRateLimit, 5).PerIP()
	rc := mw.NewResponseCache(d.Cache, d.Metrics, d.Log)

	api := r.Group("/api/v1")
	api.GET("/health", handlers.HealthCheck)

	user := api.Group("/user")
	{
		user.POST("/register", authLimit, upload, userH.Register)
		user.POST("/login", authLimit, userH.Login)
		user.GET("/logout", userH.Logout)
		user.POST("/logout", userH.Logout)
		user.POST("/profile/update", authed, upload, userH.UpdateProfile)
		user.GET("/report", authed, userH.Report)
		user.GET("/count", authed, admin, rc.Public(ttlCatalog), userH.Count)

		adm := user.Group("/admin", authed, admin)
		adm.GET("/recruiters", userH.ListRecruiters())
		adm.DELETE("/recruiters/:id", userH.DeleteRecruiter())
		adm.POST("/recruiters", upload, userH.CreateRecruiter())
		adm.GET("/students", userH.ListStudents())
		adm.DELETE("/students/:id", userH.DeleteStudent())
		adm.POST("/students", upload, userH.CreateStudent())
	}

	company := api.Group("/company", authed)
	{
		company.POST("/register", recruiter, companyH.Register)
		company.POST("/add", recruiter, upload, companyH.Add)
		company.GET("/get", companyH.GetMine)
		company.GET("/all", rc.Public(ttlCatalog), companyH.GetAll)
		company.GET("/get/:id", rc.Public(ttlCatalog), companyH.GetByID)
		company.PUT("/update/:id", upload, companyH.Update)
		company.DELETE("/delete/:id", companyH.Delete)
		company.GET("/count", rc.Public(ttlCatalog), companyH.Count)
	}

	job := api.Group("/job", authed)
	{
		job.POST("/post", recruiter, jobH.CreateJob)
		job.POST("/extract", recruiter, jobH.ParseJob)
		job.GET("/get", rc.Public(ttlJobs), jobH.GetAllJobs)
		job.GET("/get/:id", jobH.GetJobByID)
		job.GET("/getadminjobs", jobH.GetAdminJobs)
		job.PUT("/update/:id", jobH.UpdateJob)
		job.DELETE("/delete/:id", jobH.DeleteJob)
		job.GET("/count", rc.Public(ttlCatalog), jobH.CountJobs)
	}

	application := api.Group("/application", authed)
	{
		application.POST("/apply/:id", appH.Apply)
		application.GET("/apply/:id", appH.Apply)
		application.GET("/get", appH.GetAppliedJobs)
		application.GET("/:id/applicants", recruiter, appH.GetApplicants)
		application.GET("/all", admin, appH.GetAll)
		application.GET("/company-counts", admin, rc.Public(ttlCatalog), appH.CompanyCounts)
		application.POST("/status/:id/update", appH.UpdateStatus())
		application.PUT("/:id/status", appH.Decide())
		application.DELETE("/:id/withdraw", appH.Withdraw)
		application.DELETE("/:id", appH.Delete)
		application.GET("/total", rc.Public(ttlCatalog), appH.Total)
		application.GET("/recruiters/count", rc.Public(ttlCatalog), appH.RecruiterCount)
	}

	blog := api.Group("/blog")
	{
		blog.GET("", rc.Public(ttlShort), blogH.List)
		blog.GET("/:id", rc.Public(ttlShort), blogH.Get)
		blog.GET("/author/:id", rc.Public(ttlShort), blogH.ByAuthor)
		blog.GET("/:id/comments", blogH.Comments)
		blog.POST("", authed, upload, blogH.Create)
		blog.PUT("/:id", authed, upload, blogH.Update)
		blog.DELETE("/:id", authed, blogH.Delete)
		blog.POST("/:id/comments", authed, blogH.AddComment)
	}

	registerAnalytics(api.Group("/charts", authed, rc.Public(ttlAnalytics)), analyticsH)
	b2bLimit := mw.NewRateLimiter(cfg.B2BRateLimit, 10)
	registerAnalytics(api.Group("/b2b/analytics", mw.APIKey(cfg.B2BAPIKeys, b2bLimit), rc.Public(ttlAnalytics)), analyticsH)

	return r
}

func registerAnalytics(g *gin.RouterGroup, h *handlers.AnalyticsHandler) {
	g.GET("/job-market", h.JobMarket)
	g.GET("/applications", h.Applications)
	g.GET("/applications/status", h.ApplicationsByStatus)
	g.GET("/industry", h.Industry)
	g.GET("/time-trends", h.TimeTrends)
}
