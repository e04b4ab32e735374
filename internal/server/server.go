// Package server wires services, handlers and middleware into the HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/job-portal/internal/auth"
	"github.com/justsurfingit/job-portal/internal/cache"
	"github.com/justsurfingit/job-portal/internal/config"
	"github.com/justsurfingit/job-portal/internal/database"
	"github.com/justsurfingit/job-portal/internal/metrics"
	"github.com/justsurfingit/job-portal/internal/services"
	"github.com/justsurfingit/job-portal/internal/storage"
	"github.com/sirupsen/logrus"
)

const shutdownTimeout = 15 * time.Second

// Deps are the collaborators built by the caller. Cache, Files, Notifier and
// Extractor are optional.
type Deps struct {
	Config    *config.Config
	Log       *logrus.Logger
	Store     database.Store
	Cache     cache.Store
	Files     storage.Store
	Metrics   *metrics.Metrics
	Notifier  services.Notifier
	Extractor *services.LLMService
}

type Server struct {
	cfg    *config.Config
	log    *logrus.Logger
	engine *gin.Engine
	apps   *services.ApplicationService
}

func New(d Deps) *Server {
	if d.Metrics == nil {
		d.Metrics = metrics.New()
	}
	tokens := auth.NewTokenManager(d.Config.JWTSecret, d.Config.TokenTTL)

	apps := services.NewApplicationService(d.Store, d.Notifier, d.Log)
	apps.OnNotify(d.Metrics.EmailSent)

	s := &Server{cfg: d.Config, log: d.Log, apps: apps}
	s.engine = s.routes(d, tokens)
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then drains requests and pending notifications.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + s.cfg.Port,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", srv.Addr).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	s.apps.Wait()
	return err
}

// originAllowed accepts exact allow-list entries and hosts ending in one of patterns.
func originAllowed(allowed, patterns []string) func(string) bool {
	exact := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		exact[strings.TrimSuffix(o, "/")] = struct{}{}
	}
	return func(origin string) bool {
		if _, ok := exact[origin]; ok {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil || u.Host == "" {
			return false
		}
		host := u.Hostname()
		for _, p := range patterns {
			if strings.HasSuffix(host, p) {
				return true
			}
		}
		return false
	}
}

func corsConfig(cfg *config.Config) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOriginFunc:  originAllowed(cfg.AllowedOrigins, cfg.OriginPatterns),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "x-api-key", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Disposition", "X-Request-ID", "X-Cache"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}
