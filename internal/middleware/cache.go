package middleware

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/job-portal/internal/cache"
	"github.com/sirupsen/logrus"
)

// cacheOpTimeout bounds a single store round-trip so a slow cache never stalls a request.
const cacheOpTimeout = 200 * time.Millisecond

// CacheRecorder observes cache lookups; *metrics.Metrics satisfies it.
type CacheRecorder interface {
	CacheHit()
	CacheMiss()
	CacheError()
}

type nopRecorder struct{}

func (nopRecorder) CacheHit()   {}
func (nopRecorder) CacheMiss()  {}
func (nopRecorder) CacheError() {}

// ResponseCache memoizes successful GET responses.
type ResponseCache struct {
	store    cache.Store
	recorder CacheRecorder
	log      logrus.FieldLogger
}

// NewResponseCache returns nil when store is nil; the nil cache passes requests through.
func NewResponseCache(store cache.Store, recorder CacheRecorder, log logrus.FieldLogger) *ResponseCache {
	if store == nil {
		return nil
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &ResponseCache{store: store, recorder: recorder, log: log}
}

type bodyRecorder struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyRecorder) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Public caches by URL only, so it suits responses that are the same for every
// caller and may lag writes by up to ttl.
func (rc *ResponseCache) Public(ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rc == nil || c.Request.Method != http.MethodGet {
			c.Next()
			return
		}
		key := "resp:" + c.Request.URL.RequestURI()
		log := Logger(c, rc.log).WithField("cache_key", key)

		ctx, cancel := context.WithTimeout(c.Request.Context(), cacheOpTimeout)
		body, ok, err := rc.store.Get(ctx, key)
		cancel()
		switch {
		case err != nil:
			rc.recorder.CacheError()
			log.WithError(err).Warn("cache read failed")
		case ok:
			rc.recorder.CacheHit()
			c.Header("X-Cache", "HIT")
			c.Data(http.StatusOK, "application/json; charset=utf-8", body)
			c.Abort()
			return
		default:
			rc.recorder.CacheMiss()
			c.Header("X-Cache", "MISS")
		}

		w := &bodyRecorder{ResponseWriter: c.Writer}
		c.Writer = w
		c.Next()

		if w.Status() != http.StatusOK || w.body.Len() == 0 {
			return
		}
		ctx, cancel = context.WithTimeout(context.WithoutCancel(c.Request.Context()), cacheOpTimeout)
		defer cancel()
		if err := rc.store.Set(ctx, key, w.body.Bytes(), ttl); err != nil {
			rc.recorder.CacheError()
			log.WithError(err).Warn("cache write failed")
		}
	}
}
