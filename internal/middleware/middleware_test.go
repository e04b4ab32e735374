package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/job-portal/internal/auth"
	"github.com/justsurfingit/job-portal/internal/cache"
	"github.com/justsurfingit/job-portal/internal/logging"
	"github.com/justsurfingit/job-portal/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestAuth(t *testing.T) {
	tokens := auth.NewTokenManager("secret", time.Hour)
	r := gin.New()
	r.GET("/me", Auth(tokens), func(c *gin.Context) {
		actor := Actor(c)
		c.JSON(http.StatusOK, gin.H{"id": actor.ID, "role": actor.Role})
	})
	r.GET("/admin", Auth(tokens), RequireRole(models.RoleSuperUser), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	token, err := tokens.Issue(7, models.RoleRecruiter)
	require.NoError(t, err)

	t.Run("missing token", func(t *testing.T) {
		rec := serve(r, httptest.NewRequest(http.MethodGet, "/me", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, "User not authenticated", body["message"])
		assert.Equal(t, false, body["success"])
	})

	t.Run("cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
		rec := serve(r, req)
		require.Equal(t, http.StatusOK, rec.Code)
		body := decode(t, rec)
		assert.EqualValues(t, 7, body["id"])
		assert.Equal(t, models.RoleRecruiter, body["role"])
	})

	t.Run("bearer header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		assert.Equal(t, http.StatusOK, serve(r, req).Code)
	})

	t.Run("tampered token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.AddCookie(&http.Cookie{Name: CookieName, Value: token + "x"})
		rec := serve(r, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Invalid token", decode(t, rec)["message"])
	})

	t.Run("wrong role", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
		assert.Equal(t, http.StatusForbidden, serve(r, req).Code)
	})
}

func TestAPIKey(t *testing.T) {
	r := gin.New()
	r.GET("/b2b", APIKey([]string{"alpha", "beta"}, NewRateLimiter(0.001, 2)), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	get := func(header, query string) int {
		req := httptest.NewRequest(http.MethodGet, "/b2b"+query, nil)
		if header != "" {
			req.Header.Set("x-api-key", header)
		}
		return serve(r, req).Code
	}

	assert.Equal(t, http.StatusUnauthorized, get("", ""))
	assert.Equal(t, http.StatusUnauthorized, get("gamma", ""))
	assert.Equal(t, http.StatusOK, get("alpha", ""))
	assert.Equal(t, http.StatusOK, get("", "?apiKey=alpha"))
	assert.Equal(t, http.StatusTooManyRequests, get("alpha", ""))
	// each key has its own bucket
	assert.Equal(t, http.StatusOK, get("beta", ""))
}

func TestRateLimiterDisabled(t *testing.T) {
	rl := NewRateLimiter(0, 1)
	for range 5 {
		assert.True(t, rl.Allow("k"))
	}
	var none *RateLimiter
	assert.True(t, none.Allow("k"))
}

func TestPerIP(t *testing.T) {
	r := gin.New()
	r.POST("/login", NewRateLimiter(0.001, 1).PerIP(), func(c *gin.Context) { c.Status(http.StatusOK) })

	req := func(addr string) int {
		rq := httptest.NewRequest(http.MethodPost, "/login", nil)
		rq.RemoteAddr = addr
		return serve(r, rq).Code
	}
	assert.Equal(t, http.StatusOK, req("10.0.0.1:1000"))
	assert.Equal(t, http.StatusTooManyRequests, req("10.0.0.1:1001"))
	assert.Equal(t, http.StatusOK, req("10.0.0.2:1000"))
}

type countingRecorder struct{ hit, miss, err int }

func (r *countingRecorder) CacheHit()   { r.hit++ }
func (r *countingRecorder) CacheMiss()  { r.miss++ }
func (r *countingRecorder) CacheError() { r.err++ }

type brokenStore struct{}

func (brokenStore) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("connection refused")
}
func (brokenStore) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("connection refused")
}
func (brokenStore) Delete(context.Context, string) error { return nil }

func TestResponseCache(t *testing.T) {
	calls := 0
	handler := func(c *gin.Context) {
		calls++
		if c.Query("fail") != "" {
			c.JSON(http.StatusNotFound, gin.H{"success": false})
			return
		}
		c.JSON(http.StatusOK, gin.H{"calls": calls, "success": true})
	}

	t.Run("serves repeats from the store", func(t *testing.T) {
		calls = 0
		rec := &countingRecorder{}
		rc := NewResponseCache(cache.NewMemoryStore(), rec, logging.Discard())
		r := gin.New()
		r.GET("/jobs", rc.Public(time.Minute), handler)

		first := serve(r, httptest.NewRequest(http.MethodGet, "/jobs?keyword=go", nil))
		second := serve(r, httptest.NewRequest(http.MethodGet, "/jobs?keyword=go", nil))
		other := serve(r, httptest.NewRequest(http.MethodGet, "/jobs?keyword=rust", nil))

		assert.Equal(t, 2, calls)
		assert.Equal(t, first.Body.String(), second.Body.String())
		assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
		assert.Equal(t, "MISS", other.Header().Get("X-Cache"))
		assert.Equal(t, 1, rec.hit)
		assert.Equal(t, 2, rec.miss)
	})

	t.Run("skips errors", func(t *testing.T) {
		calls = 0
		rc := NewResponseCache(cache.NewMemoryStore(), nil, logging.Discard())
		r := gin.New()
		r.GET("/jobs", rc.Public(time.Minute), handler)

		serve(r, httptest.NewRequest(http.MethodGet, "/jobs?fail=1", nil))
		serve(r, httptest.NewRequest(http.MethodGet, "/jobs?fail=1", nil))
		assert.Equal(t, 2, calls)
	})

	t.Run("store failure passes through", func(t *testing.T) {
		calls = 0
		rec := &countingRecorder{}
		rc := NewResponseCache(brokenStore{}, rec, logging.Discard())
		r := gin.New()
		r.GET("/jobs", rc.Public(time.Minute), handler)

		resp := serve(r, httptest.NewRequest(http.MethodGet, "/jobs", nil))
		assert.Equal(t, http.StatusOK, resp.Code)
		assert.Equal(t, 1, calls)
		assert.Equal(t, 2, rec.err)
	})

	t.Run("nil cache is a no-op", func(t *testing.T) {
		calls = 0
		rc := NewResponseCache(nil, nil, logging.Discard())
		r := gin.New()
		r.GET("/jobs", rc.Public(time.Minute), handler)
		serve(r, httptest.NewRequest(http.MethodGet, "/jobs", nil))
		serve(r, httptest.NewRequest(http.MethodGet, "/jobs", nil))
		assert.Equal(t, 2, calls)
	})
}

func TestRequestLoggerAndRecovery(t *testing.T) {
	var buf bytes.Buffer
	log := logging.NewWithWriter(&buf, "info", true)
	r := gin.New()
	r.Use(RequestLogger(log), Recovery(log))
	r.GET("/boom", func(c *gin.Context) { panic("kaboom") })
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error", decode(t, rec)["message"])
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
	assert.Contains(t, buf.String(), "panic recovered")
	assert.Contains(t, buf.String(), `"status":500`)

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = serve(r, req)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
	assert.Contains(t, buf.String(), `"request_id":"abc-123"`)
}

func TestUploadDeadlineContinues(t *testing.T) {
	r := gin.New()
	r.POST("/upload", UploadDeadline(time.Minute, logging.Discard()), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})
	assert.Equal(t, http.StatusCreated, serve(r, httptest.NewRequest(http.MethodPost, "/upload", nil)).Code)
}
