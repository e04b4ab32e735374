package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/job-portal/internal/apperr"
	"github.com/justsurfingit/job-portal/internal/database/memory"
	"github.com/justsurfingit/job-portal/internal/logging"
	"github.com/justsurfingit/job-portal/internal/models"
	"github.com/justsurfingit/job-portal/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestRespondError(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"validation", apperr.Validation("Something is missing"), http.StatusBadRequest, "Something is missing"},
		{"conflict", apperr.Conflict("taken"), http.StatusBadRequest, "taken"},
		{"forbidden", apperr.Forbidden("no"), http.StatusForbidden, "no"},
		{"not found", apperr.NotFound("Job not found."), http.StatusNotFound, "Job not found."},
		{"unavailable", apperr.Unavailable("off"), http.StatusServiceUnavailable, "off"},
		{"foreign", errors.New("boom"), http.StatusInternalServerError, "boom"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)
			respondError(c, logging.Discard(), tc.err)

			assert.Equal(t, tc.status, rec.Code)
			body := decode(t, rec)
			assert.Equal(t, tc.message, body["message"])
			assert.Equal(t, false, body["success"])
		})
	}
}

func TestBindFailed(t *testing.T) {
	type req struct {
		Title string `json:"title" binding:"required"`
		Count int    `json:"count" binding:"required,min=1"`
	}
	bind := func(body string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rec)
		c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		var r req
		err := c.ShouldBindJSON(&r)
		require.Error(t, err)
		bindFailed(c, err)
		return rec
	}

	rec := bind(`{"count":0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "Something is missing", body["message"])
	assert.ElementsMatch(t, []any{"Title", "Count"}, body["fields"])

	rec = bind(`{"title":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.True(t, strings.HasPrefix(decode(t, rec)["message"].(string), "Invalid request format"))
}

func TestPathID(t *testing.T) {
	for _, raw := range []string{"abc", "0", "-1", ""} {
		rec := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rec)
		c.Params = gin.Params{{Key: "id", Value: raw}}
		_, ok := pathID(c, "id")
		assert.False(t, ok, raw)
		assert.Equal(t, http.StatusBadRequest, rec.Code, raw)
	}

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Params = gin.Params{{Key: "id", Value: "42"}}
	id, ok := pathID(c, "id")
	assert.True(t, ok)
	assert.Equal(t, uint(42), id)
}

func TestSessionCookie(t *testing.T) {
	cases := []struct {
		secure   bool
		sameSite http.SameSite
	}{
		{false, http.SameSiteLaxMode},
		{true, http.SameSiteNoneMode},
	}
	for _, tc := range cases {
		h := NewUserHandler(nil, nil, CookieConfig{MaxAge: time.Hour, Secure: tc.secure}, logging.Discard())
		rec := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rec)
		c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
		h.setSession(c, "tok", 3600)

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, "tok", cookies[0].Value)
		assert.True(t, cookies[0].HttpOnly)
		assert.Equal(t, tc.secure, cookies[0].Secure)
		assert.Equal(t, tc.sameSite, cookies[0].SameSite)
		assert.Equal(t, "/", cookies[0].Path)
	}
}

func TestBlogListDefaults(t *testing.T) {
	store := memory.New()
	blogs := services.NewBlogService(store, nil, logging.Discard())
	h := NewBlogHandler(blogs, logging.Discard())

	author := &models.User{Fullname: "Ada", Email: "ada@example.com", PhoneNumber: "1", Password: "x", Role: models.RoleStudent}
	require.NoError(t, store.CreateUser(t.Context(), author))
	for _, title := range []string{"one", "two", "three"} {
		_, err := blogs.Create(t.Context(), author.ID, services.BlogInput{Title: title, Content: "body"})
		require.NoError(t, err)
	}

	r := gin.New()
	r.GET("/blog", h.List)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/blog?limit=2&page=2&sortBy=title&sortOrder=asc", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, map[string]any{"total": float64(3), "page": float64(2), "pages": float64(2)}, body["pagination"])
	list := body["blogs"].([]any)
	require.Len(t, list, 1)
	assert.Equal(t, "two", list[0].(map[string]any)["title"])

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/blog?page=abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
