package services

import (
	"context"
	"errors"
	"mime"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/justsurfingit/job-portal/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
)

func TestBuildMessage(t *testing.T) {
	msg := buildMessage("jobs@portal.io", StatusChange{
		ApplicantName:  "Sam",
		ApplicantEmail: "sam@uni.edu",
		JobTitle:       "Go Engineer",
		CompanyName:    "Acme",
		Status:         "accepted",
	})
	assert.Contains(t, msg, "From: jobs@portal.io\r\n")
	assert.Contains(t, msg, "To: sam@uni.edu\r\n")
	assert.Contains(t, msg, "Subject: Update on your application for Go Engineer\r\n")
	assert.Contains(t, msg, "Your application for Go Engineer at Acme is now accepted.")

	noFrom := buildMessage("", StatusChange{ApplicantEmail: "sam@uni.edu", JobTitle: "SRE", Status: "rejected"})
	assert.NotContains(t, noFrom, "From:")
	assert.Contains(t, noFrom, "Your application for SRE is now rejected.")
}

func TestBuildMessageHeadersStayClosed(t *testing.T) {
	msg := buildMessage("jobs@portal.io", StatusChange{
		ApplicantName:  "Sam\r\nX-Evil: 1",
		ApplicantEmail: "sam@uni.edu\r\nCc: other@evil.io",
		JobTitle:       "Go Dev\r\nBcc: victim@evil.io",
		CompanyName:    "Acme",
		Status:         "accepted",
	})
	headers, body, found := strings.Cut(msg, "\r\n\r\n")
	require.True(t, found)

	lines := strings.Split(headers, "\r\n")
	assert.Len(t, lines, 5)
	for _, line := range lines {
		assert.NotRegexp(t, `^(?i)(bcc|cc|x-evil):`, line)
	}
	assert.Contains(t, headers, "To: sam@uni.eduCc: other@evil.io")
	assert.Contains(t, body, "Your application for Go Dev Bcc: victim@evil.io at Acme is now accepted.")
	assert.NotContains(t, body, "\nX-Evil")
}

func TestBuildMessageEncodesSubject(t *testing.T) {
	msg := buildMessage("", StatusChange{ApplicantEmail: "a@b.io", JobTitle: "Développeur Go", Status: "rejected"})
	assert.Contains(t, msg, "Subject: =?utf-8?q?Update_on_your_application_for_D=C3=A9veloppeur_Go?=\r\n")

	dec := new(mime.WordDecoder)
	headers, _, _ := strings.Cut(msg, "\r\n\r\n")
	for _, line := range strings.Split(headers, "\r\n") {
		if subject, ok := strings.CutPrefix(line, "Subject: "); ok {
			got, err := dec.DecodeHeader(subject)
			require.NoError(t, err)
			assert.Equal(t, "Update on your application for Développeur Go", got)
		}
	}
}

func TestIsPermanentError(t *testing.T) {
	assert.True(t, isPermanentError(&googleapi.Error{Code: http.StatusBadRequest}))
	assert.True(t, isPermanentError(&googleapi.Error{Code: http.StatusForbidden}))
	assert.False(t, isPermanentError(&googleapi.Error{Code: http.StatusTooManyRequests}))
	assert.False(t, isPermanentError(&googleapi.Error{Code: http.StatusBadGateway}))
	assert.False(t, isPermanentError(errors.New("connection reset")))
}

func TestRetry(t *testing.T) {
	ctx := context.Background()
	log := logging.Discard()

	t.Run("succeeds after transient failures", func(t *testing.T) {
		calls := 0
		err := retry(ctx, log, 3, time.Millisecond, func() error {
			calls++
			if calls < 3 {
				return &googleapi.Error{Code: http.StatusServiceUnavailable}
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("stops on permanent error", func(t *testing.T) {
		calls := 0
		err := retry(ctx, log, 3, time.Millisecond, func() error {
			calls++
			return &googleapi.Error{Code: http.StatusNotFound}
		})
		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("gives up after attempts", func(t *testing.T) {
		calls := 0
		cause := errors.New("timeout")
		err := retry(ctx, log, 2, time.Millisecond, func() error {
			calls++
			return cause
		})
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, 2, calls)
	})

	t.Run("honours cancellation", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		err := retry(cctx, log, 5, time.Hour, func() error { return errors.New("flaky") })
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestStripCodeFence(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripCodeFence("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFence("  {\"a\":1} "))
	assert.Equal(t, `{"a":1}`, stripCodeFence("```\n{\"a\":1}```"))
}

func TestExtractJobDetailsTruncatesInput(t *testing.T) {
	c := &fakeCompleter{reply: `{"title":"x"}`}
	long := make([]byte, maxPostingChars+500)
	for i := range long {
		long[i] = 'a'
	}
	_, err := NewLLMService(c).ExtractJobDetails(context.Background(), string(long))
	require.NoError(t, err)
	assert.NotContains(t, c.prompt, string(long[:maxPostingChars+1]))

	c.reply = "not json"
	_, err = NewLLMService(c).ExtractJobDetails(context.Background(), "x")
	assert.Error(t, err)
}
