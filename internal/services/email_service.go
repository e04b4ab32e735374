package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// StatusChange describes an application decision the applicant should hear about.
type StatusChange struct {
	ApplicantName  string
	ApplicantEmail string
	JobTitle       string
	CompanyName    string
	Status         string
}

// Notifier delivers application status emails.
type Notifier interface {
	NotifyStatusChange(ctx context.Context, change StatusChange) error
}

// EmailService sends notifications through the Gmail API.
type EmailService struct {
	GmailClient *gmail.Service
	From        string
	log         logrus.FieldLogger

	attempts int
	backoff  time.Duration
}

var _ Notifier = (*EmailService)(nil)

// NewEmailService builds the Gmail client from an authorized HTTP client.
func NewEmailService(ctx context.Context, httpClient *http.Client, from string, log logrus.FieldLogger) (*EmailService, error) {
	svc, err := gmail.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service: %w", err)
	}
	return &EmailService{GmailClient: svc, From: from, log: log, attempts: 3, backoff: time.Second}, nil
}

func (s *EmailService) NotifyStatusChange(ctx context.Context, change StatusChange) error {
	raw := buildMessage(s.From, change)
	msg := &gmail.Message{Raw: base64.URLEncoding.EncodeToString([]byte(raw))}

	return retry(ctx, s.log, s.attempts, s.backoff, func() error {
		_, err := s.GmailClient.Users.Messages.Send("me", msg).Context(ctx).Do()
		return err
	})
}

// headerSafe drops line breaks so a value cannot start a new header.
var headerSafe = strings.NewReplacer("\r", "", "\n", "")

// lineSafe folds line breaks in body text into spaces.
var lineSafe = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

func buildMessage(from string, c StatusChange) string {
	title := lineSafe.Replace(c.JobTitle)
	subject := mime.QEncoding.Encode("utf-8", "Update on your application for "+title)

	var body strings.Builder
	fmt.Fprintf(&body, "Hi %s,\r\n\r\n", lineSafe.Replace(c.ApplicantName))
	if c.CompanyName != "" {
		fmt.Fprintf(&body, "Your application for %s at %s is now %s.\r\n", title, lineSafe.Replace(c.CompanyName), c.Status)
	} else {
		fmt.Fprintf(&body, "Your application for %s is now %s.\r\n", title, c.Status)
	}
	body.WriteString("\r\nLog in to your dashboard for details.\r\n")

	var b strings.Builder
	if from != "" {
		fmt.Fprintf(&b, "From: %s\r\n", headerSafe.Replace(from))
	}
	fmt.Fprintf(&b, "To: %s\r\n", headerSafe.Replace(c.ApplicantEmail))
	fmt.Fprintf(&b, "Subject: %s\r\n", headerSafe.Replace(subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n\r\n")
	b.WriteString(body.String())
	return b.String()
}

// retry executes f with exponential backoff. Client errors other than 429 fail fast.
func retry(ctx context.Context, log logrus.FieldLogger, attempts int, sleep time.Duration, f func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = f(); err == nil {
			return nil
		}
		if isPermanentError(err) {
			return err
		}
		if i == attempts-1 {
			break
		}

		log.WithError(err).Warnf("API error, retrying in %v", sleep)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(sleep):
		}
		sleep *= 2
	}
	return fmt.Errorf("failed after %d attempts: %w", attempts, err)
}

func isPermanentError(err error) bool {
	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		return gErr.Code >= 400 && gErr.Code < 500 && gErr.Code != http.StatusTooManyRequests
	}
	return false
}
