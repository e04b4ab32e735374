package services

import (
	"context"
	"net/url"
	"strings"

	"github.com/justsurfingit/job-portal/internal/database"
	"github.com/justsurfingit/job-portal/internal/models"
)

// minMatchLen skips very short names; "X" or "Go" would match everything.
const minMatchLen = 3

type MatcherService struct {
	store database.CompanyRepository
}

func NewMatcherService(store database.CompanyRepository) *MatcherService {
	return &MatcherService{store: store}
}

// FindCompany links an extracted posting to a registered company, by exact name
// first, then by name containment, then by the posting URL's domain.
func (s *MatcherService) FindCompany(ctx context.Context, name, postingURL string) (*models.Company, error) {
	if name = strings.TrimSpace(name); name != "" {
		if c, err := s.store.GetCompanyByName(ctx, name); err == nil {
			return c, nil
		}
	}

	companies, err := s.store.ListCompanies(ctx)
	if err != nil {
		return nil, err
	}
	nameLower := strings.ToLower(name)
	domain := hostOf(postingURL)

	for i := range companies {
		companyName := strings.ToLower(companies[i].Name)
		if len(companyName) < minMatchLen {
			continue
		}
		// "Stripe Payments Inc" contains "stripe"
		if nameLower != "" && strings.Contains(nameLower, companyName) {
			return &companies[i], nil
		}
		// jobs.stripe.com contains "stripe"
		if domain != "" && strings.Contains(domain, strings.ReplaceAll(companyName, " ", "")) {
			return &companies[i], nil
		}
	}
	return nil, nil
}

// hostOf returns the lower-cased host of raw, without a leading www.
func hostOf(raw string) string {
	if raw == "" {
		return ""
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}
