package models

import (
	"regexp"
	"strconv"
	"strings"
)

// Bucket is one row of a grouped count.
type Bucket struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

// PositionSalary is the mean salary for jobs sharing a position count.
type PositionSalary struct {
	Position      int     `json:"position"`
	AverageSalary float64 `json:"averageSalary"`
	Jobs          int64   `json:"jobs"`
}

// SalaryRange is a half-open [Min, Max) interval; Max of 0 means unbounded.
type SalaryRange struct {
	Label string
	Min   float64
	Max   float64
}

// SalaryRanges are the fixed salary buckets used by the job market charts.
var SalaryRanges = []SalaryRange{
	{Label: "0-50k", Min: 0, Max: 50_000},
	{Label: "50k-75k", Min: 50_000, Max: 75_000},
	{Label: "75k-100k", Min: 75_000, Max: 100_000},
	{Label: "100k-150k", Min: 100_000, Max: 150_000},
	{Label: "150k-200k", Min: 150_000, Max: 200_000},
	{Label: "200k-1M", Min: 200_000, Max: 1_000_000},
	{Label: "1M+", Min: 1_000_000},
}

// SalaryRangeLabel returns the label of the range containing v.
func SalaryRangeLabel(v float64) string {
	for _, r := range SalaryRanges {
		if v >= r.Min && (r.Max == 0 || v < r.Max) {
			return r.Label
		}
	}
	return SalaryRanges[0].Label
}

var salaryNumber = regexp.MustCompile(`(\d[\d,]*(?:\.\d+)?)\s*(k|m|lpa|lakhs?)?\b`)

// ParseSalary extracts a numeric yearly amount from free-form salary text such as
// "120000", "$90k - $110k" or "12 LPA". Ranges resolve to their midpoint.
func ParseSalary(s string) *float64 {
	matches := salaryNumber.FindAllStringSubmatch(strings.ToLower(s), 2)
	if len(matches) == 0 {
		return nil
	}
	var values []float64
	for _, m := range matches {
		n, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
		if err != nil {
			continue
		}
		switch m[2] {
		case "k":
			n *= 1_000
		case "m":
			n *= 1_000_000
		case "lpa", "lakh", "lakhs":
			n *= 100_000
		}
		values = append(values, n)
	}
	if len(values) == 0 {
		return nil
	}
	v := values[0]
	if len(values) == 2 {
		v = (values[0] + values[1]) / 2
	}
	return &v
}
