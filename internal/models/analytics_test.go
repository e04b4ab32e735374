package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSalary(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"120000", 120_000},
		{"120,000", 120_000},
		{"85k", 85_000},
		{"$90k - $110k", 100_000},
		{"1.2M", 1_200_000},
		{"12 LPA", 1_200_000},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ParseSalary(tt.in)
			require.NotNil(t, got)
			assert.InDelta(t, tt.want, *got, 0.001)
		})
	}

	assert.Nil(t, ParseSalary("competitive"))
	assert.Nil(t, ParseSalary(""))
}

func TestSalaryRangeLabel(t *testing.T) {
	assert.Equal(t, "0-50k", SalaryRangeLabel(0))
	assert.Equal(t, "50k-75k", SalaryRangeLabel(50_000))
	assert.Equal(t, "100k-150k", SalaryRangeLabel(149_999))
	assert.Equal(t, "200k-1M", SalaryRangeLabel(999_999))
	assert.Equal(t, "1M+", SalaryRangeLabel(1_000_000))
	assert.Equal(t, "1M+", SalaryRangeLabel(25_000_000))
}

func TestProfileRecordsClean(t *testing.T) {
	r := ProfileRecords{
		Qualifications: []Qualification{{Title: "PhD"}, {Title: "  "}},
		ResearchAreas:  []ResearchArea{{Field: ""}, {Field: "NLP"}},
		CoursesTaught:  []Course{{Code: "CS101"}},
	}
	r.Clean()

	assert.Len(t, r.Qualifications, 1)
	assert.Equal(t, "NLP", r.ResearchAreas[0].Field)
	assert.NotNil(t, r.CoursesTaught)
	assert.Empty(t, r.CoursesTaught)
	assert.Nil(t, r.Experience)

	var p Profile
	assert.True(t, r.ApplyTo(&p))
	assert.Len(t, p.Qualifications, 1)
	assert.Nil(t, p.Experience)
}
