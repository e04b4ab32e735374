package models

import (
	"strings"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// Profile is embedded into the users table with a profile_ column prefix.
type Profile struct {
	Bio                string         `json:"bio"`
	Skills             pq.StringArray `gorm:"type:text[]" json:"skills"`
	Resume             string         `json:"resume"`
	ResumeOriginalName string         `json:"resumeOriginalName"`
	ProfilePhoto       string         `json:"profilePhoto"`

	Qualifications datatypes.JSONSlice[Qualification] `json:"qualifications"`
	ResearchAreas  datatypes.JSONSlice[ResearchArea]  `json:"researchAreas"`
	Experience     datatypes.JSONSlice[Experience]    `json:"experience"`
	Publications   datatypes.JSONSlice[Publication]   `json:"publications"`
	CoursesTaught  datatypes.JSONSlice[Course]        `json:"coursesTaught"`
}

type Qualification struct {
	Title       string `json:"title"`
	Institution string `json:"institution,omitempty"`
	Year        string `json:"year,omitempty"`
}

type ResearchArea struct {
	Field       string `json:"field"`
	Description string `json:"description,omitempty"`
}

type Experience struct {
	Title        string `json:"title"`
	Organization string `json:"organization,omitempty"`
	StartDate    string `json:"startDate,omitempty"`
	EndDate      string `json:"endDate,omitempty"`
	Description  string `json:"description,omitempty"`
}

type Publication struct {
	Title string `json:"title"`
	Venue string `json:"venue,omitempty"`
	Year  string `json:"year,omitempty"`
	URL   string `json:"url,omitempty"`
}

type Course struct {
	Name  string `json:"name"`
	Code  string `json:"code,omitempty"`
	Level string `json:"level,omitempty"`
}

// ProfileRecords holds the structured profile lists decoded from a request.
// A nil slice means the field was not supplied.
type ProfileRecords struct {
	Qualifications []Qualification
	ResearchAreas  []ResearchArea
	Experience     []Experience
	Publications   []Publication
	CoursesTaught  []Course
}

// Clean drops entries whose identifying field is blank.
func (r *ProfileRecords) Clean() {
	r.Qualifications = keep(r.Qualifications, func(q Qualification) string { return q.Title })
	r.ResearchAreas = keep(r.ResearchAreas, func(a ResearchArea) string { return a.Field })
	r.Experience = keep(r.Experience, func(e Experience) string { return e.Title })
	r.Publications = keep(r.Publications, func(p Publication) string { return p.Title })
	r.CoursesTaught = keep(r.CoursesTaught, func(c Course) string { return c.Name })
}

// ApplyTo copies every supplied list onto p and reports whether anything was set.
func (r ProfileRecords) ApplyTo(p *Profile) bool {
	changed := false
	if r.Qualifications != nil {
		p.Qualifications = datatypes.NewJSONSlice(r.Qualifications)
		changed = true
	}
	if r.ResearchAreas != nil {
		p.ResearchAreas = datatypes.NewJSONSlice(r.ResearchAreas)
		changed = true
	}
	if r.Experience != nil {
		p.Experience = datatypes.NewJSONSlice(r.Experience)
		changed = true
	}
	if r.Publications != nil {
		p.Publications = datatypes.NewJSONSlice(r.Publications)
		changed = true
	}
	if r.CoursesTaught != nil {
		p.CoursesTaught = datatypes.NewJSONSlice(r.CoursesTaught)
		changed = true
	}
	return changed
}

func keep[T any](items []T, key func(T) string) []T {
	if items == nil {
		return nil
	}
	out := make([]T, 0, len(items))
	for _, it := range items {
		if strings.TrimSpace(key(it)) != "" {
			out = append(out, it)
		}
	}
	return out
}
