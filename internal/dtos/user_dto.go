package dtos

import (
	"github.com/justsurfingit/job-portal/internal/apperr"
	"github.com/justsurfingit/job-portal/internal/models"
)

// ProfileFields are the structured profile lists. Multipart forms carry each as
// JSON text; JSON bodies carry arrays.
type ProfileFields struct {
	Qualifications FlexList `json:"qualifications" form:"qualifications"`
	ResearchAreas  FlexList `json:"researchAreas" form:"researchAreas"`
	Experience     FlexList `json:"experience" form:"experience"`
	Publications   FlexList `json:"publications" form:"publications"`
	CoursesTaught  FlexList `json:"coursesTaught" form:"coursesTaught"`
}

// Parse decodes every supplied list and drops entries without their key field.
func (p ProfileFields) Parse() (models.ProfileRecords, error) {
	var r models.ProfileRecords
	fields := []struct {
		name string
		src  FlexList
		dst  any
	}{
		{"qualifications", p.Qualifications, &r.Qualifications},
		{"researchAreas", p.ResearchAreas, &r.ResearchAreas},
		{"experience", p.Experience, &r.Experience},
		{"publications", p.Publications, &r.Publications},
		{"coursesTaught", p.CoursesTaught, &r.CoursesTaught},
	}
	for _, f := range fields {
		if err := f.src.Decode(f.dst); err != nil {
			return models.ProfileRecords{}, apperr.Validation("Invalid " + f.name + " format.")
		}
	}
	r.Clean()
	return r, nil
}

type RegisterRequest struct {
	Fullname    string `json:"fullname" form:"fullname"`
	Email       string `json:"email" form:"email"`
	PhoneNumber string `json:"phoneNumber" form:"phoneNumber"`
	Password    string `json:"password" form:"password"`
	Role        string `json:"role" form:"role"`
	ProfileFields
}

type LoginRequest struct {
	Email    string `json:"email" form:"email" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
	Role     string `json:"role" form:"role" binding:"required"`
}

// UpdateProfileRequest is a partial update; blank values are ignored.
type UpdateProfileRequest struct {
	Fullname    string   `json:"fullname" form:"fullname"`
	Email       string   `json:"email" form:"email"`
	PhoneNumber string   `json:"phoneNumber" form:"phoneNumber"`
	Bio         string   `json:"bio" form:"bio"`
	Skills      FlexList `json:"skills" form:"skills"`
	ProfileFields
}
