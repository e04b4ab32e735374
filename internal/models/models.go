package models

import (
	"time"

	"github.com/lib/pq"
)

// Roles a User can hold. Role is fixed at registration.
const (
	RoleStudent   = "student"
	RoleRecruiter = "recruiter"
	RoleSuperUser = "superUser"
)

// Application statuses.
const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
)

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Fullname    string `gorm:"not null" json:"fullname"`
	Email       string `gorm:"uniqueIndex;not null" json:"email"`
	PhoneNumber string `gorm:"not null" json:"phoneNumber"`
	// Password holds the bcrypt hash and never leaves the server.
	Password string  `gorm:"not null" json:"-"`
	Role     string  `gorm:"not null;index" json:"role"`
	Profile  Profile `gorm:"embedded;embeddedPrefix:profile_" json:"profile"`
}

type Company struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Name        string `gorm:"uniqueIndex;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	Website     string `json:"website"`
	Location    string `json:"location"`
	Logo        string `json:"logo"`
	Industry    string `gorm:"index" json:"industry"`

	// UserID is the owning recruiter; admin-created companies have none.
	UserID *uint `gorm:"index" json:"userId"`
	User   *User `json:"user,omitempty"`
}

type Job struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Title           string         `gorm:"not null" json:"title"`
	Description     string         `gorm:"type:text;not null" json:"description"`
	Requirements    pq.StringArray `gorm:"type:text[]" json:"requirements"`
	Salary          string         `gorm:"not null" json:"salary"`
	SalaryValue     *float64       `gorm:"index" json:"salaryValue,omitempty"`
	ExperienceLevel int            `gorm:"not null;default:1" json:"experienceLevel"`
	Location        string         `gorm:"not null" json:"location"`
	JobType         string         `gorm:"not null" json:"jobType"`
	Position        int            `gorm:"not null" json:"position"`

	CompanyID uint     `gorm:"not null;index" json:"companyId"`
	Company   *Company `json:"company,omitempty"`

	CreatedByID *uint `gorm:"index" json:"created_by"`
	CreatedBy   *User `json:"createdBy,omitempty"`

	// Applications is filled by preload; Application.JobID is the only stored link.
	Applications []Application `json:"applications"`
}

type Application struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	JobID       uint   `gorm:"not null;uniqueIndex:idx_application_job_applicant" json:"jobId"`
	Job         *Job   `json:"job,omitempty"`
	ApplicantID uint   `gorm:"not null;uniqueIndex:idx_application_job_applicant;index" json:"applicantId"`
	Applicant   *User  `json:"applicant,omitempty"`
	Status      string `gorm:"not null;default:pending;index" json:"status"`
}

type Blog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Title    string         `gorm:"not null" json:"title"`
	Content  string         `gorm:"type:text;not null" json:"content"`
	AuthorID uint           `gorm:"not null;index" json:"authorId"`
	Author   *User          `json:"author,omitempty"`
	Tags     pq.StringArray `gorm:"type:text[]" json:"tags"`
	Image    string         `json:"image"`

	Comments []Comment `json:"comments,omitempty"`
}

type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Content  string `gorm:"type:text;not null" json:"content"`
	AuthorID uint   `gorm:"not null;index" json:"authorId"`
	Author   *User  `json:"author,omitempty"`
	BlogID   uint   `gorm:"not null;index" json:"blogId"`
}

// IsValidRole reports whether role is one of the known roles.
func IsValidRole(role string) bool {
	switch role {
	case RoleStudent, RoleRecruiter, RoleSuperUser:
		return true
	}
	return false
}
