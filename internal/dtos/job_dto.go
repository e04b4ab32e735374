package dtos

type JobExtractionRequest struct {
	RawHTML string `json:"raw_html" binding:"required"`
	URL     string `json:"url"`
}

// ExtractedJob is the draft the extractor fills from a posting. Missing values stay empty.
type ExtractedJob struct {
	CompanyName     string   `json:"company_name"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Requirements    []string `json:"requirements"`
	Salary          string   `json:"salary"`
	Location        string   `json:"location"`
	JobType         string   `json:"jobType"`
	ExperienceLevel int      `json:"experienceLevel"`
	Position        int      `json:"position"`
	URL             string   `json:"url,omitempty"`

	// CompanyID is set when the company is already registered.
	CompanyID *uint `json:"companyId,omitempty"`
}

type JobPostRequest struct {
	Title           string   `json:"title" binding:"required"`
	Description     string   `json:"description" binding:"required"`
	Requirements    FlexList `json:"requirements"`
	Salary          string   `json:"salary" binding:"required"`
	ExperienceLevel *int     `json:"experienceLevel" binding:"omitempty,min=0"`
	Location        string   `json:"location" binding:"required"`
	JobType         string   `json:"jobType" binding:"required"`
	Position        int      `json:"position" binding:"required,min=1"`
	CompanyID       uint     `json:"companyId" binding:"required"`
}

// JobUpdateRequest only changes the fields that are present.
type JobUpdateRequest struct {
	Title           *string  `json:"title"`
	Description     *string  `json:"description"`
	Requirements    FlexList `json:"requirements"`
	Salary          *string  `json:"salary"`
	ExperienceLevel *int     `json:"experienceLevel" binding:"omitempty,min=0"`
	Location        *string  `json:"location"`
	JobType         *string  `json:"jobType"`
	Position        *int     `json:"position" binding:"omitempty,min=1"`
	CompanyID       *uint    `json:"companyId"`
}
