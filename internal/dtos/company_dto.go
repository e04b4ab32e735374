package dtos

type CompanyRegisterRequest struct {
	CompanyName string `json:"companyName" form:"companyName" binding:"required"`
}

// CompanyRequest is used by add and update; update ignores blank fields.
type CompanyRequest struct {
	Name        string `json:"name" form:"name"`
	Description string `json:"description" form:"description"`
	Website     string `json:"website" form:"website"`
	Location    string `json:"location" form:"location"`
	Industry    string `json:"industry" form:"industry"`
}
