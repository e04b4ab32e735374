package dtos

type StatusRequest struct {
	Status string `json:"status" binding:"required"`
}
